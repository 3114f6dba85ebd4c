package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/normalize"
	"github.com/pfrederiksen/skate-results/internal/result"
	"github.com/pfrederiksen/skate-results/internal/table"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

const catRSPage = `
<html><body>
<table>
	<tr><td>FPl.</td><td>Name</td><td>Club</td><td>Points</td><td>SP</td><td>FS</td></tr>
	<tr><td>1</td><td>羽生 結弦</td><td>ANA</td><td>250.00</td><td>1</td><td>1</td></tr>
	<tr><td>2</td><td>宇野　昌磨</td><td>トヨタ自動車</td><td>240.00</td><td>2</td><td>2</td></tr>
	<tr><td>3</td><td>羽生 結弦ジュニア</td><td>Club</td><td>200.00</td><td>3</td><td>3</td></tr>
	<tr><td>WD</td><td>鍵山 優真</td><td>オリエンタルバイオ</td><td>45.20</td><td></td><td></td></tr>
</table>
</body></html>`

func TestLocate_CATRS(t *testing.T) {
	src := &catalog.Source{Name: "全日本", Season: "2024-25", Schema: catalog.SchemaCATRS}
	doc := mustDoc(t, catRSPage)

	tests := []struct {
		name   string
		target string
		want   *result.Result
	}{
		{
			name:   "exact match preferred over substring",
			target: "羽生結弦",
			want:   &result.Result{FinalRank: result.Placed(1), TotalScore: 250, SPRank: 1, FSRank: 1, Status: result.StatusCompleted},
		},
		{
			name:   "ideographic space in cell",
			target: "宇野 昌磨",
			want:   &result.Result{FinalRank: result.Placed(2), TotalScore: 240, SPRank: 2, FSRank: 2, Status: result.StatusCompleted},
		},
		{
			name:   "substring match when no exact cell",
			target: "結弦ジュニア",
			want:   &result.Result{FinalRank: result.Placed(3), TotalScore: 200, SPRank: 3, FSRank: 3, Status: result.StatusCompleted},
		},
		{
			name:   "withdrawal",
			target: "鍵山優真",
			want:   &result.Result{FinalRank: result.Withdrawal(), TotalScore: 45.2, Status: result.StatusWithdrawn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Locate(doc, tt.target, src)
			if got == nil {
				t.Fatalf("Locate(%q) = nil", tt.target)
			}
			assertRecord(t, got, tt.want)
		})
	}

	if got := Locate(doc, "山田 太郎", src); got != nil {
		t.Errorf("Locate(absent) = %+v, want nil", got)
	}
	if got := Locate(doc, "  ", src); got != nil {
		t.Errorf("Locate(blank) = %+v, want nil", got)
	}
}

func TestLocate_DataHTM(t *testing.T) {
	src := &catalog.Source{Name: "2022 関東選手権大会", Season: "2022-23", Schema: catalog.SchemaDataHTM}

	t.Run("row with structured layout", func(t *testing.T) {
		doc := mustDoc(t, `
			<table>
				<tr><th>Pl</th><th>Name</th><th>Club</th><th>SP</th><th>FS</th><th>Total</th></tr>
				<tr><td>1.</td><td>宇野 昌磨</td><td>トヨタ自動車</td><td>1</td><td>1</td><td>280.00</td></tr>
				<tr><td>2.</td><td>鍵山 優真</td><td>オリエンタルバイオ</td><td>3</td><td>2</td><td>270.50</td></tr>
			</table>`)

		got := Locate(doc, "鍵山優真", src)
		if got == nil {
			t.Fatal("Locate() = nil")
		}
		assertRecord(t, got, &result.Result{FinalRank: result.Placed(2), TotalScore: 270.5, SPRank: 3, FSRank: 2, Status: result.StatusCompleted})
	})

	t.Run("name split from its scores", func(t *testing.T) {
		doc := mustDoc(t, `
			<table>
				<tr><td>Pl</td><td>Name</td><td>Club</td></tr>
				<tr><td>佐藤 駿</td><td>エームサービス</td></tr>
				<tr><td>2.</td><td></td><td></td><td>2</td><td>4</td><td>251.30</td></tr>
			</table>`)

		got := Locate(doc, "佐藤駿", src)
		if got == nil {
			t.Fatal("Locate() = nil")
		}
		assertRecord(t, got, &result.Result{FinalRank: result.Placed(2), TotalScore: 251.3, SPRank: 2, FSRank: 4, Status: result.StatusCompleted})
	})

	t.Run("wide row without rank falls through to neighbour", func(t *testing.T) {
		doc := mustDoc(t, `
			<table>
				<tr><td></td><td>佐藤 駿</td><td>エームサービス</td><td>2</td><td>1</td><td>85.50</td></tr>
				<tr><td>4.</td><td></td><td></td><td>3</td><td>5</td><td>240.75</td></tr>
			</table>`)

		got := Locate(doc, "佐藤駿", src)
		if got == nil {
			t.Fatal("Locate() = nil")
		}
		assertRecord(t, got, &result.Result{FinalRank: result.Placed(4), TotalScore: 240.75, SPRank: 3, FSRank: 5, Status: result.StatusCompleted})
	})

	t.Run("two rows above tried before one below", func(t *testing.T) {
		doc := mustDoc(t, `
			<table>
				<tr><td>1.</td><td></td><td></td><td>1</td><td>2</td><td>260.00</td></tr>
				<tr><td>備考</td></tr>
				<tr><td></td><td>佐藤 駿</td><td>エームサービス</td><td></td><td></td><td></td></tr>
				<tr><td>6.</td><td></td><td></td><td>6</td><td>6</td><td>210.40</td></tr>
			</table>`)

		got := Locate(doc, "佐藤駿", src)
		if got == nil {
			t.Fatal("Locate() = nil")
		}
		assertRecord(t, got, &result.Result{FinalRank: result.Placed(1), TotalScore: 260, SPRank: 1, FSRank: 2, Status: result.StatusCompleted})
	})

	t.Run("later occurrence after an unusable one", func(t *testing.T) {
		doc := mustDoc(t, `
			<table><tr><td>出場選手: 三浦 佳生</td></tr></table>
			<table>
				<tr><td>5</td><td>三浦 佳生</td><td>オリエンタルバイオ</td><td>6</td><td>5</td><td>230.10</td></tr>
			</table>`)

		got := Locate(doc, "三浦 佳生", src)
		if got == nil {
			t.Fatal("Locate() = nil")
		}
		assertRecord(t, got, &result.Result{FinalRank: result.Placed(5), TotalScore: 230.1, SPRank: 6, FSRank: 5, Status: result.StatusCompleted})
	})

	t.Run("withdrawn row", func(t *testing.T) {
		doc := mustDoc(t, `
			<table>
				<tr><td>WD</td><td>友野 一希</td><td>セントラルスポーツ</td><td>80.12</td></tr>
			</table>`)

		got := Locate(doc, "友野一希", src)
		if got == nil {
			t.Fatal("Locate() = nil")
		}
		assertRecord(t, got, &result.Result{FinalRank: result.Withdrawal(), TotalScore: 80.12, Status: result.StatusWithdrawn})
	})

	t.Run("name present without a valid row", func(t *testing.T) {
		doc := mustDoc(t, `<table><tr><td>島田 高志郎</td><td>木下グループ</td></tr></table>`)
		if got := Locate(doc, "島田高志郎", src); got != nil {
			t.Errorf("Locate() = %+v, want nil", got)
		}
	})
}

func TestCellMatches(t *testing.T) {
	name := "羽生 結弦"
	key := normalize.Name(name)

	tests := []struct {
		cell string
		want bool
	}{
		{"羽生　結弦", true},
		{"羽生 結弦 (ANA)", true},
		{"羽生", true},
		{"羽", false},
		{"1", false},
		{"", false},
		{"宇野 昌磨", false},
	}

	for _, tt := range tests {
		if got := cellMatches(tt.cell, name, key); got != tt.want {
			t.Errorf("cellMatches(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestLocateSequence_Candidates(t *testing.T) {
	seq := sequence("羽生 結弦 (ANA)", "x", "羽生結弦", "y")
	if got := sequenceCandidates(seq, "羽生結弦"); len(got) != 1 || got[0] != 2 {
		t.Errorf("sequenceCandidates() = %v, want [2]", got)
	}
	if got := sequenceCandidates(seq, ""); got != nil {
		t.Errorf("sequenceCandidates(\"\") = %v, want nil", got)
	}
	if got := sequenceCandidates(table.Sequence{}, "羽生結弦"); got != nil {
		t.Errorf("sequenceCandidates(empty) = %v, want nil", got)
	}
}
