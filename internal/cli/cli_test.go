package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/result"
)

const catalogTemplate = `
sources:
  - name: 2022 関東選手権
    season: "2022-23"
    month: 11
    organizer: 国内
    base_url: BASE/kanto/
    schema: DATA_HTM
    categories:
      - label: 男子
        file: data0190.htm
`

func newResultsServer(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/kanto/data0190.htm": `<table>
			<tr><td>1</td><td>宇野 昌磨</td><td>トヨタ自動車</td><td>1</td><td>1</td><td>280.00</td></tr>
			<tr><td>3</td><td>羽生 結弦</td><td>ANA</td><td>2</td><td>4</td><td>201.33</td></tr>
		</table>`,
		"/kanto/data0103.htm": `<table><tr><td>羽生 結弦</td><td>TSS=70.12</td></tr></table>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(html)) // nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeCatalog(t *testing.T, base string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(strings.ReplaceAll(catalogTemplate, "BASE", base)), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := run(context.Background(), cmd)
	return code, stdout.String(), stderr.String()
}

func TestSearchCommand_JSON(t *testing.T) {
	srv := newResultsServer(t)
	catalogPath := writeCatalog(t, srv.URL)
	dataDir := t.TempDir()

	code, stdout, stderr := execute(t, "search", "羽生結弦",
		"--catalog", catalogPath, "--data-dir", dataDir, "--delay", "0", "--format", "json")

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d; stderr: %s", code, ExitSuccess, stderr)
	}

	var out OutputResult
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decoding output %q: %v", stdout, err)
	}
	if out.Count != 1 || len(out.Results) != 1 {
		t.Fatalf("count = %d, results = %d; want 1", out.Count, len(out.Results))
	}

	r := out.Results[0]
	if r.FinalRank != result.Placed(3) || r.TotalScore != 201.33 {
		t.Errorf("result = %s / %v, want 3 / 201.33", r.FinalRank, r.TotalScore)
	}
	if r.SPScore != 70.12 || r.FSScore != 0 {
		t.Errorf("segment scores = %v / %v, want 70.12 / 0", r.SPScore, r.FSScore)
	}
	if r.Month != 11 {
		t.Errorf("month = %v, want 11", r.Month)
	}
	if r.SourceURL != srv.URL+"/kanto/data0190.htm" {
		t.Errorf("source url = %s", r.SourceURL)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "periods.json")); err != nil {
		t.Errorf("month cache not written: %v", err)
	}
}

func TestSearchCommand_NotFound(t *testing.T) {
	srv := newResultsServer(t)
	catalogPath := writeCatalog(t, srv.URL)

	code, stdout, _ := execute(t, "search", "山田", "太郎",
		"--catalog", catalogPath, "--data-dir", t.TempDir(), "--delay", "0")

	if code != ExitNotFound {
		t.Errorf("exit code = %d, want %d", code, ExitNotFound)
	}
	if !strings.Contains(stdout, "No results found for 山田 太郎.") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSearchCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"search", "x", "--format", "xml"}, "invalid format"},
		{"sort", []string{"search", "x", "--sort", "name"}, "invalid sort order"},
		{"log level", []string{"search", "x", "--log-level", "loud"}, "invalid log level"},
		{"catalog", []string{"search", "x", "--catalog", "/nonexistent/catalog.yaml"}, "loading catalog"},
		{"missing name", []string{"search"}, "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			if code != ExitError {
				t.Errorf("exit code = %d, want %d", code, ExitError)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestSourcesCommand(t *testing.T) {
	code, stdout, stderr := execute(t, "sources")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Total: 28 competitions") {
		t.Errorf("stdout does not report 28 competitions:\n%s", stdout)
	}

	code, stdout, _ = execute(t, "sources", "--format", "json")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	var sources []*catalog.Source
	if err := json.Unmarshal([]byte(stdout), &sources); err != nil {
		t.Fatalf("decoding sources: %v", err)
	}
	if len(sources) != len(catalog.Default()) {
		t.Errorf("got %d sources, want %d", len(sources), len(catalog.Default()))
	}
}

func TestWriteText(t *testing.T) {
	out := &OutputResult{
		Player: "羽生結弦",
		Results: []*result.Result{
			{
				Season:     "2024-25",
				Month:      12,
				SourceName: "第93回全日本選手権",
				Category:   "男子",
				SourceURL:  "https://www.jsfresults.com/x/CAT001RS.htm",
				FinalRank:  result.Placed(2),
				TotalScore: 270.5,
				SPRank:     2,
				SPScore:    95.1,
				FSRank:     3,
				Status:     result.StatusCompleted,
			},
			{
				Season:     "2023-24",
				SourceName: "関東選手権",
				Category:   "男子",
				FinalRank:  result.Withdrawal(),
				TotalScore: 45.2,
				Status:     result.StatusWithdrawn,
			},
		},
		Count: 2,
	}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, out, FormatText, true); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	text := buf.String()

	for _, want := range []string{
		"2024-25 12月  第93回全日本選手権 男子",
		"Rank: 2  Total: 270.50  SP: 95.10 (2)  FS: - (3)",
		"2023-24 不明  関東選手権 男子",
		"Rank: WD  Total: 45.20  SP: -  FS: -",
		"Source: https://www.jsfresults.com/x/CAT001RS.htm",
		"Total: 2 results for 羽生結弦",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if err := WriteOutput(&buf, out, OutputFormat("csv"), false); err == nil {
		t.Error("WriteOutput() with unknown format should fail")
	}
}

func TestSortResults(t *testing.T) {
	newResults := func() []*result.Result {
		return []*result.Result{
			{Season: "2022-23", FinalRank: result.Placed(5), TotalScore: 180, Status: result.StatusCompleted},
			{Season: "2024-25", FinalRank: result.Withdrawal(), TotalScore: 40, Status: result.StatusWithdrawn},
			{Season: "2023-24", FinalRank: result.Placed(1), TotalScore: 250, Status: result.StatusCompleted},
			{Season: "2024-25", FinalRank: result.Placed(5), TotalScore: 200, Status: result.StatusCompleted},
		}
	}
	seasons := func(rs []*result.Result) string {
		parts := make([]string, len(rs))
		for i, r := range rs {
			parts[i] = r.Season + "/" + r.FinalRank.String()
		}
		return strings.Join(parts, " ")
	}

	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortBySeason, "2024-25/WD 2024-25/5 2023-24/1 2022-23/5"},
		{SortByRank, "2023-24/1 2024-25/5 2022-23/5 2024-25/WD"},
		{SortByScore, "2023-24/1 2024-25/5 2022-23/5 2024-25/WD"},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			rs := newResults()
			sortResults(rs, tt.order)
			if got := seasons(rs); got != tt.want {
				t.Errorf("sortResults(%s) = %s, want %s", tt.order, got, tt.want)
			}
		})
	}
}

func TestSourcesCommand_Filter(t *testing.T) {
	code, stdout, stderr := execute(t, "sources", "--season", "2024")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Total: 7 competitions") {
		t.Errorf("--season 2024 output:\n%s", stdout)
	}

	code, stdout, _ = execute(t, "sources", "--season", "2021..2024", "--competition", "全日本")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "Total: 4 competitions") {
		t.Errorf("nationals output:\n%s", stdout)
	}

	code, _, stderr = execute(t, "sources", "--season", "2019")
	if code != ExitError || !strings.Contains(stderr, "no competitions match") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr)
	}

	code, _, stderr = execute(t, "sources", "--season", "soon")
	if code != ExitError || !strings.Contains(stderr, "invalid season") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestSourcesCommand_Organizer(t *testing.T) {
	code, stdout, stderr := execute(t, "sources", "--organizer", "国内", "--season", "2024")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d; stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Total: 7 competitions") {
		t.Errorf("--organizer 国内 output:\n%s", stdout)
	}

	code, _, stderr = execute(t, "sources", "--organizer", "ISU")
	if code != ExitError || !strings.Contains(stderr, "Organizers: ISU") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr)
	}
}
