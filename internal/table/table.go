// Package table turns result-page HTML into plain cell views so extraction
// logic can work on ordered strings instead of DOM traversal.
package table

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Cell is one non-empty table cell in document order.
type Cell struct {
	Index int
	Text  string
}

// Sequence is the flattened, ordered list of non-empty cells of a page.
// Window arithmetic around a match is plain index arithmetic on it.
type Sequence []Cell

// Table is one HTML table as rows of trimmed td texts. Rows without td cells
// are kept as empty rows so neighbor offsets match the markup. Header is nil
// when the table has no th row.
type Table struct {
	Header []string
	Rows   [][]string
}

// Flatten collects every non-empty td of the document in document order.
func Flatten(doc *goquery.Document) Sequence {
	seq := make(Sequence, 0)
	doc.Find("td").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		seq = append(seq, Cell{Index: len(seq), Text: text})
	})
	return seq
}

// Texts returns the cell texts of seq[from:to], clamped to the sequence.
func (s Sequence) Texts(from, to int) []string {
	from = max(from, 0)
	to = min(to, len(s))
	if from >= to {
		return nil
	}
	out := make([]string, 0, to-from)
	for _, c := range s[from:to] {
		out = append(out, c.Text)
	}
	return out
}

// Parse splits the document into tables of rows. The header is the th and td
// text of the first row that contains a th cell.
func Parse(doc *goquery.Document) []Table {
	tables := make([]Table, 0)
	doc.Find("table").Each(func(i int, tbl *goquery.Selection) {
		var t Table
		tbl.Find("tr").Each(func(j int, tr *goquery.Selection) {
			if t.Header == nil && tr.Find("th").Length() > 0 {
				t.Header = texts(tr.Find("th, td"))
			}
			t.Rows = append(t.Rows, texts(tr.Find("td")))
		})
		tables = append(tables, t)
	})
	return tables
}

func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

// HeaderAt returns the header text above column col, and false when the
// table has no header cell there.
func (t Table) HeaderAt(col int) (string, bool) {
	if col < 0 || col >= len(t.Header) {
		return "", false
	}
	return t.Header[col], true
}
