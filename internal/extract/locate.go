package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/normalize"
	"github.com/pfrederiksen/skate-results/internal/result"
	"github.com/pfrederiksen/skate-results/internal/table"
)

// neighborOffsets are tried, in order, when a matched row does not validate.
var neighborOffsets = []int{-2, -1, 1, 2}

// Locate finds name in doc using the default thresholds.
func Locate(doc *goquery.Document, name string, src *catalog.Source) *result.Result {
	return std.Locate(doc, name, src)
}

// Locate finds name in doc according to the source schema and returns the
// first record that validates. nil means the skater is not on this page, or
// is on it without a usable row; neither is an error.
func (e *Extractor) Locate(doc *goquery.Document, name string, src *catalog.Source) *result.Result {
	if doc == nil || normalize.Name(name) == "" {
		return nil
	}
	if src.Schema == catalog.SchemaCATRS {
		return e.LocateSequence(table.Flatten(doc), name, src)
	}
	return e.LocateRows(table.Parse(doc), name, src)
}

// LocateSequence searches a flattened CAT_RS cell sequence. Cells whose key
// equals the target are preferred; raw substring matches are only tried when
// no cell matches exactly.
func (e *Extractor) LocateSequence(seq table.Sequence, name string, src *catalog.Source) *result.Result {
	for _, idx := range sequenceCandidates(seq, name) {
		if r := e.BuildWindow(seq, idx, src); r != nil {
			return r
		}
	}
	return nil
}

func sequenceCandidates(seq table.Sequence, name string) []int {
	key := normalize.Name(name)
	if key == "" {
		return nil
	}

	var exact, loose []int
	for i, c := range seq {
		switch {
		case normalize.Name(c.Text) == key:
			exact = append(exact, i)
		case normalize.Contains(c.Text, name):
			loose = append(loose, i)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return loose
}

// LocateRows searches DATA_HTM tables in document order. When the row that
// mentions the skater does not validate, the rows two above to two below are
// tried before scanning continues.
func (e *Extractor) LocateRows(tables []table.Table, name string, src *catalog.Source) *result.Result {
	key := normalize.Name(name)
	for _, t := range tables {
		for r, row := range t.Rows {
			if !rowMentions(row, name, key) {
				continue
			}
			if res := e.BuildRow(row, src); res != nil {
				return res
			}
			for _, off := range neighborOffsets {
				n := r + off
				if n < 0 || n >= len(t.Rows) {
					continue
				}
				if res := e.BuildRow(t.Rows[n], src); res != nil {
					return res
				}
			}
		}
	}
	return nil
}

func rowMentions(row []string, name, key string) bool {
	for _, c := range row {
		if cellMatches(c, name, key) {
			return true
		}
	}
	return false
}

// cellMatches is the lenient DATA_HTM name test: equal keys, raw containment,
// or key containment in either direction. A cell key must be at least two
// runes and contain a letter to count as part of the target name.
func cellMatches(text, name, key string) bool {
	ck := normalize.Name(text)
	if ck == "" || key == "" {
		return false
	}
	if ck == key || normalize.Contains(text, name) || strings.Contains(ck, key) {
		return true
	}
	return utf8.RuneCountInString(ck) >= 2 && strings.IndexFunc(ck, unicode.IsLetter) >= 0 && strings.Contains(key, ck)
}
