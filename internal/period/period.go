package period

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Month is a calendar month in 1..12, or Unknown.
type Month int

// Unknown means no date evidence was found. Callers must not substitute a guess.
const Unknown Month = 0

// HeadingSelector lists the heading-like elements searched when the whole-page
// pass finds nothing.
const HeadingSelector = "caption, th, .title, .header, h1, h2, h3"

// Valid reports whether m is a real calendar month.
func (m Month) Valid() bool {
	return m >= 1 && m <= 12
}

// String renders the month as "December", or "unknown".
func (m Month) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return time.Month(m).String()
}

// Label renders the month the way the results site prints it ("12月").
func (m Month) Label() string {
	if !m.Valid() {
		return "不明"
	}
	return fmt.Sprintf("%d月", int(m))
}

// extractor pulls the start and end month out of a submatch. end is 0 for
// patterns that describe a single month.
type extractor func(m []string) (start, end int)

type pattern struct {
	re  *regexp.Regexp
	get extractor
}

const sep = `\s*[〜～~\-–]\s*`

func groups(start, end int) extractor {
	return func(m []string) (int, int) {
		s, _ := strconv.Atoi(m[start])
		if end == 0 {
			return s, 0
		}
		e, _ := strconv.Atoi(m[end])
		return s, e
	}
}

// patterns is ordered longest/most specific first.
var patterns = []pattern{
	{regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日` + sep + `(\d{1,2})月\s*(\d{1,2})日`), groups(2, 4)},
	{regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日` + sep + `(\d{1,2})日`), groups(2, 0)},
	{regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日`), groups(2, 0)},
	{regexp.MustCompile(`(\d{1,2})月\s*(\d{1,2})日` + sep + `(\d{1,2})月\s*(\d{1,2})日`), groups(1, 3)},
	{regexp.MustCompile(`(\d{1,2})月\s*(\d{1,2})日` + sep + `(\d{1,2})日`), groups(1, 0)},
	{regexp.MustCompile(`(\d{1,2})月\s*(\d{1,2})日`), groups(1, 0)},
	{regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})-(\d{1,2})\.(\d{1,2})`), groups(2, 4)},
	{regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})-(\d{1,2})`), groups(2, 0)},
	{regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`), groups(2, 0)},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})-(\d{1,2})/(\d{1,2})`), groups(1, 3)},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})-(\d{1,2})`), groups(1, 0)},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})`), groups(1, 0)},
}

// Extract returns the month of the first pattern, in priority order, that
// matches text with a valid month. Matches with an out-of-range month are
// skipped.
func Extract(text string) Month {
	if text == "" {
		return Unknown
	}

	for _, p := range patterns {
		for _, sub := range p.re.FindAllStringSubmatch(text, -1) {
			start, end := p.get(sub)
			if m := resolve(start, end); m.Valid() {
				return m
			}
		}
	}

	return Unknown
}

// resolve picks the month reported for a date or date range. A range across
// two months yields the numerically smaller one, so 12→1 yields 1.
func resolve(start, end int) Month {
	s, e := Month(start), Month(end)
	if !s.Valid() {
		return Unknown
	}
	if !e.Valid() {
		return s
	}
	return min(s, e)
}

// FromDocument searches the whole page text first, then falls back to
// heading-like elements in document order.
func FromDocument(doc *goquery.Document) Month {
	if doc == nil {
		return Unknown
	}

	if m := Extract(doc.Text()); m.Valid() {
		return m
	}

	found := Unknown
	doc.Find(HeadingSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		found = Extract(sel.Text())
		return !found.Valid()
	})

	return found
}
