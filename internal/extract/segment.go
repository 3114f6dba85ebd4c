package extract

import (
	"strconv"
	"strings"

	"github.com/pfrederiksen/skate-results/internal/normalize"
	"github.com/pfrederiksen/skate-results/internal/table"
)

// maxNameCell bounds the length of a cell accepted as a raw-substring name
// match. Detail pages embed bulk data blobs that would otherwise match.
const maxNameCell = 100

// SegmentScore reads a segment score using the default thresholds.
func SegmentScore(tables []table.Table, name string) float64 {
	return std.SegmentScore(tables, name)
}

// SegmentScore finds the skater's row on a segment detail page and returns
// the segment score, or 0 when the skater is absent, withdrew from the
// segment, or no score can be attributed with confidence.
func (e *Extractor) SegmentScore(tables []table.Table, name string) float64 {
	key := normalize.Name(name)
	if key == "" {
		return 0
	}

	for _, t := range tables {
		for r, row := range t.Rows {
			col := segmentMatch(row, name, key)
			if col < 0 {
				continue
			}
			if e.withdrawnNear(row, col) {
				return 0
			}
			if v, ok := e.scanScore(t, row, col); ok {
				return v
			}
			for _, off := range []int{-1, 1} {
				n := r + off
				if n < 0 || n >= len(t.Rows) {
					continue
				}
				if v, ok := e.scanScore(t, t.Rows[n], col); ok {
					return v
				}
			}
			return 0
		}
	}
	return 0
}

// segmentMatch returns the column of the first cell naming the skater, or -1.
func segmentMatch(row []string, name, key string) int {
	for i, c := range row {
		if normalize.Name(c) == key || c == name || (len(c) < maxNameCell && normalize.Contains(c, name)) {
			return i
		}
	}
	return -1
}

func (e *Extractor) withdrawnNear(row []string, col int) bool {
	from := max(0, col-e.t.WithdrawalReach)
	to := min(len(row), col+e.t.WithdrawalReach+1)
	for _, c := range row[from:to] {
		if isWithdrawal(c) {
			return true
		}
	}
	return false
}

// scanScore looks at row cells from col onward. A labeled score ("TSS=85.20")
// is accepted within the segment range. A bare score needs either a header
// naming the score column, or, with no header for the column, a value in the
// tighter loose range strictly right of the name.
func (e *Extractor) scanScore(t table.Table, row []string, col int) (float64, bool) {
	for i := max(col, 0); i < len(row); i++ {
		text := row[i]
		if text == "" || text == "-" {
			continue
		}

		if m := e.labeled.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && e.inSegmentRange(v) {
				return v, true
			}
		}

		if !bareSegment.MatchString(text) {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || !e.inSegmentRange(v) {
			continue
		}

		if header, ok := t.HeaderAt(i); ok {
			prev, _ := t.HeaderAt(i - 1)
			if strings.Contains(header, e.t.SegmentLabel) || strings.Contains(prev, e.t.SegmentLabel) {
				return v, true
			}
			continue
		}

		if i > col && v >= e.t.MinLooseSegment && v <= e.t.MaxLooseSegment {
			return v, true
		}
	}
	return 0, false
}

func (e *Extractor) inSegmentRange(v float64) bool {
	return v >= e.t.MinSegmentScore && v <= e.t.MaxSegmentScore
}
