package extract

import (
	"math"
	"slices"

	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/result"
	"github.com/pfrederiksen/skate-results/internal/table"
)

// Flattened-sequence windows, in cells relative to the matched name. The
// withdrawal marker is looked for within Thresholds.WithdrawalReach cells.
const (
	rankBehind    = 20
	scoreAhead    = 25
	residualAhead = 20
)

// structuredColumns is the DATA_HTM row layout:
// rank, name, club, SP rank, FS rank, total.
const structuredColumns = 6

// draft accumulates fields before the acceptance gate.
type draft struct {
	rank      int
	withdrawn bool
	total     float64
	spRank    int
	fsRank    int
}

// accept applies the acceptance gate: a rank was found and either a total
// score was found or the skater withdrew.
func (d draft) accept(src *catalog.Source) *result.Result {
	if d.withdrawn {
		return newResult(src, result.Withdrawal(), d.total, d.spRank, d.fsRank, result.StatusWithdrawn)
	}
	if d.rank < 1 || d.total <= 0 {
		return nil
	}
	return newResult(src, result.Placed(d.rank), d.total, d.spRank, d.fsRank, result.StatusCompleted)
}

func newResult(src *catalog.Source, rank result.Rank, total float64, spRank, fsRank int, status result.Status) *result.Result {
	return &result.Result{
		Season:     src.Season,
		Organizer:  src.Organizer,
		SourceName: src.Name,
		FinalRank:  rank,
		TotalScore: total,
		SPRank:     spRank,
		FSRank:     fsRank,
		Status:     status,
	}
}

// BuildRow builds a result from the cells of one table row using the default
// thresholds.
func BuildRow(cells []string, src *catalog.Source) *result.Result {
	return std.BuildRow(cells, src)
}

// BuildRow builds a result from the cells of one DATA_HTM row, or returns nil
// when the row does not validate.
func (e *Extractor) BuildRow(cells []string, src *catalog.Source) *result.Result {
	if len(cells) == 0 {
		return nil
	}

	var d draft
	switch {
	case slices.ContainsFunc(cells, isWithdrawal):
		d.withdrawn = true
		d.total = e.firstDecimal(cells, e.t.MinWithdrawnScore)
	case e.structured(cells):
		d.rank, _ = parseRank(cells[0], math.MaxInt)
		d.spRank, _ = parseRank(cells[3], e.t.MaxRank)
		d.fsRank, _ = parseRank(cells[4], e.t.MaxRank)
		if v, ok := parseDecimal(cells[5]); ok && v >= e.t.MinTotalScore {
			d.total = v
		}
	default:
		for _, c := range cells {
			if n, ok := parseRank(c, e.t.MaxRank); ok && d.rank == 0 {
				d.rank = n
			}
			if v, ok := parseDecimal(c); ok && v >= e.t.MinTotalScore && v > d.total {
				d.total = v
			}
		}
	}

	return d.accept(src)
}

// structured reports whether the row follows the fixed DATA_HTM layout. A
// row wide enough for it is read positionally even when its rank cell is
// blank, and then fails acceptance instead of falling back.
func (e *Extractor) structured(cells []string) bool {
	return len(cells) >= structuredColumns
}

func (e *Extractor) firstDecimal(cells []string, floor float64) float64 {
	for _, c := range cells {
		if v, ok := parseDecimal(c); ok && v >= floor {
			return v
		}
	}
	return 0
}

// BuildWindow builds a result around seq[match] using the default thresholds.
func BuildWindow(seq table.Sequence, match int, src *catalog.Source) *result.Result {
	return std.BuildWindow(seq, match, src)
}

// BuildWindow builds a result for a CAT_RS page from the cells around the
// matched name: the placement is the closest rank before the name, the total
// is the first plausible score after it, and the first two ranks after it are
// the segment ranks.
func (e *Extractor) BuildWindow(seq table.Sequence, match int, src *catalog.Source) *result.Result {
	if match < 0 || match >= len(seq) {
		return nil
	}

	var d draft
	reach := e.t.WithdrawalReach
	if slices.ContainsFunc(seq.Texts(match-reach, match+reach+1), isWithdrawal) {
		d.withdrawn = true
		d.total = e.firstDecimal(seq.Texts(match+1, match+residualAhead+1), e.t.MinWithdrawnScore)
		return d.accept(src)
	}

	for _, c := range seq.Texts(match-rankBehind, match) {
		if n, ok := parseRank(c, e.t.MaxRank); ok {
			d.rank = n
		}
	}

	for _, c := range seq.Texts(match+1, match+scoreAhead+1) {
		if v, ok := parseDecimal(c); ok && v >= e.t.MinTotalScore && d.total == 0 {
			d.total = v
		}
		if n, ok := parseRank(c, e.t.MaxRank); ok {
			switch {
			case d.spRank == 0:
				d.spRank = n
			case d.fsRank == 0:
				d.fsRank = n
			}
		}
	}

	return d.accept(src)
}
