package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Thresholds holds the numeric limits used to accept ranks and scores.
type Thresholds struct {
	MaxRank           int     // ranks are accepted in 1..MaxRank
	MinTotalScore     float64 // smallest plausible total for a finished skater
	MinWithdrawnScore float64 // smallest partial score kept for a withdrawal

	MinSegmentScore float64 // labeled or header-confirmed segment score range
	MaxSegmentScore float64
	MinLooseSegment float64 // range for an unlabeled score without a header
	MaxLooseSegment float64

	WithdrawalReach int    // cells on each side of a flattened or segment match checked for WD
	SegmentLabel    string // column header / inline label of a segment score
}

// DefaultThresholds are tuned for jsfresults.com pages.
var DefaultThresholds = Thresholds{
	MaxRank:           50,
	MinTotalScore:     30.0,
	MinWithdrawnScore: 10.0,
	MinSegmentScore:   15.00,
	MaxSegmentScore:   200.00,
	MinLooseSegment:   20.00,
	MaxLooseSegment:   150.00,
	WithdrawalReach:   3,
	SegmentLabel:      "TSS",
}

// Extractor applies a set of thresholds. The zero value is not usable; use
// New or the package-level functions.
type Extractor struct {
	t       Thresholds
	labeled *regexp.Regexp
}

// New creates an Extractor with the given thresholds.
func New(t Thresholds) *Extractor {
	return &Extractor{
		t:       t,
		labeled: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t.SegmentLabel) + `=?\s*(\d{1,3}\.\d{2})`),
	}
}

var std = New(DefaultThresholds)

var (
	rankPattern    = regexp.MustCompile(`^\d+\.?$`)
	decimalPattern = regexp.MustCompile(`^\d+\.\d+$`)
	bareSegment    = regexp.MustCompile(`^\d{2,3}\.\d{2}$`)
)

// isWithdrawal reports whether a cell is a withdrawal marker.
func isWithdrawal(text string) bool {
	return text == "WD" || strings.EqualFold(text, "withdrawn")
}

// parseRank parses "3" or "3." and reports whether it is within 1..max.
func parseRank(text string, max int) (int, bool) {
	if !rankPattern.MatchString(text) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(text, "."))
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}

// parseDecimal parses "85.50" style cells. Integers are not scores.
func parseDecimal(text string) (float64, bool) {
	if !decimalPattern.MatchString(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
