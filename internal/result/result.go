package result

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/pfrederiksen/skate-results/internal/period"
)

// Status is the completion state of a skater's entry.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusWithdrawn Status = "WD"
)

// withdrawnLabel is how a withdrawal is printed in place of a placement.
const withdrawnLabel = "WD"

// Rank is a final placement, or a withdrawal.
type Rank struct {
	Place     int
	Withdrawn bool
}

// Placed returns a rank for a finished placement.
func Placed(place int) Rank {
	return Rank{Place: place}
}

// Withdrawal returns the rank of a withdrawn skater.
func Withdrawal() Rank {
	return Rank{Withdrawn: true}
}

// String renders "WD" or the placement number.
func (r Rank) String() string {
	if r.Withdrawn {
		return withdrawnLabel
	}
	return strconv.Itoa(r.Place)
}

// MarshalJSON encodes a placement as a number and a withdrawal as "WD".
func (r Rank) MarshalJSON() ([]byte, error) {
	if r.Withdrawn {
		return json.Marshal(withdrawnLabel)
	}
	return json.Marshal(r.Place)
}

// UnmarshalJSON accepts either encoding produced by MarshalJSON.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != withdrawnLabel {
			return fmt.Errorf("invalid rank label: %q", label)
		}
		*r = Withdrawal()
		return nil
	}

	var place int
	if err := json.Unmarshal(data, &place); err != nil {
		return fmt.Errorf("decoding rank: %w", err)
	}
	*r = Placed(place)
	return nil
}

// Result is one skater's record at one event and category.
type Result struct {
	Season     string       `json:"year"`
	Month      period.Month `json:"month"`
	Organizer  string       `json:"organizer"`
	SourceName string       `json:"competition"`
	Category   string       `json:"category"`
	SourceURL  string       `json:"source_url"`
	FinalRank  Rank         `json:"finalRank"`
	TotalScore float64      `json:"totalScore"`
	SPRank     int          `json:"spRank"`
	SPScore    float64      `json:"spScore"`
	FSRank     int          `json:"fsRank"`
	FSScore    float64      `json:"fsScore"`
	Status     Status       `json:"status"`
}

// Valid checks the record invariants: withdrawal rank and status agree,
// scores are finite and non-negative, segment ranks are 0 or within 1..50,
// and a completed entry carries a positive total.
func (r *Result) Valid() error {
	if r.FinalRank.Withdrawn != (r.Status == StatusWithdrawn) {
		return fmt.Errorf("rank %s disagrees with status %s", r.FinalRank, r.Status)
	}
	for name, v := range map[string]float64{"total": r.TotalScore, "sp": r.SPScore, "fs": r.FSScore} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("invalid %s score: %v", name, v)
		}
	}
	for name, v := range map[string]int{"sp": r.SPRank, "fs": r.FSRank} {
		if v != 0 && (v < 1 || v > 50) {
			return fmt.Errorf("invalid %s rank: %d", name, v)
		}
	}
	if r.Status == StatusCompleted && r.TotalScore <= 0 {
		return fmt.Errorf("completed result without total score")
	}
	return nil
}

// SortBySeason orders results newest season first. Seasons are fixed-format
// strings ("2024-25") so lexicographic order is chronological. Ties keep
// their catalog order.
func SortBySeason(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Season > results[j].Season
	})
}
