package cli

import (
	"sort"

	"github.com/pfrederiksen/skate-results/internal/result"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortBySeason SortOrder = "season"
	SortByRank   SortOrder = "rank"
	SortByScore  SortOrder = "score"
)

func (o SortOrder) valid() bool {
	return o == SortBySeason || o == SortByRank || o == SortByScore
}

// sortResults sorts results based on the specified sort order. Each order
// falls back to newest season first.
func sortResults(results []*result.Result, order SortOrder) {
	switch order {
	case SortBySeason:
		result.SortBySeason(results)
	case SortByRank:
		sort.SliceStable(results, func(i, j int) bool {
			return compareByRank(results[i], results[j])
		})
	case SortByScore:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].TotalScore != results[j].TotalScore {
				return results[i].TotalScore > results[j].TotalScore
			}
			return results[i].Season > results[j].Season
		})
	}
}

// compareByRank compares two results by placement
// Returns true if result i should come before result j
func compareByRank(i, j *result.Result) bool {
	// Withdrawals sort after every placement
	if i.FinalRank.Withdrawn != j.FinalRank.Withdrawn {
		return !i.FinalRank.Withdrawn
	}
	if i.FinalRank.Place != j.FinalRank.Place {
		return i.FinalRank.Place < j.FinalRank.Place
	}
	return i.Season > j.Season
}
