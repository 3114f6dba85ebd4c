package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	seasonPattern = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?$`)
)

// ParseSeasons parses a season list into season labels ("2024-25").
//
// Supported formats, comma separated:
//   - "2024-25" - A single season
//   - "2024" - The season starting in that year
//   - "2022-23..2024-25" or "2022..2024" - An inclusive range, oldest first
//
// Returns an error for malformed seasons or a reversed range.
func ParseSeasons(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("season cannot be empty")
	}

	var seasons []string
	seen := make(map[string]bool)
	add := func(start int) {
		s := label(start)
		if !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		from, to, isRange := strings.Cut(part, "..")
		start, err := parseSeason(from)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = parseSeason(to); err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("season range %q must be oldest first", part)
			}
		}

		for y := start; y <= end; y++ {
			add(y)
		}
	}

	if len(seasons) == 0 {
		return nil, fmt.Errorf("season cannot be empty")
	}
	return seasons, nil
}

// parseSeason returns the starting year of "2024-25" or "2024".
func parseSeason(s string) (int, error) {
	s = strings.TrimSpace(s)
	m := seasonPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid season: %q (use '2024-25' or '2024')", s)
	}

	year, _ := strconv.Atoi(m[1])
	if m[2] != "" {
		next, _ := strconv.Atoi(m[2])
		if next != (year+1)%100 {
			return 0, fmt.Errorf("invalid season: %q (years must be consecutive)", s)
		}
	}
	return year, nil
}

func label(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// ParseList splits a comma separated value list, dropping blanks.
func ParseList(input string) []string {
	var out []string
	for _, v := range strings.Split(input, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
