package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/result"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	Player     string           `json:"player"`
	SearchedAt time.Time        `json:"searched_at"`
	Results    []*result.Result `json:"results"`
	Count      int              `json:"count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, out *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatText:
		return writeText(w, out, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, out *OutputResult, verbose bool) error {
	if out.Count == 0 {
		fmt.Fprintf(w, "No results found for %s.\n", out.Player)
		return nil
	}

	for _, r := range out.Results {
		fmt.Fprintf(w, "%s %s  %s %s\n", r.Season, r.Month.Label(), r.SourceName, r.Category)
		fmt.Fprintf(w, "  Rank: %s  Total: %.2f  SP: %s  FS: %s\n",
			r.FinalRank, r.TotalScore, segment(r.SPScore, r.SPRank), segment(r.FSScore, r.FSRank))
		if verbose {
			fmt.Fprintf(w, "       Status: %s\n", r.Status)
			fmt.Fprintf(w, "       Source: %s\n", r.SourceURL)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d results for %s\n", out.Count, out.Player)

	return nil
}

// segment renders a segment as "85.20 (3)", dropping unknown parts.
func segment(score float64, rank int) string {
	switch {
	case score > 0 && rank > 0:
		return fmt.Sprintf("%.2f (%d)", score, rank)
	case score > 0:
		return fmt.Sprintf("%.2f", score)
	case rank > 0:
		return fmt.Sprintf("- (%d)", rank)
	default:
		return "-"
	}
}

// WriteSources lists the catalog
func WriteSources(w io.Writer, sources []*catalog.Source, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, sources)
	}

	for _, s := range sources {
		month := "-"
		if s.MonthHint > 0 {
			month = fmt.Sprintf("%d月", s.MonthHint)
		}
		fmt.Fprintf(w, "%s  %-4s %-8s %s (%d categories)\n", s.Season, month, s.Schema, s.Name, len(s.Categories))
	}
	fmt.Fprintf(w, "\nTotal: %d competitions\n", len(sources))
	return nil
}
