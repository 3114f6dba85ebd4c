// Package cli implements the command-line interface for skate-results.
//
// The cli package provides the Cobra-based CLI with commands to search a
// skater's results (text/JSON output, sorting by season, rank or score), run
// the HTTP search service, and list the source catalog. It wires the catalog,
// scraper, search, storage and server packages together.
package cli
