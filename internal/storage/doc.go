// Package storage provides JSON-based persistence for memoized event months.
//
// Months resolved from result pages are written to periods.json so later runs
// do not need to re-derive them. The default storage location is
// ~/.local/share/skate-results/.
package storage
