// Package result defines the normalized competition record produced for a
// skater and the ordering applied to a result set.
//
// A Result is created by the extraction engine once a table row passes field
// validation, then enriched with the event month and the per-segment scores
// before being handed to the caller.
package result
