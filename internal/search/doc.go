// Package search runs a skater search across the source catalog.
//
// Pages are fetched one at a time with a fixed delay between requests. Each
// page that names the skater yields a result, which is then completed with
// the event month and the short program and free skating scores read from
// the segment detail pages. Per-page failures are logged and skipped; only a
// timeout or cancellation ends a search with an error.
package search
