// Package scraper fetches jsfresults.com pages and parses them into goquery
// documents.
//
// Pages are requested with browser-like headers and a per-request timeout.
// Non-2xx responses are returned as *StatusError so callers can log the
// status code; the search loop treats every fetch error as a skipped page.
package scraper
