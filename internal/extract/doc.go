// Package extract locates a skater inside result tables and turns the matched
// cells into a validated result.
//
// Two publishing schemas are supported. CAT_RS pages are handled as a flat
// cell sequence and read through a window around the matched name. DATA_HTM
// pages are handled row by row, falling back to neighboring rows when the
// name and its scores were split across lines. Segment detail pages are read
// with a stricter, score-label driven scan.
//
// The numeric thresholds encode tuning against the results site's historical
// markup and are grouped in Thresholds so they can be adjusted together.
package extract
