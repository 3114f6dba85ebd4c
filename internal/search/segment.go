package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/extract"
	"github.com/pfrederiksen/skate-results/internal/logger"
	"github.com/pfrederiksen/skate-results/internal/table"
)

// Resolver reads short program and free skating scores from the segment
// detail pages of a category.
type Resolver struct {
	fetcher   Fetcher
	extractor *extract.Extractor
}

// NewResolver creates a Resolver. A nil extractor uses the default thresholds.
func NewResolver(fetcher Fetcher, ex *extract.Extractor) *Resolver {
	if ex == nil {
		ex = extract.New(extract.DefaultThresholds)
	}
	return &Resolver{fetcher: fetcher, extractor: ex}
}

// Resolve returns the SP and FS scores of name, 0 for a segment whose score
// could not be attributed. The two pages are fetched independently; an error
// is returned only when neither could be fetched.
func (r *Resolver) Resolve(ctx context.Context, src *catalog.Source, cat catalog.Category, name string) (sp, fs float64, err error) {
	spURL, fsURL, err := src.SegmentURLs(cat)
	if err != nil {
		return 0, 0, fmt.Errorf("deriving segment pages: %w", err)
	}

	sp, spErr := r.score(ctx, spURL, name)
	fs, fsErr := r.score(ctx, fsURL, name)
	if spErr != nil && fsErr != nil {
		return 0, 0, fmt.Errorf("fetching segment pages: %w", errors.Join(spErr, fsErr))
	}

	return sp, fs, nil
}

func (r *Resolver) score(ctx context.Context, url, name string) (float64, error) {
	doc, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Debug("Segment page fetch failed", logger.Fields{
			"url":   url,
			"error": err.Error(),
		})
		return 0, err
	}
	return r.extractor.SegmentScore(table.Parse(doc), name), nil
}
