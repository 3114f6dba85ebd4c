package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/skate-results/internal/catalog"
	"github.com/pfrederiksen/skate-results/internal/extract"
	"github.com/pfrederiksen/skate-results/internal/logger"
	"github.com/pfrederiksen/skate-results/internal/period"
	"github.com/pfrederiksen/skate-results/internal/result"
)

// ErrTimeout is returned when a search does not finish within Config.Timeout.
// Partial results are discarded.
var ErrTimeout = errors.New("search timed out")

// Fetcher retrieves and parses one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Config controls pacing and limits of a search.
type Config struct {
	Timeout      time.Duration // whole-search limit used by SearchWithTimeout
	RequestDelay time.Duration // pause after every category page
	Thresholds   extract.Thresholds
}

// DefaultConfig matches the limits the results site tolerates.
var DefaultConfig = Config{
	Timeout:      25 * time.Second,
	RequestDelay: 100 * time.Millisecond,
	Thresholds:   extract.DefaultThresholds,
}

// Stats summarizes one search.
type Stats struct {
	Pages  int
	Errors int
	Found  int
}

// Searcher runs searches against a fetcher. It is safe for concurrent use;
// the month cache is the only state shared between searches.
type Searcher struct {
	fetcher   Fetcher
	months    *catalog.MonthCache
	extractor *extract.Extractor
	resolver  *Resolver
	cfg       Config
}

// New creates a Searcher. A nil cache gets a private one. A zero Timeout or
// zero Thresholds fall back to DefaultConfig.
func New(fetcher Fetcher, months *catalog.MonthCache, cfg Config) *Searcher {
	if months == nil {
		months = catalog.NewMonthCache()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig.Timeout
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 0
	}
	if cfg.Thresholds == (extract.Thresholds{}) {
		cfg.Thresholds = DefaultConfig.Thresholds
	}

	ex := extract.New(cfg.Thresholds)
	return &Searcher{
		fetcher:   fetcher,
		months:    months,
		extractor: ex,
		resolver:  NewResolver(fetcher, ex),
		cfg:       cfg,
	}
}

// Months returns the month cache used by the searcher.
func (s *Searcher) Months() *catalog.MonthCache {
	return s.months
}

// Search visits every category page of every source in order and returns the
// skater's results, newest season first. A skater found nowhere yields an
// empty slice. Cancellation stops the loop and returns what was collected.
func (s *Searcher) Search(ctx context.Context, name string, sources []*catalog.Source) []*result.Result {
	results, _ := s.Run(ctx, name, sources)
	return results
}

// Run is Search that also reports page counts.
func (s *Searcher) Run(ctx context.Context, name string, sources []*catalog.Source) ([]*result.Result, Stats) {
	start := time.Now()
	results := make([]*result.Result, 0)
	var stats Stats

	logger.Info("Search started", logger.Fields{
		"player":  name,
		"sources": len(sources),
	})

loop:
	for i, src := range sources {
		for _, cat := range src.Categories {
			if ctx.Err() != nil {
				break loop
			}

			stats.Pages++
			logger.IncrCounter("search.pages")

			r, err := s.searchPage(ctx, name, src, cat)
			switch {
			case err != nil:
				stats.Errors++
				logger.IncrCounter("search.errors")
				logger.Warn("Page search failed", logger.Fields{
					"source":   src.Name,
					"season":   src.Season,
					"category": cat.Label,
					"index":    i + 1,
					"error":    err.Error(),
				})
			case r != nil:
				stats.Found++
				logger.IncrCounter("search.found")
				logger.Debug("Result found", logger.Fields{
					"source":      src.Name,
					"category":    cat.Label,
					"final_rank":  r.FinalRank.String(),
					"total_score": r.TotalScore,
					"month":       r.Month.Label(),
				})
				results = append(results, r)
			}

			if !sleep(ctx, s.cfg.RequestDelay) {
				break loop
			}
		}
	}

	result.SortBySeason(results)

	elapsed := time.Since(start)
	logger.RecordTiming("search.duration", elapsed)
	logger.SetGauge("catalog.months", float64(s.months.Len()))
	logger.Info("Search completed", logger.Fields{
		"player":      name,
		"pages":       stats.Pages,
		"succeeded":   stats.Pages - stats.Errors,
		"errors":      stats.Errors,
		"found":       stats.Found,
		"duration_ms": elapsed.Milliseconds(),
	})

	return results, stats
}

// SearchWithTimeout runs Search bounded by Config.Timeout. On expiry it
// returns ErrTimeout and no results; if ctx itself ends first its error is
// returned.
func (s *Searcher) SearchWithTimeout(ctx context.Context, name string, sources []*catalog.Source) ([]*result.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	done := make(chan []*result.Result, 1)
	go func() {
		done <- s.Search(ctx, name, sources)
	}()

	select {
	case results := <-done:
		// A search that ran out of time mid-loop returns early; report it.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return results, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warn("Search timed out", logger.Fields{
				"player":  name,
				"timeout": s.cfg.Timeout.String(),
			})
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

// searchPage fetches one category page and, when the skater is on it, builds
// the completed result. A nil result with nil error means not on this page.
func (s *Searcher) searchPage(ctx context.Context, name string, src *catalog.Source, cat catalog.Category) (*result.Result, error) {
	url := src.PageURL(cat)
	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	r := s.extractor.Locate(doc, name, src)
	if r == nil {
		return nil, nil
	}
	r.Category = cat.Label
	r.SourceURL = url

	r.Month = s.months.Resolve(src, func() period.Month {
		return period.FromDocument(doc)
	})

	sp, fs, err := s.resolver.Resolve(ctx, src, cat, name)
	if err != nil {
		logger.Warn("Segment scores unavailable", logger.Fields{
			"source":   src.Name,
			"category": cat.Label,
			"error":    err.Error(),
		})
	} else {
		r.SPScore, r.FSScore = sp, fs
	}

	return r, nil
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
