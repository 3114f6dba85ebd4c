package catalog

import (
	"sync"

	"github.com/pfrederiksen/skate-results/internal/period"
)

// MonthCache memoizes months resolved from page text, keyed by Source.Key.
// Concurrent first resolutions of the same source may both compute; the
// value is deterministic so the last write is as good as the first.
type MonthCache struct {
	months sync.Map // string → period.Month
}

// NewMonthCache creates an empty cache.
func NewMonthCache() *MonthCache {
	return &MonthCache{}
}

// Get returns the memoized month of src.
func (c *MonthCache) Get(src *Source) (period.Month, bool) {
	v, ok := c.months.Load(src.Key())
	if !ok {
		return period.Unknown, false
	}
	return v.(period.Month), true
}

// Set memoizes a resolved month. Unknown months are not stored so a later
// search can try again.
func (c *MonthCache) Set(src *Source, m period.Month) {
	if !m.Valid() {
		return
	}
	c.months.Store(src.Key(), m)
}

// Resolve returns the month of src: its explicit hint, a memoized value, or
// the result of compute, which is memoized when valid.
func (c *MonthCache) Resolve(src *Source, compute func() period.Month) period.Month {
	if hint := period.Month(src.MonthHint); hint.Valid() {
		return hint
	}
	if m, ok := c.Get(src); ok {
		return m
	}
	m := compute()
	c.Set(src, m)
	return m
}

// Snapshot copies the cache contents for persistence.
func (c *MonthCache) Snapshot() map[string]int {
	out := make(map[string]int)
	c.months.Range(func(k, v any) bool {
		out[k.(string)] = int(v.(period.Month))
		return true
	})
	return out
}

// Seed loads previously persisted months.
func (c *MonthCache) Seed(months map[string]int) {
	for k, v := range months {
		if m := period.Month(v); m.Valid() {
			c.months.Store(k, m)
		}
	}
}

// Len returns the number of memoized sources.
func (c *MonthCache) Len() int {
	n := 0
	c.months.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
