// Package catalog holds the static list of competition result pages searched
// for a skater, and derives every page URL from it.
//
// Each Source names one event in one season together with the publishing
// schema its result tables use. The built-in catalog covers the national
// championships and the six block championships from 2021-22 to 2024-25; a
// YAML file can replace it. Months resolved from page text are memoized per
// Source in a MonthCache.
package catalog
