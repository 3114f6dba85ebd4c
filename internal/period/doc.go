// Package period recovers the calendar month of a competition from the
// unstructured date text printed on its result pages.
//
// Dates appear in Japanese (2024年12月26日〜28日), dotted (2024.12.26-28) and
// slashed (12/26-28) forms, as single days or as ranges that may cross a month
// boundary. Extract evaluates an ordered pattern table, most specific first,
// and returns the month of the first usable match. A range spanning two months
// resolves to the earlier one.
package period
