// Package normalize builds the comparison keys used to match a skater's name
// against free-text table cells.
//
// Result pages mix half-width and full-width characters, separate given and
// family names with ASCII spaces, ideographic spaces or interpuncts, and
// sometimes wrap the name in club or title text. Name reduces all of that to a
// single canonical key; Contains is the looser raw-text test used when keys
// differ.
package normalize
