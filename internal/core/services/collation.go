package services

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// naturalOrder compares strings the way people read them: case-insensitive
// at first pass and with digit runs compared by value, so "doc2" < "DOC10".
// A Collator is not safe for concurrent use; create one per sort.
type naturalOrder struct {
	c *collate.Collator
}

func newNaturalOrder() naturalOrder {
	return naturalOrder{c: collate.New(language.Und, collate.Numeric)}
}

// Compare returns -1, 0 or 1. Strings the collator treats as equal fall
// back to byte order so distinct keys never tie.
func (n naturalOrder) Compare(a, b string) int {
	if r := n.c.CompareString(a, b); r != 0 {
		return r
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
