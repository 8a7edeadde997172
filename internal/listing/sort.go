package listing

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the comparator used to order visible cards.
type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNameAZ    SortKey = "name_az"
	SortNameZA    SortKey = "name_za"
)

// ParseSortKey maps a sort selector value to a key. An unknown non-empty
// value is kept; it sorts with an all-equal comparator.
func ParseSortKey(raw string) SortKey { return SortKey(raw) }

// Known reports whether k names one of the comparators.
func (k SortKey) Known() bool {
	switch k {
	case SortPriceLow, SortPriceHigh, SortNameAZ, SortNameZA:
		return true
	}
	return false
}

// Comparator orders two cards; negative means a sorts before b.
type Comparator func(a, b Card) int

// comparePrice treats +Inf as the largest value; two unbounded prices tie.
func comparePrice(a, b float64) int {
	switch {
	case a == b:
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

// Collator compares names according to a locale.
// A Collator is not safe for concurrent use.
type Collator struct{ c *collate.Collator }

// NewCollator builds a collator for the BCP 47 tag; an invalid tag falls back to English.
func NewCollator(tag string) *Collator {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	return &Collator{c: collate.New(t)}
}

func (c *Collator) Compare(a, b string) int { return c.c.CompareString(a, b) }

// Compare returns the comparator for key, or nil for SortNone. Unknown keys
// get a comparator that ties every pair, so the visible run still moves
// after the hidden cards without changing its own order.
func Compare(key SortKey, col *Collator) Comparator {
	switch key {
	case SortPriceLow:
		return func(a, b Card) int { return comparePrice(a.MinPrice, b.MinPrice) }
	case SortPriceHigh:
		return func(a, b Card) int { return comparePrice(b.MinPrice, a.MinPrice) }
	case SortNameAZ:
		return func(a, b Card) int { return col.Compare(a.Name, b.Name) }
	case SortNameZA:
		return func(a, b Card) int { return col.Compare(b.Name, a.Name) }
	case SortNone:
		return nil
	}
	return func(Card, Card) int { return 0 }
}
