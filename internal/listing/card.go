package listing

import (
	"math"
	"strconv"
	"strings"
)

// CardID is a card's index in the original (server-rendered) document order.
type CardID = int

// Card is one hotel listing as shown in the grid.
// MinPrice is +Inf when the listing has no usable price.
type Card struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	MinPrice float64 `json:"-"`
}

// HasPrice reports whether the card carries a finite price.
func (c Card) HasPrice() bool { return !math.IsInf(c.MinPrice, 0) && !math.IsNaN(c.MinPrice) }

// NewCard builds a card from the raw presentation attributes.
func NewCard(name, location, rawPrice string) Card {
	return Card{Name: name, Location: location, MinPrice: ParsePrice(rawPrice)}
}

// ParsePrice reads a card price attribute. Anything that is not a finite
// number (empty, malformed, NaN, Inf) becomes +Inf.
func ParsePrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return math.Inf(1)
	}
	return f
}

// ParseMaxPrice reads the max-price control. Empty input is 0 and
// malformed input is NaN; both mean "no bound" to Visible.
func ParseMaxPrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// FormatPrice renders a price attribute value; unbounded prices render empty.
func FormatPrice(p float64) string {
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return ""
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}
