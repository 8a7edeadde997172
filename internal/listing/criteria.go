package listing

import (
	"math"
	"strings"
)

// Role names a filter control by its element id on the host page.
type Role string

const (
	RoleSearch   Role = "hotel-search"
	RoleLocation Role = "filter-location"
	RoleMaxPrice Role = "filter-maxprice"
	RoleSort     Role = "sort-select"
)

// Roles lists every filter control in a fixed order.
var Roles = []Role{RoleSearch, RoleLocation, RoleMaxPrice, RoleSort}

// Criteria is the filter/sort state derived from the controls.
type Criteria struct {
	Search   string  // lower-cased, trimmed
	Location string  // lower-cased, trimmed
	MaxPrice float64 // only a positive value bounds
	Sort     SortKey
}

// Controls holds the raw values of the four optional controls.
// A nil field is a control that is absent from the page.
type Controls struct {
	Search   *string `json:"search,omitempty"`
	Location *string `json:"location,omitempty"`
	MaxPrice *string `json:"max_price,omitempty"`
	Sort     *string `json:"sort,omitempty"`
}

func (c *Controls) field(r Role) **string {
	switch r {
	case RoleSearch:
		return &c.Search
	case RoleLocation:
		return &c.Location
	case RoleMaxPrice:
		return &c.MaxPrice
	case RoleSort:
		return &c.Sort
	}
	return nil
}

// Has reports whether the control for r exists.
func (c Controls) Has(r Role) bool {
	f := c.field(r)
	return f != nil && *f != nil
}

// Value returns the control's current value, or "" when it is absent.
func (c Controls) Value(r Role) string {
	f := c.field(r)
	if f == nil || *f == nil {
		return ""
	}
	return **f
}

// Set stores v if the control exists. It returns false for absent controls.
func (c *Controls) Set(r Role, v string) bool {
	f := c.field(r)
	if f == nil || *f == nil {
		return false
	}
	*f = &v
	return true
}

// Clear empties every present control.
func (c *Controls) Clear() {
	for _, r := range Roles {
		c.Set(r, "")
	}
}

// Criteria derives the filter criteria from the current control values.
func (c Controls) Criteria() Criteria {
	return Criteria{
		Search:   strings.ToLower(strings.TrimSpace(c.Value(RoleSearch))),
		Location: strings.ToLower(strings.TrimSpace(c.Value(RoleLocation))),
		MaxPrice: ParseMaxPrice(c.Value(RoleMaxPrice)),
		Sort:     ParseSortKey(c.Value(RoleSort)),
	}
}

// NewControls returns a Controls with the given roles present and empty.
func NewControls(roles ...Role) Controls {
	var c Controls
	for _, r := range roles {
		if f := c.field(r); f != nil {
			empty := ""
			*f = &empty
		}
	}
	return c
}

// Bounded reports whether the criteria carry a usable max-price bound.
func (cr Criteria) Bounded() bool {
	return cr.MaxPrice > 0 && !math.IsNaN(cr.MaxPrice)
}

// Visible applies the filter rules to one card.
func Visible(c Card, cr Criteria) bool {
	if cr.Search != "" && !strings.Contains(strings.ToLower(c.Name), cr.Search) {
		return false
	}
	if cr.Location != "" && !strings.Contains(strings.ToLower(c.Location), cr.Location) {
		return false
	}
	// unknown price is never excluded by the bound
	if cr.Bounded() && c.HasPrice() && c.MinPrice > cr.MaxPrice {
		return false
	}
	return true
}
