package listing

import "slices"

// Result is the observable outcome of one pipeline run.
type Result struct {
	// Visible is indexed by CardID.
	Visible []bool `json:"visible"`
	// Order lists card ids in container order after the run.
	Order []CardID `json:"order"`
	// Reordered is set when a sort key moved the visible cards.
	Reordered bool `json:"reordered"`
}

// VisibleIDs returns the visible card ids in container order.
func (r Result) VisibleIDs() []CardID {
	out := make([]CardID, 0, len(r.Order))
	for _, id := range r.Order {
		if r.Visible[id] {
			out = append(out, id)
		}
	}
	return out
}

// Grid is a fixed collection of cards inside one container.
// Only visibility and order ever change.
type Grid struct {
	cards   []Card
	order   []CardID
	visible []bool
	col     *Collator
}

type GridOption func(*Grid)

// WithCollator sets the collator used by the name comparators.
func WithCollator(c *Collator) GridOption {
	return func(g *Grid) { g.col = c }
}

// NewGrid returns a grid in original document order with every card visible.
func NewGrid(cards []Card, opts ...GridOption) *Grid {
	g := &Grid{
		cards:   slices.Clone(cards),
		order:   make([]CardID, len(cards)),
		visible: make([]bool, len(cards)),
	}
	for i := range cards {
		g.order[i] = i
		g.visible[i] = true
	}
	for _, o := range opts {
		o(g)
	}
	if g.col == nil {
		g.col = NewCollator("en")
	}
	return g
}

func (g *Grid) Len() int               { return len(g.cards) }
func (g *Grid) Card(id CardID) Card    { return g.cards[id] }
func (g *Grid) Visible(id CardID) bool { return g.visible[id] }
func (g *Grid) Order() []CardID        { return slices.Clone(g.order) }

// State reports the current visibility and order without running the pipeline.
func (g *Grid) State() Result {
	return Result{Visible: slices.Clone(g.visible), Order: slices.Clone(g.order)}
}

// Apply recomputes visibility for every card and, when cr.Sort is set,
// moves the visible cards after the hidden ones in comparator order.
func (g *Grid) Apply(cr Criteria) Result {
	for id, c := range g.cards {
		g.visible[id] = Visible(c, cr)
	}

	cmp := Compare(cr.Sort, g.col)
	if cmp != nil {
		hidden := make([]CardID, 0, len(g.order))
		shown := make([]CardID, 0, len(g.order))
		for _, id := range g.order {
			if g.visible[id] {
				shown = append(shown, id)
			} else {
				hidden = append(hidden, id)
			}
		}
		slices.SortStableFunc(shown, func(a, b CardID) int { return cmp(g.cards[a], g.cards[b]) })
		g.order = append(hidden, shown...)
	}

	return Result{
		Visible:   slices.Clone(g.visible),
		Order:     slices.Clone(g.order),
		Reordered: cmp != nil,
	}
}
