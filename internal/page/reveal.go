package page

// DefaultRevealThreshold is the visible fraction at which a card fades in.
const DefaultRevealThreshold = 0.12

// Reveal tracks which cards have scrolled into view. Once revealed a card stays revealed.
type Reveal struct {
	threshold float64
	revealed  []bool
}

func NewReveal(n int, threshold float64) Reveal {
	if threshold <= 0 {
		threshold = DefaultRevealThreshold
	}
	return Reveal{threshold: threshold, revealed: make([]bool, n)}
}

// Observe records an intersection ratio for card id and reports whether
// this observation revealed it.
func (r *Reveal) Observe(id int, ratio float64) bool {
	if id < 0 || id >= len(r.revealed) || r.revealed[id] || ratio < r.threshold {
		return false
	}
	r.revealed[id] = true
	return true
}

func (r *Reveal) Revealed() []int {
	var out []int
	for id, ok := range r.revealed {
		if ok {
			out = append(out, id)
		}
	}
	return out
}
