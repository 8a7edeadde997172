package page

import (
	"fmt"
	"time"

	"stayin/internal/domain"
)

const (
	DefaultFlashHide = 2500 * time.Millisecond
	DefaultFlashFade = 400 * time.Millisecond
)

type FlashPhase string

const (
	FlashShown   FlashPhase = "shown"
	FlashFading  FlashPhase = "fading" // opacity 0
	FlashRemoved FlashPhase = "removed"
)

type FlashState struct {
	ID       string     `json:"id"`
	Category string     `json:"category"`
	Message  string     `json:"message"`
	Phase    FlashPhase `json:"phase"`
}

// Flashes holds the flash messages rendered with the page. All of them fade
// together after the hide delay and are removed after the fade delay.
type Flashes struct {
	items []FlashState
	hide  time.Duration
	fade  time.Duration
}

func NewFlashes(msgs []domain.Flash, hide, fade time.Duration) Flashes {
	if hide <= 0 {
		hide = DefaultFlashHide
	}
	if fade <= 0 {
		fade = DefaultFlashFade
	}
	f := Flashes{hide: hide, fade: fade}
	for i, m := range msgs {
		f.items = append(f.items, FlashState{
			ID:       FlashID(i),
			Category: m.Category,
			Message:  m.Message,
			Phase:    FlashShown,
		})
	}
	return f
}

// FlashID is the element id of the i-th flash rendered on a page.
func FlashID(i int) string { return fmt.Sprintf("flash-%d", i) }

func (f *Flashes) Len() int { return len(f.items) }

// State returns the flashes still on the page.
func (f *Flashes) State() []FlashState {
	out := make([]FlashState, 0, len(f.items))
	for _, it := range f.items {
		if it.Phase != FlashRemoved {
			out = append(out, it)
		}
	}
	return out
}

// advance moves every flash in phase from to phase to and returns the changed ones.
func (f *Flashes) advance(from, to FlashPhase) []FlashState {
	var changed []FlashState
	for i := range f.items {
		if f.items[i].Phase == from {
			f.items[i].Phase = to
			changed = append(changed, f.items[i])
		}
	}
	return changed
}

// Stopper cancels a pending timer.
type Stopper interface{ Stop() bool }

// Clock schedules callbacks. The real clock runs them on timer goroutines.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }
