package page

import "stayin/internal/listing"

type EventType string

const (
	EventClick     EventType = "click"
	EventInput     EventType = "input"
	EventChange    EventType = "change"
	EventKeyDown   EventType = "keydown"
	EventIntersect EventType = "intersect"

	// posted by the session's own flash timers
	eventFlashHide   EventType = "flash_hide"
	eventFlashRemove EventType = "flash_remove"
)

// Element ids the session reacts to, besides the listing.Role controls.
const (
	TargetMenuButton    = "menu-btn"
	TargetOverlay       = "menu-overlay"
	TargetHomeSearch    = "home-search"
	TargetHomeSearchBtn = "home-search-btn"
	TargetFilterReset   = "filter-reset"
	TargetFilterSearch  = "filter-search"
)

// Event is one UI event as delivered by the browser.
type Event struct {
	Type   EventType `json:"type"`
	Target string    `json:"target,omitempty"`
	Value  string    `json:"value,omitempty"`
	Key    string    `json:"key,omitempty"`
	Card   int       `json:"card,omitempty"`
	Ratio  float64   `json:"ratio,omitempty"`
}

func Click(target string) Event               { return Event{Type: EventClick, Target: target} }
func Input(target, value string) Event        { return Event{Type: EventInput, Target: target, Value: value} }
func Change(target, value string) Event       { return Event{Type: EventChange, Target: target, Value: value} }
func KeyDown(target, key string) Event        { return Event{Type: EventKeyDown, Target: target, Key: key} }
func Intersect(card int, ratio float64) Event { return Event{Type: EventIntersect, Card: card, Ratio: ratio} }

// Patch lists the side effects of one event that the host page must apply.
// Only the parts that changed are set.
type Patch struct {
	Seq      int               `json:"seq"`
	Cards    *listing.Result   `json:"cards,omitempty"`
	Controls *listing.Controls `json:"controls,omitempty"`
	Menu     *MenuState        `json:"menu,omitempty"`
	Flashes  []FlashState      `json:"flashes,omitempty"`
	Revealed []int             `json:"revealed,omitempty"`
	Navigate string            `json:"navigate,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Cards == nil && p.Controls == nil && p.Menu == nil &&
		len(p.Flashes) == 0 && len(p.Revealed) == 0 && p.Navigate == ""
}

// Public reports whether a browser may send events of this type.
func (t EventType) Public() bool {
	switch t {
	case EventClick, EventInput, EventChange, EventKeyDown, EventIntersect:
		return true
	}
	return false
}
