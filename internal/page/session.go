package page

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"stayin/internal/domain"
	"stayin/internal/listing"
)

var ErrClosed = errors.New("page session closed")

// Layout describes which interactive elements the host page rendered.
type Layout struct {
	MenuButton   bool
	SideMenu     bool
	HomeSearch   bool // both the input and its button
	Grid         bool
	Cards        []listing.Card
	Controls     listing.Controls // presence and initial values
	FilterReset  bool
	FilterSearch bool
	Flashes      []domain.Flash
}

// Session owns the interactive state of one rendered page. Events are
// handled one at a time: either by calling Dispatch from a single
// goroutine, or by Post while Run drives the loop.
type Session struct {
	ID string

	menu    Menu
	flashes Flashes
	reveal  Reveal
	ctl     *listing.Controller
	layout  Layout
	home    string

	clock  Clock
	timers []Stopper
	post   func(Event)

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	subs    []subscriber
	nextSub int
	seq     int
}

type subscriber struct {
	id int
	fn func(Patch)
}

type Option func(*sessionConfig)

type sessionConfig struct {
	clock     Clock
	hide      time.Duration
	fade      time.Duration
	threshold float64
	collation string
	id        string
}

func WithClock(c Clock) Option { return func(s *sessionConfig) { s.clock = c } }

func WithFlashTiming(hide, fade time.Duration) Option {
	return func(s *sessionConfig) { s.hide, s.fade = hide, fade }
}

func WithRevealThreshold(t float64) Option { return func(s *sessionConfig) { s.threshold = t } }

// WithCollation sets the BCP 47 locale for name sorting.
func WithCollation(tag string) Option { return func(s *sessionConfig) { s.collation = tag } }

func WithID(id string) Option { return func(s *sessionConfig) { s.id = id } }

func NewSession(l Layout, opts ...Option) *Session {
	cfg := sessionConfig{clock: realClock{}, collation: "en"}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	s := &Session{
		ID:      cfg.id,
		menu:    NewMenu(l.MenuButton, l.SideMenu),
		flashes: NewFlashes(l.Flashes, cfg.hide, cfg.fade),
		layout:  l,
		clock:   cfg.clock,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}
	if l.Grid {
		grid := listing.NewGrid(l.Cards, listing.WithCollator(listing.NewCollator(cfg.collation)))
		s.ctl = listing.NewController(grid, listing.WithValues(l.Controls))
		s.reveal = NewReveal(len(l.Cards), cfg.threshold)
	}
	s.post = func(ev Event) { s.Dispatch(ev) }
	return s
}

// Subscribe registers fn for every non-empty patch. Subscribers are called
// in registration order. The returned func removes it.
func (s *Session) Subscribe(fn func(Patch)) (cancel func()) {
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// Start arms the flash timer. Run calls it; synchronous callers call it once themselves.
func (s *Session) Start() {
	if s.flashes.Len() > 0 {
		s.after(s.flashes.hide, Event{Type: eventFlashHide})
	}
}

func (s *Session) after(d time.Duration, ev Event) {
	s.timers = append(s.timers, s.clock.AfterFunc(d, func() { s.post(ev) }))
}

// Run processes posted events until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.post = func(ev Event) { _ = s.Post(context.Background(), ev) }
	defer s.close()
	s.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.Dispatch(ev)
		}
	}
}

// Post queues ev for the Run loop.
func (s *Session) Post(ctx context.Context, ev Event) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		for _, t := range s.timers {
			t.Stop()
		}
		close(s.done)
	})
}

// Done is closed once the Run loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Snapshot describes the full current state as a patch.
func (s *Session) Snapshot() Patch {
	p := Patch{Seq: s.seq}
	menu := s.menu.State()
	p.Menu = &menu
	p.Flashes = s.flashes.State()
	if s.ctl != nil {
		res := s.ctl.Grid().State()
		ctls := s.ctl.Controls()
		p.Cards, p.Controls = &res, &ctls
		p.Revealed = s.reveal.Revealed()
	}
	return p
}

// Refresh reruns the filter pipeline with the current control values, as
// after a page load with pre-filled controls.
func (s *Session) Refresh() Patch {
	var p Patch
	if s.ctl != nil {
		res := s.ctl.Apply()
		p.Cards = &res
	}
	return s.emit(p)
}

// Dispatch handles one event and returns the resulting patch.
func (s *Session) Dispatch(ev Event) Patch {
	var p Patch
	switch ev.Type {
	case EventClick:
		s.click(ev.Target, &p)
	case EventInput:
		if ev.Target == TargetHomeSearch && s.layout.HomeSearch {
			s.home = ev.Value
			break
		}
		switch r := listing.Role(ev.Target); r {
		case listing.RoleSearch, listing.RoleLocation, listing.RoleMaxPrice:
			s.filter(r, ev.Value, &p)
		}
	case EventChange:
		if listing.Role(ev.Target) == listing.RoleSort {
			s.filter(listing.RoleSort, ev.Value, &p)
		}
	case EventKeyDown:
		switch {
		case ev.Key == "Escape":
			if s.menu.Close() {
				m := s.menu.State()
				p.Menu = &m
			}
		case ev.Key == "Enter" && ev.Target == TargetHomeSearch && s.layout.HomeSearch:
			if ev.Value != "" {
				s.home = ev.Value
			}
			s.click(TargetHomeSearchBtn, &p)
		}
	case EventIntersect:
		if s.ctl != nil && s.reveal.Observe(ev.Card, ev.Ratio) {
			p.Revealed = []int{ev.Card}
		}
	case eventFlashHide:
		p.Flashes = s.flashes.advance(FlashShown, FlashFading)
		if len(p.Flashes) > 0 {
			s.after(s.flashes.fade, Event{Type: eventFlashRemove})
		}
	case eventFlashRemove:
		p.Flashes = s.flashes.advance(FlashFading, FlashRemoved)
	}
	return s.emit(p)
}

func (s *Session) emit(p Patch) Patch {
	if p.Empty() {
		return p
	}
	s.seq++
	p.Seq = s.seq
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(p)
	}
	return p
}

func (s *Session) click(target string, p *Patch) {
	switch target {
	case TargetMenuButton:
		if s.menu.Toggle() {
			m := s.menu.State()
			p.Menu = &m
		}
	case TargetOverlay:
		if s.menu.Close() {
			m := s.menu.State()
			p.Menu = &m
		}
	case TargetHomeSearchBtn:
		if s.layout.HomeSearch {
			p.Navigate = SearchURL(s.home)
		}
	case TargetFilterReset:
		if s.ctl != nil && s.layout.FilterReset {
			res := s.ctl.Reset()
			ctls := s.ctl.Controls()
			p.Cards, p.Controls = &res, &ctls
		}
	case TargetFilterSearch:
		if s.ctl != nil && s.layout.FilterSearch {
			res := s.ctl.Search()
			p.Cards = &res
		}
	}
}

func (s *Session) filter(r listing.Role, v string, p *Patch) {
	if s.ctl == nil {
		return
	}
	if res, ok := s.ctl.Input(r, v); ok {
		p.Cards = &res
	}
}
