package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"stayin/internal/adapters/observability"
	"stayin/internal/app"
	"stayin/internal/domain"
	"stayin/internal/listing"
	"stayin/internal/page"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxEvent   = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveHotels runs one page session per connection. The query carries the
// same q, location, max_price and sort as the rendered /hotels page, so
// the session starts from the cards and control values the browser shows.
// The client sends page.Event JSON; the server answers with the session
// snapshot and then one page.Patch per state change.
func (h *Handlers) liveHotels(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Q.ListCards(r.Context(), cardsQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	var flashes []domain.Flash
	if c, err := r.Cookie(sidCookie); err == nil {
		flashes = h.popFlashes(r.Context(), c.Value)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s := page.NewSession(page.Layout{
		MenuButton:   true,
		SideMenu:     true,
		HomeSearch:   true,
		Grid:         true,
		Cards:        app.ListingCards(cards),
		Controls:     liveControls(r),
		FilterReset:  true,
		FilterSearch: true,
		Flashes:      flashes,
	}, append(h.Page.options(), page.WithID(chimw.GetReqID(r.Context())))...)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// rerun the pipeline on the pre-filled controls, as render did
	s.Refresh()
	out := make(chan page.Patch, 64)
	out <- s.Snapshot()
	s.Subscribe(func(p page.Patch) {
		select {
		case out <- p:
		default:
			// a client this far behind is dropped
			log.Warn().Str("session", s.ID).Msg("live session outbox full")
			cancel()
		}
	})

	observability.LiveSessions.Inc()
	defer observability.LiveSessions.Dec()
	log.Info().Str("session", s.ID).Int("cards", len(cards)).Msg("live session opened")

	go func() { _ = s.Run(ctx) }()
	go writePump(ctx, cancel, conn, out)
	h.readPump(ctx, conn, s)

	cancel()
	<-s.Done()
	log.Info().Str("session", s.ID).Msg("live session closed")
}

// liveControls mirrors the control values the hotels page renders.
func liveControls(r *http.Request) listing.Controls {
	qs := r.URL.Query()
	q, loc, mp, sk := qs.Get("q"), qs.Get("location"), qs.Get("max_price"), selectedSort(qs.Get("sort"))
	return listing.Controls{Search: &q, Location: &loc, MaxPrice: &mp, Sort: &sk}
}

func (h *Handlers) readPump(ctx context.Context, conn *websocket.Conn, s *page.Session) {
	conn.SetReadLimit(maxEvent)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	eps := h.Page.LiveEventsPerSec
	if eps <= 0 {
		eps = 20
	}
	lim := rate.NewLimiter(rate.Limit(eps), eps)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", s.ID).Msg("websocket read failed")
			}
			return
		}
		var ev page.Event
		if err := json.Unmarshal(msg, &ev); err != nil || !ev.Type.Public() {
			observability.ObservePageEvent(string(ev.Type), "rejected")
			continue
		}
		if !lim.Allow() {
			observability.ObservePageEvent(string(ev.Type), "throttled")
			continue
		}
		if err := s.Post(ctx, ev); err != nil {
			return
		}
		observability.ObservePageEvent(string(ev.Type), "accepted")
	}
}

func writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan page.Patch) {
	defer func() {
		cancel()
		// unblock the reader
		_ = conn.SetReadDeadline(time.Now())
	}()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case p := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(p); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
