package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayin/internal/app"
	"stayin/internal/domain"
	"stayin/internal/listing"
	"stayin/internal/page"
)

// PageConfig tunes the page sessions behind rendered and live pages.
type PageConfig struct {
	Collation        string
	RevealThreshold  float64
	FlashHide        time.Duration
	FlashFade        time.Duration
	LiveEventsPerSec int
}

func (c PageConfig) options() []page.Option {
	opts := []page.Option{page.WithCollation(c.Collation), page.WithFlashTiming(c.FlashHide, c.FlashFade)}
	if c.RevealThreshold > 0 {
		opts = append(opts, page.WithRevealThreshold(c.RevealThreshold))
	}
	return opts
}

type Handlers struct {
	Q     *app.QueryService
	C     *app.CatalogService
	Flash *app.FlashStore
	Page  PageConfig
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers, adminToken string) {
	s.timed.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.timed.Handle("/static/*", staticHandler())
	s.timed.Get("/", h.home)
	s.timed.Get("/search", h.search)
	s.timed.Get("/hotels", h.hotels)
	s.timed.Get("/hotels/{id}", h.hotelDetail)

	s.timed.Get("/v1/hotels", h.listHotels)
	s.timed.Get("/v1/hotels/{id}", h.getHotel)
	admin := s.timed.With(RequireBearer(adminToken))
	admin.Post("/v1/hotels", h.createHotel)
	admin.Post("/v1/hotels/{id}/rooms", h.addRoom)

	s.mux.Get("/ws/hotels", h.liveHotels)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps domain errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Input", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v as JSON with an ETag, or 304 when the client has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func hotelID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func cardsQuery(r *http.Request) domain.CardsQuery {
	return domain.CardsQuery{Q: r.URL.Query().Get("q"), Location: r.URL.Query().Get("location")}
}

type hotelsPage struct {
	Items []domain.HotelCard `json:"items"`
	Total int                `json:"total"`
}

// listHotels narrows the catalog by q/location, then runs the listing
// pipeline for max_price and sort and returns the visible cards in order.
func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Q.ListCards(r.Context(), cardsQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}

	qs := r.URL.Query()
	mp, sk := qs.Get("max_price"), qs.Get("sort")
	ctl := listing.Controls{MaxPrice: &mp, Sort: &sk}
	grid := listing.NewGrid(app.ListingCards(cards), listing.WithCollator(listing.NewCollator(h.Page.Collation)))
	res := grid.Apply(ctl.Criteria())

	out := hotelsPage{Items: make([]domain.HotelCard, 0, len(cards))}
	for _, id := range res.VisibleIDs() {
		out.Items = append(out.Items, cards[id])
	}
	out.Total = len(out.Items)
	writeCached(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	hd, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, hd)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.NewHotel
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	id, err := h.C.AddHotel(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	log.Info().Int64("hotel_id", id).Msg("hotel added")
	w.Header().Set("Location", "/v1/hotels/"+strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handlers) addRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	var in app.NewRoom
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	roomID, err := h.C.AddRoom(r.Context(), id, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	log.Info().Int64("hotel_id", id).Int64("room_id", roomID).Msg("room added")
	writeJSON(w, http.StatusCreated, map[string]int64{"id": roomID})
}
