package httpserver

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stayin/internal/adapters/htmlpage"
	"stayin/internal/domain"
	"stayin/internal/listing"
	"stayin/internal/page"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const sidCookie = "stayin_sid"

var templateFuncs = template.FuncMap{
	// whole-amount card price
	"price": func(v any) string {
		switch p := v.(type) {
		case int:
			return humanize.Comma(int64(p))
		case *int:
			if p != nil {
				return humanize.Comma(int64(*p))
			}
		}
		return ""
	},
	"rate": func(f float64) string { return humanize.CommafWithDigits(f, 2) },
}

var pages = func() map[string]*template.Template {
	out := map[string]*template.Template{}
	for _, name := range []string{"home", "hotels", "hotel"} {
		out[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return out
}()

type sortOption struct {
	Value, Label string
	Selected     bool
}

var sortLabels = []sortOption{
	{Value: "", Label: "Sort by"},
	{Value: string(listing.SortPriceLow), Label: "Price: low to high"},
	{Value: string(listing.SortPriceHigh), Label: "Price: high to low"},
	{Value: string(listing.SortNameAZ), Label: "Name: A to Z"},
	{Value: string(listing.SortNameZA), Label: "Name: Z to A"},
}

// selectedSort is the value the sort select shows for a requested key:
// the key itself when it is one of the options, otherwise the placeholder.
func selectedSort(raw string) string {
	for _, o := range sortLabels {
		if o.Value == raw {
			return raw
		}
	}
	return ""
}

type pageData struct {
	Title   string
	Flashes []domain.Flash

	Query, Location, MaxPrice string
	SortOptions               []sortOption
	Cards                     []domain.HotelCard

	Hotel *domain.HotelDetail
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// sid returns the browser's flash session id, issuing one when missing.
func sid(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sidCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: sidCookie, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return id
}

func (h *Handlers) popFlashes(ctx context.Context, id string) []domain.Flash {
	if h.Flash == nil {
		return nil
	}
	fl, err := h.Flash.Pop(ctx, id)
	if err != nil {
		log.Warn().Err(err).Msg("pop flashes failed")
	}
	return fl
}

func (h *Handlers) addFlash(ctx context.Context, id string, f domain.Flash) {
	if h.Flash == nil {
		return
	}
	if err := h.Flash.Add(ctx, id, f); err != nil {
		log.Warn().Err(err).Msg("add flash failed")
	}
}

// render executes a page template, then lets a page session apply the
// filter pipeline to the pre-filled controls before the page is sent.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, d pageData) {
	d.Flashes = h.popFlashes(r.Context(), sid(w, r))

	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", d); err != nil {
		log.Error().Err(err).Str("page", name).Msg("template failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	var out bytes.Buffer
	if _, err := htmlpage.Render(&buf, &out, nil, h.Page.options()...); err != nil {
		log.Error().Err(err).Str("page", name).Msg("page session failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Bytes())
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Q.ListCards(r.Context(), domain.CardsQuery{})
	if err != nil {
		writeErr(w, err)
		return
	}
	h.render(w, r, "home", pageData{Title: "Home", Cards: cards})
}

// search is the home search box without scripts.
func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, page.SearchURL(r.URL.Query().Get("q")), http.StatusSeeOther)
}

func (h *Handlers) hotels(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	cards, err := h.Q.ListCards(r.Context(), cardsQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	sk := selectedSort(qs.Get("sort"))
	opts := make([]sortOption, len(sortLabels))
	for i, o := range sortLabels {
		o.Selected = o.Value == sk
		opts[i] = o
	}
	h.render(w, r, "hotels", pageData{
		Title:       "Hotels",
		Query:       qs.Get("q"),
		Location:    qs.Get("location"),
		MaxPrice:    qs.Get("max_price"),
		SortOptions: opts,
		Cards:       cards,
	})
}

func (h *Handlers) hotelDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(r)
	var hd domain.HotelDetail
	err := domain.ErrNotFound
	if ok {
		hd, err = h.Q.GetHotel(r.Context(), id)
	}
	if errors.Is(err, domain.ErrNotFound) {
		h.addFlash(r.Context(), sid(w, r), domain.Flash{Category: "danger", Message: "Hotel not found."})
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	h.render(w, r, "hotel", pageData{Title: hd.Hotel.Name, Hotel: &hd})
}
