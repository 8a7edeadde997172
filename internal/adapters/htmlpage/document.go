// Package htmlpage reads the interactive layout out of a rendered StayIN
// page and writes session patches back into it.
package htmlpage

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stayin/internal/domain"
	"stayin/internal/listing"
	"stayin/internal/page"
)

// Document is a parsed host page. Card identity is fixed at Parse time.
type Document struct {
	doc   *goquery.Document
	grid  *goquery.Selection
	cards []*goquery.Selection
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	d := &Document{doc: doc}

	// the overlay is created when the page lacks one
	if doc.Find("#menu-overlay").Length() == 0 {
		doc.Find("body").AppendHtml(`<div id="menu-overlay"></div>`)
	}

	d.grid = doc.Find("#hotel-grid").First()
	if d.grid.Length() > 0 {
		d.grid.Find(".hotel-card").Each(func(_ int, s *goquery.Selection) {
			d.cards = append(d.cards, s)
		})
		d.cards = byCardIndex(d.cards)
	}
	return d, nil
}

// byCardIndex puts cards back in rendering order when every card carries
// a distinct data-card index, so a page saved after sorting keeps its ids.
// Otherwise container order is the identity.
func byCardIndex(cards []*goquery.Selection) []*goquery.Selection {
	out := make([]*goquery.Selection, len(cards))
	for _, s := range cards {
		i, err := strconv.Atoi(s.AttrOr("data-card", ""))
		if err != nil || i < 0 || i >= len(out) || out[i] != nil {
			return cards
		}
		out[i] = s
	}
	return out
}

func (d *Document) has(id string) bool { return d.doc.Find("#"+id).Length() > 0 }

// Cards returns the typed card records read from the data attributes.
func (d *Document) Cards() []listing.Card {
	out := make([]listing.Card, len(d.cards))
	for i, s := range d.cards {
		out[i] = listing.NewCard(s.AttrOr("data-name", ""), s.AttrOr("data-location", ""), s.AttrOr("data-minprice", ""))
	}
	return out
}

// Layout describes the page's interactive elements for page.NewSession.
func (d *Document) Layout() page.Layout {
	l := page.Layout{
		MenuButton:   d.has(page.TargetMenuButton),
		SideMenu:     d.has("side-menu"),
		HomeSearch:   d.has(page.TargetHomeSearch) && d.has(page.TargetHomeSearchBtn),
		Grid:         d.grid.Length() > 0,
		FilterReset:  d.has(page.TargetFilterReset),
		FilterSearch: d.has(page.TargetFilterSearch),
	}
	if l.Grid {
		l.Cards = d.Cards()
		for _, r := range listing.Roles {
			sel := d.doc.Find("#" + string(r)).First()
			if sel.Length() == 0 {
				continue
			}
			v := controlValue(sel)
			switch r {
			case listing.RoleSearch:
				l.Controls.Search = &v
			case listing.RoleLocation:
				l.Controls.Location = &v
			case listing.RoleMaxPrice:
				l.Controls.MaxPrice = &v
			case listing.RoleSort:
				l.Controls.Sort = &v
			}
		}
	}
	d.doc.Find(".flash").Each(func(_ int, s *goquery.Selection) {
		l.Flashes = append(l.Flashes, domain.Flash{
			Category: s.AttrOr("data-category", "info"),
			Message:  strings.TrimSpace(s.Text()),
		})
	})
	return l
}

// controlValue reads an input's value, or a select's selected option
// (the first option when none is marked).
func controlValue(s *goquery.Selection) string {
	if goquery.NodeName(s) != "select" {
		return s.AttrOr("value", "")
	}
	opt := s.Find("option[selected]").First()
	if opt.Length() == 0 {
		opt = s.Find("option").First()
	}
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}

func setControlValue(s *goquery.Selection, v string) {
	if goquery.NodeName(s) != "select" {
		s.SetAttr("value", v)
		return
	}
	s.Find("option").Each(func(_ int, o *goquery.Selection) {
		ov, ok := o.Attr("value")
		if !ok {
			ov = strings.TrimSpace(o.Text())
		}
		if ov == v {
			o.SetAttr("selected", "selected")
		} else {
			o.RemoveAttr("selected")
		}
	})
}

// Apply writes a patch into the document. Navigation is not representable
// and is left to the caller.
func (d *Document) Apply(p page.Patch) {
	if p.Cards != nil {
		for id, vis := range p.Cards.Visible {
			if id >= len(d.cards) {
				break
			}
			display := "none"
			if vis {
				display = "block"
			}
			setStyle(d.cards[id], "display", display)
		}
		if p.Cards.Reordered {
			// hidden cards stay where they are
			for _, id := range p.Cards.VisibleIDs() {
				if id < len(d.cards) {
					d.grid.AppendSelection(d.cards[id])
				}
			}
		}
	}
	if p.Controls != nil {
		for _, r := range listing.Roles {
			if p.Controls.Has(r) {
				if sel := d.doc.Find("#" + string(r)).First(); sel.Length() > 0 {
					setControlValue(sel, p.Controls.Value(r))
				}
			}
		}
	}
	if p.Menu != nil {
		toggleClass(d.doc.Find("#side-menu"), "open", p.Menu.Open)
		toggleClass(d.doc.Find("#menu-overlay"), "visible", p.Menu.OverlayVisible)
		overflow := ""
		if p.Menu.ScrollLocked {
			overflow = "hidden"
		}
		setStyle(d.doc.Find("body"), "overflow", overflow)
	}
	for _, f := range p.Flashes {
		sel := d.doc.Find("#" + f.ID)
		switch f.Phase {
		case page.FlashFading:
			setStyle(sel, "opacity", "0")
		case page.FlashRemoved:
			sel.Remove()
		}
	}
	for _, id := range p.Revealed {
		if id < len(d.cards) {
			d.cards[id].AddClass("visible")
		}
	}
}

// CardNames lists the names of the cards in container order, visible or not.
func (d *Document) CardNames() []string {
	var out []string
	d.grid.Find(".hotel-card").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.AttrOr("data-name", ""))
	})
	return out
}

// CardView is a card as currently laid out in the container.
type CardView struct {
	listing.Card
	Shown bool
}

// OrderedCards lists the cards in container order with their visibility.
func (d *Document) OrderedCards() []CardView {
	var out []CardView
	d.grid.Find(".hotel-card").Each(func(_ int, s *goquery.Selection) {
		out = append(out, CardView{
			Card:  listing.NewCard(s.AttrOr("data-name", ""), s.AttrOr("data-location", ""), s.AttrOr("data-minprice", "")),
			Shown: !strings.Contains(strings.ReplaceAll(s.AttrOr("style", ""), " ", ""), "display:none"),
		})
	})
	return out
}

func (d *Document) HTML() (string, error) { return d.doc.Html() }

func toggleClass(s *goquery.Selection, class string, on bool) {
	if on {
		s.AddClass(class)
	} else {
		s.RemoveClass(class)
	}
}

// setStyle sets (or, for an empty value, removes) one declaration in the
// style attribute, keeping the others in place.
func setStyle(s *goquery.Selection, prop, value string) {
	s.Each(func(_ int, el *goquery.Selection) {
		var decls []string
		found := false
		for _, decl := range strings.Split(el.AttrOr("style", ""), ";") {
			k, _, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(k), prop) {
				found = true
				if value != "" {
					decls = append(decls, prop+": "+value)
				}
				continue
			}
			decls = append(decls, strings.TrimSpace(decl))
		}
		if !found && value != "" {
			decls = append(decls, prop+": "+value)
		}
		if len(decls) == 0 {
			el.RemoveAttr("style")
			return
		}
		el.SetAttr("style", strings.Join(decls, "; "))
	})
}
