package httpserver_test

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"

	"stayin/internal/listing"
	"stayin/internal/page"
)

func readPatch(t *testing.T, conn *websocket.Conn) page.Patch {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var p page.Patch
	if err := conn.ReadJSON(&p); err != nil {
		t.Fatalf("read patch: %v", err)
	}
	return p
}

func TestLiveHotels_SessionOverWebsocket(t *testing.T) {
	ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/hotels?location=goa"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != 101 {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	snap := readPatch(t, conn)
	if snap.Cards == nil || len(snap.Cards.Visible) != 2 || snap.Controls == nil || snap.Menu == nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	if err := conn.WriteJSON(page.Input(string(listing.RoleSearch), "hut")); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := readPatch(t, conn)
	if p.Cards == nil || !slices.Equal(p.Cards.Visible, []bool{false, true}) || p.Seq != 2 {
		t.Fatalf("search patch: %+v", p)
	}

	// internal event types are not accepted from clients
	if err := conn.WriteJSON(page.Event{Type: "flash_hide"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(page.Click(page.TargetMenuButton)); err != nil {
		t.Fatalf("write: %v", err)
	}
	p = readPatch(t, conn)
	if p.Menu == nil || !p.Menu.Open || p.Seq != 3 {
		t.Fatalf("menu patch: %+v", p)
	}

	if err := conn.WriteJSON(page.KeyDown(page.TargetHomeSearch, "Enter")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if p = readPatch(t, conn); p.Navigate != "/hotels" {
		t.Fatalf("navigate = %q", p.Navigate)
	}
}

// renderedCards maps data-card ids to names, as the browser script does.
func renderedCards(t *testing.T, doc *goquery.Document) (byID map[int]string, domOrder []string) {
	t.Helper()
	byID = map[int]string{}
	doc.Find("#hotel-grid .hotel-card").Each(func(_ int, s *goquery.Selection) {
		id, err := strconv.Atoi(s.AttrOr("data-card", ""))
		if err != nil {
			t.Fatalf("card without data-card: %v", err)
		}
		byID[id] = s.AttrOr("data-name", "")
		domOrder = append(domOrder, byID[id])
	})
	return byID, domOrder
}

func shownNames(byID map[int]string, p page.Patch) []string {
	var out []string
	for _, id := range p.Cards.VisibleIDs() {
		out = append(out, byID[id])
	}
	return out
}

func TestLiveHotels_FollowsSortedAndBoundedPage(t *testing.T) {
	ts := newTestServer(t)
	qs := "max_price=5000&sort=price_low"
	req, _ := http.NewRequest("GET", ts.URL+"/hotels?"+qs, nil)
	byID, domOrder := renderedCards(t, getDoc(t, req))

	wantDOM := []string{"Sunset Paradise Resort", "City Comfort Inn", "Mountain Escape Lodge", "Beach Hut"}
	if !slices.Equal(domOrder, wantDOM) {
		t.Fatalf("rendered order = %v, want %v", domOrder, wantDOM)
	}

	// the same parameters the page script forwards
	params := url.Values{"q": {""}, "location": {""}, "max_price": {"5000"}, "sort": {"price_low"}}
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/hotels?" + params.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	snap := readPatch(t, conn)
	if snap.Cards == nil {
		t.Fatalf("snapshot without cards: %+v", snap)
	}
	if got := shownNames(byID, snap); !slices.Equal(got, []string{"City Comfort Inn", "Mountain Escape Lodge", "Beach Hut"}) {
		t.Fatalf("snapshot shows %v", got)
	}
	if snap.Controls == nil || snap.Controls.Value(listing.RoleMaxPrice) != "5000" || snap.Controls.Value(listing.RoleSort) != "price_low" {
		t.Fatalf("snapshot controls: %+v", snap.Controls)
	}

	if err := conn.WriteJSON(page.Input(string(listing.RoleSearch), "inn")); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := readPatch(t, conn)
	if p.Cards == nil {
		t.Fatalf("search patch: %+v", p)
	}
	if got := shownNames(byID, p); !slices.Equal(got, []string{"City Comfort Inn"}) {
		t.Fatalf("browser shows %v, want [City Comfort Inn]", got)
	}

	// clearing the search keeps the max-price bound from the page
	if err := conn.WriteJSON(page.Input(string(listing.RoleSearch), "")); err != nil {
		t.Fatalf("write: %v", err)
	}
	p = readPatch(t, conn)
	if got := shownNames(byID, p); slices.Contains(got, "Sunset Paradise Resort") {
		t.Fatalf("bound dropped, browser shows %v", got)
	}
}
