package app_test

import (
	"context"
	"strings"
	"testing"

	"stayin/internal/app"
	"stayin/internal/domain"
)

type fakeFeed struct {
	rooms map[string][]map[string]any
}

func (f *fakeFeed) GetHotels(ctx context.Context) ([]map[string]any, error) { return nil, nil }

func (f *fakeFeed) GetRooms(ctx context.Context, ref string) ([]map[string]any, error) {
	rs, ok := f.rooms[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rs, nil
}

func TestImportHotel_MapsAliases(t *testing.T) {
	repo := &fakeRepo{}
	feed := &fakeFeed{rooms: map[string][]map[string]any{
		"77": {
			{"type": "Suite", "rate": map[string]any{"amount": "250,5"}},
			{"room_name": "Dorm", "price": 30, "is_available": "false"},
			{"room_type": "Broken"},
		},
	}}
	cat := app.NewCatalogService(repo, &fakeCache{}, feed)

	id, err := cat.ImportHotel(context.Background(), map[string]any{
		"hotel_id": float64(77),
		"title":    "Harbor House",
		"address":  map[string]any{"city": "Lisbon"},
		"photos":   []any{map[string]any{"url": "https://img/1.jpg"}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	h, _ := repo.GetHotel(context.Background(), id)
	if h.Name != "Harbor House" || h.Location != "Lisbon" || h.ImageURL == nil || *h.ImageURL != "https://img/1.jpg" {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	rooms, _ := repo.ListRooms(context.Background(), id)
	if len(rooms) != 2 {
		t.Fatalf("want 2 rooms (broken one skipped), got %+v", rooms)
	}
	if rooms[0].PricePerNight != 250.5 || !rooms[0].Available || rooms[1].Available {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}

func TestImportHotel_MissingRoomsAndInvalid(t *testing.T) {
	repo := &fakeRepo{}
	cat := app.NewCatalogService(repo, &fakeCache{}, &fakeFeed{})

	if _, err := cat.ImportHotel(context.Background(), map[string]any{"id": "x1", "name": "Solo", "city": "Oslo"}); err != nil {
		t.Fatalf("missing rooms should not fail: %v", err)
	}
	if _, err := cat.ImportHotel(context.Background(), map[string]any{"id": "x2", "name": "Nowhere"}); err == nil {
		t.Fatalf("hotel without location should be rejected")
	}
	if len(repo.hotels) != 1 {
		t.Fatalf("hotels = %d", len(repo.hotels))
	}
}

func TestReadSeed_AndSeedHotel(t *testing.T) {
	sf, err := app.ReadSeed(strings.NewReader(`
hotels:
  - name: Sunset Paradise Resort
    location: Goa
    rooms:
      - type: Deluxe Suite
        price: 6500
      - type: Standard Room
        price: 4500
        available: false
`))
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	if len(sf.Hotels) != 1 || len(sf.Hotels[0].Rooms) != 2 {
		t.Fatalf("unexpected seed: %+v", sf)
	}

	repo := &fakeRepo{}
	cat := app.NewCatalogService(repo, &fakeCache{}, nil)
	if _, err := cat.SeedHotel(context.Background(), sf.Hotels[0]); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.rooms) != 2 || repo.rooms[1].Available {
		t.Fatalf("unexpected rooms: %+v", repo.rooms)
	}

	if _, err := app.ReadSeed(strings.NewReader("hotels:\n  - nme: typo\n")); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}
