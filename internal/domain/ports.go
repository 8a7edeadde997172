package domain

import "context"

type HotelRepository interface {
	// Write paths
	InsertHotel(ctx context.Context, h Hotel) (int64, error)
	InsertRoom(ctx context.Context, r Room) (int64, error)
	ClearCatalog(ctx context.Context) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListRooms(ctx context.Context, hotelID int64) ([]Room, error)
	ListCards(ctx context.Context, q CardsQuery) ([]HotelCard, error)
}

// CatalogFeed is a remote source of hotels to import.
type CatalogFeed interface {
	GetHotels(ctx context.Context) ([]map[string]any, error)
	GetRooms(ctx context.Context, hotelRef string) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CardsQuery narrows the catalog server-side before the page pipeline runs.
// Both are case-insensitive substring matches; empty means no filter.
type CardsQuery struct {
	Q        string // hotel name
	Location string
}
