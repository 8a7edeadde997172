package domain

type Hotel struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type Room struct {
	ID            int64   `json:"id"`
	HotelID       int64   `json:"hotel_id"`
	RoomType      string  `json:"room_type"`
	PricePerNight float64 `json:"price_per_night"`
	Available     bool    `json:"available"`
}

// HotelCard is the listing read model: one hotel plus its cheapest room,
// truncated to a whole amount. MinPrice is nil for hotels without rooms.
type HotelCard struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	MinPrice    *int    `json:"min_price"`
}

type HotelDetail struct {
	Hotel Hotel  `json:"hotel"`
	Rooms []Room `json:"rooms"`
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"` // success|info|danger
	Message  string `json:"message"`
}
