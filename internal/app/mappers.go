package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"stayin/internal/domain"
	"stayin/internal/listing"
)

/********** alias registries for feed records **********/

var hotelAliases = map[string][]string{
	"ref":         {"id", "hotel_id", "code"},
	"name":        {"name", "hotel_name", "title"},
	"location":    {"location", "city", "address.city", "address.locality", "destination"},
	"description": {"description", "summary", "markdown_description", "details.description"},
	"image_url":   {"image_url", "image", "main_image", "thumbnail", "photo"},
}

var roomAliases = map[string][]string{
	"room_type": {"room_type", "type", "name", "room_name"},
	"price":     {"price_per_night", "price", "rate", "rate.amount", "price.amount"},
	"available": {"available", "is_available", "availability.available"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// getFloatFlexible: number from several paths (float64/int/string like "80,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstRef: identifier from several paths, numeric or string, as text.
func firstRef(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstBool accepts booleans, 0/1 and the usual strings. Missing means def.
func firstBool(m map[string]any, def bool, paths ...string) bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case int:
			return v != 0
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		}
	}
	return def
}

// firstSliceStrings: accept []any with either strings or {url/src}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if u, ok := t["src"].(string); ok && u != "" {
						out = append(out, u)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

/********** feed mappers **********/

// mapFeedHotel maps one feed record. The feed reference is returned
// separately since local ids are assigned on insert.
func mapFeedHotel(p map[string]any) (domain.Hotel, string, error) {
	ref := firstRef(p, hotelAliases["ref"]...)
	h := domain.Hotel{
		Name:        deref(firstNonEmptyAlias(p, hotelAliases, "name")),
		Location:    deref(firstNonEmptyAlias(p, hotelAliases, "location")),
		Description: firstNonEmptyAlias(p, hotelAliases, "description"),
		ImageURL:    firstNonEmptyAlias(p, hotelAliases, "image_url"),
	}
	if h.ImageURL == nil {
		if imgs := firstSliceStrings(p, "images", "photos", "gallery"); len(imgs) > 0 {
			h.ImageURL = &imgs[0]
		}
	}
	if err := validateHotel(h); err != nil {
		return domain.Hotel{}, ref, fmt.Errorf("feed hotel %q: %w", ref, err)
	}
	return h, ref, nil
}

func mapFeedRoom(hotelID int64, p map[string]any) (domain.Room, error) {
	r := domain.Room{
		HotelID:   hotelID,
		RoomType:  deref(firstNonEmptyAlias(p, roomAliases, "room_type")),
		Available: firstBool(p, true, roomAliases["available"]...),
	}
	price := getFloatFlexible(p, roomAliases["price"]...)
	if price == nil {
		return domain.Room{}, fmt.Errorf("feed room %q: %w: missing price", r.RoomType, domain.ErrInvalid)
	}
	r.PricePerNight = *price
	if err := validateRoom(r); err != nil {
		return domain.Room{}, fmt.Errorf("feed room %q: %w", r.RoomType, err)
	}
	return r, nil
}

/********** read-model mappers **********/

// ListingCard converts a card row for the page pipeline; a hotel without
// rooms has no price.
func ListingCard(c domain.HotelCard) listing.Card {
	price := math.Inf(1)
	if c.MinPrice != nil {
		price = float64(*c.MinPrice)
	}
	return listing.Card{Name: c.Name, Location: c.Location, MinPrice: price}
}

func ListingCards(cs []domain.HotelCard) []listing.Card {
	out := make([]listing.Card, len(cs))
	for i, c := range cs {
		out[i] = ListingCard(c)
	}
	return out
}
