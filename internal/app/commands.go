package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"stayin/internal/domain"
)

type CatalogService struct {
	repo  domain.HotelRepository
	cache domain.Cache
	feed  domain.CatalogFeed
}

func NewCatalogService(r domain.HotelRepository, cache domain.Cache, feed domain.CatalogFeed) *CatalogService {
	return &CatalogService{repo: r, cache: cache, feed: feed}
}

// NewHotel is the admin form for a hotel.
type NewHotel struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// NewRoom is the admin form for a room.
type NewRoom struct {
	RoomType  string `json:"room_type"`
	Price     Amount `json:"price"`
	Available *bool  `json:"available,omitempty"`
}

// Amount is a price as submitted; JSON numbers and strings are both accepted
// so a bad value is reported as an invalid price rather than a bad body.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

func (s *CatalogService) AddHotel(ctx context.Context, in NewHotel) (int64, error) {
	h := domain.Hotel{
		Name:        strings.TrimSpace(in.Name),
		Location:    strings.TrimSpace(in.Location),
		Description: ptrStr(deref(in.Description)),
		ImageURL:    ptrStr(deref(in.ImageURL)),
	}
	if err := validateHotel(h); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertHotel(ctx, h)
	if err != nil {
		return 0, err
	}
	s.invalidateCards(ctx)
	return id, nil
}

func (s *CatalogService) AddRoom(ctx context.Context, hotelID int64, in NewRoom) (int64, error) {
	if _, err := s.repo.GetHotel(ctx, hotelID); err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(string(in.Price)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid price", domain.ErrInvalid)
	}
	r := domain.Room{
		HotelID:       hotelID,
		RoomType:      strings.TrimSpace(in.RoomType),
		PricePerNight: price,
		Available:     in.Available == nil || *in.Available,
	}
	if err := validateRoom(r); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertRoom(ctx, r)
	if err != nil {
		return 0, err
	}
	s.invalidateHotel(ctx, hotelID)
	s.invalidateCards(ctx)
	return id, nil
}

// ClearCatalog removes every hotel and room.
func (s *CatalogService) ClearCatalog(ctx context.Context) error {
	if err := s.repo.ClearCatalog(ctx); err != nil {
		return err
	}
	s.invalidateCards(ctx)
	return nil
}

// SeedHotel inserts one hotel of a seed file with its rooms.
func (s *CatalogService) SeedHotel(ctx context.Context, sh SeedHotel) (int64, error) {
	id, err := s.AddHotel(ctx, NewHotel{
		Name:        sh.Name,
		Location:    sh.Location,
		Description: ptrStr(sh.Description),
		ImageURL:    ptrStr(sh.ImageURL),
	})
	if err != nil {
		return 0, fmt.Errorf("seed hotel %q: %w", sh.Name, err)
	}
	for _, sr := range sh.Rooms {
		avail := sr.Available == nil || *sr.Available
		if _, err := s.AddRoom(ctx, id, NewRoom{
			RoomType:  sr.Type,
			Price:     Amount(strconv.FormatFloat(sr.Price, 'f', -1, 64)),
			Available: &avail,
		}); err != nil {
			return id, fmt.Errorf("seed room %q of %q: %w", sr.Type, sh.Name, err)
		}
	}
	return id, nil
}

// ImportHotel maps one feed record, inserts it, then fetches and inserts its
// rooms. Rooms the feed rejects with not-found are skipped.
func (s *CatalogService) ImportHotel(ctx context.Context, raw map[string]any) (int64, error) {
	h, ref, err := mapFeedHotel(raw)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.InsertHotel(ctx, h)
	if err != nil {
		return 0, err
	}
	s.invalidateCards(ctx)
	if s.feed == nil || ref == "" {
		return id, nil
	}

	rooms, err := s.feed.GetRooms(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("ref", ref).Msg("feed has no rooms for hotel")
			return id, nil
		}
		return id, fmt.Errorf("rooms for %q: %w", ref, err)
	}
	for _, rr := range rooms {
		r, err := mapFeedRoom(id, rr)
		if err != nil {
			log.Warn().Err(err).Str("ref", ref).Msg("skip feed room")
			continue
		}
		if _, err := s.repo.InsertRoom(ctx, r); err != nil {
			return id, err
		}
	}
	s.invalidateHotel(ctx, id)
	return id, nil
}

func validateHotel(h domain.Hotel) error {
	if h.Name == "" || h.Location == "" {
		return fmt.Errorf("%w: name and location are required", domain.ErrInvalid)
	}
	return nil
}

func validateRoom(r domain.Room) error {
	if r.RoomType == "" {
		return fmt.Errorf("%w: room type is required", domain.ErrInvalid)
	}
	if math.IsNaN(r.PricePerNight) || math.IsInf(r.PricePerNight, 0) || r.PricePerNight < 0 {
		return fmt.Errorf("%w: invalid price", domain.ErrInvalid)
	}
	return nil
}

func (s *CatalogService) invalidateHotel(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
}

func (s *CatalogService) invalidateCards(ctx context.Context) {
	if s.cache != nil {
		bumpCardsGeneration(ctx, s.cache)
	}
}
