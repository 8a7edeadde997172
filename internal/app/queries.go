package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stayin/internal/domain"
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// ListCards returns the hotel cards for the listing pages, narrowed by the
// server-side name and location filters.
func (s *QueryService) ListCards(ctx context.Context, q domain.CardsQuery) ([]domain.HotelCard, error) {
	q.Q = strings.TrimSpace(q.Q)
	q.Location = strings.TrimSpace(q.Location)

	key := fmt.Sprintf("cards:%d:%s:%s", cardsGeneration(ctx, s.cache), strings.ToLower(q.Q), strings.ToLower(q.Location))
	var out []domain.HotelCard
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	cards, err := s.repo.ListCards(ctx, q)
	if err != nil {
		return nil, err
	}
	// copy so later edits by the caller never reach the cached value
	out = make([]domain.HotelCard, len(cards))
	copy(out, cards)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := hotelKey(id)
	var hd domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &hd); ok {
		return hd, nil
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	rooms, err := s.repo.ListRooms(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, fmt.Errorf("list rooms for %d: %w", id, err)
	}
	hd = domain.HotelDetail{Hotel: h, Rooms: rooms}
	_ = s.cache.Set(ctx, key, hd, int(s.cacheTTL.Seconds()))
	return hd, nil
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

const cardsGenKey = "cards:gen"

// cardsGeneration versions every cached card list; bumping it drops them all at once.
func cardsGeneration(ctx context.Context, c domain.Cache) int64 {
	var gen int64
	if ok, _ := c.Get(ctx, cardsGenKey, &gen); ok {
		return gen
	}
	return 0
}

func bumpCardsGeneration(ctx context.Context, c domain.Cache) {
	_ = c.Set(ctx, cardsGenKey, time.Now().UnixNano(), 0)
}
