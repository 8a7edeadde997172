package app

import (
	"context"
	"fmt"
	"time"

	"stayin/internal/domain"
)

// FlashStore keeps one-shot messages per browser session until the next
// page render pops them.
type FlashStore struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewFlashStore(c domain.Cache, ttl time.Duration) *FlashStore {
	return &FlashStore{cache: c, ttl: ttl}
}

func flashKey(sid string) string { return fmt.Sprintf("flash:%s", sid) }

func (f *FlashStore) Add(ctx context.Context, sid string, fl domain.Flash) error {
	var cur []domain.Flash
	if _, err := f.cache.Get(ctx, flashKey(sid), &cur); err != nil {
		return err
	}
	cur = append(cur, fl)
	return f.cache.Set(ctx, flashKey(sid), cur, int(f.ttl.Seconds()))
}

// Pop returns the pending messages in insertion order and forgets them.
func (f *FlashStore) Pop(ctx context.Context, sid string) ([]domain.Flash, error) {
	var cur []domain.Flash
	ok, err := f.cache.Get(ctx, flashKey(sid), &cur)
	if err != nil || !ok {
		return nil, err
	}
	if err := f.cache.Del(ctx, flashKey(sid)); err != nil {
		return nil, err
	}
	return cur, nil
}
