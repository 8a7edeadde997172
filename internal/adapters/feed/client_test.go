package feed_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stayin/internal/adapters/feed"
	"stayin/internal/domain"
)

func TestClient_GetHotels_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{map[string]any{"id": 123.0, "name": "Harbor"}}})
		}
	}))
	defer ts.Close()

	cl, err := feed.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.GetHotels(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "Harbor" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetRooms_FallsBackThen404(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/properties/7/rooms" {
			_ = json.NewEncoder(w).Encode([]any{map[string]any{"type": "Suite", "price": 90.0}})
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	cl, _ := feed.New(ts.URL, "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rooms, err := cl.GetRooms(ctx, "7")
	if err != nil || len(rooms) != 1 {
		t.Fatalf("rooms: %+v %v", rooms, err)
	}
	if len(paths) != 2 || paths[0] != "/hotels/7/rooms" {
		t.Fatalf("expected fallback from hotels to properties, got %v", paths)
	}

	if _, err := cl.GetRooms(ctx, "8"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
