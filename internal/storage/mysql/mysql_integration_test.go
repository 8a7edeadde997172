//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"stayin/internal/domain"
	mysqlrepo "stayin/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=stayin",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/stayin?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_CatalogAndCards(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	goa, err := repo.InsertHotel(ctx, domain.Hotel{Name: "Sunset Paradise Resort", Location: "Goa", Description: pstr("Beachfront")})
	if err != nil {
		t.Fatalf("InsertHotel: %v", err)
	}
	lodge, err := repo.InsertHotel(ctx, domain.Hotel{Name: "Mountain_Escape Lodge", Location: "Manali"})
	if err != nil {
		t.Fatalf("InsertHotel: %v", err)
	}
	for _, rm := range []domain.Room{
		{HotelID: goa, RoomType: "Deluxe Suite", PricePerNight: 6500, Available: true},
		{HotelID: goa, RoomType: "Sea View Room", PricePerNight: 5200.75, Available: false},
	} {
		if _, err := repo.InsertRoom(ctx, rm); err != nil {
			t.Fatalf("InsertRoom: %v", err)
		}
	}

	cards, err := repo.ListCards(ctx, domain.CardsQuery{})
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards = %+v", cards)
	}
	if cards[0].MinPrice == nil || *cards[0].MinPrice != 5200 {
		t.Fatalf("goa min price: %+v", cards[0].MinPrice)
	}
	if cards[1].MinPrice != nil {
		t.Fatalf("hotel without rooms should have no price: %v", *cards[1].MinPrice)
	}

	// case-insensitive, wildcards in the term are literal
	got, _ := repo.ListCards(ctx, domain.CardsQuery{Q: "ESCAPE"})
	if len(got) != 1 || got[0].ID != lodge {
		t.Fatalf("q filter: %+v", got)
	}
	got, _ = repo.ListCards(ctx, domain.CardsQuery{Q: "n_e"})
	if len(got) != 1 || got[0].ID != lodge {
		t.Fatalf("underscore should match literally: %+v", got)
	}
	got, _ = repo.ListCards(ctx, domain.CardsQuery{Location: "goa", Q: "%"})
	if len(got) != 0 {
		t.Fatalf("percent should match literally: %+v", got)
	}

	h, err := repo.GetHotel(ctx, goa)
	if err != nil || h.Description == nil || *h.Description != "Beachfront" || h.ImageURL != nil {
		t.Fatalf("GetHotel: %+v %v", h, err)
	}
	rooms, err := repo.ListRooms(ctx, goa)
	if err != nil || len(rooms) != 2 || rooms[1].Available {
		t.Fatalf("ListRooms: %+v %v", rooms, err)
	}

	if err := repo.ClearCatalog(ctx); err != nil {
		t.Fatalf("ClearCatalog: %v", err)
	}
	if _, err := repo.GetHotel(ctx, goa); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after clear, got %v", err)
	}
	if rooms, _ := repo.ListRooms(ctx, goa); len(rooms) != 0 {
		t.Fatalf("rooms should cascade: %+v", rooms)
	}
}
