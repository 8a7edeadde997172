package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stayin/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// likeTerm builds a case-insensitive substring pattern, escaping LIKE wildcards.
func likeTerm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InsertHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name,
		h.Location,
		valStr(h.Description),
		valStr(h.ImageURL),
	)
	if err != nil {
		return 0, fmt.Errorf("insert hotel: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repo) InsertRoom(ctx context.Context, rm domain.Room) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID,
		rm.RoomType,
		rm.PricePerNight,
		rm.Available,
	)
	if err != nil {
		return 0, fmt.Errorf("insert room: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repo) ClearCatalog(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, clearCatalogSQL)
	return err
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, img sql.NullString
	err := r.db.QueryRowContext(ctx, getHotelSQL, id).Scan(&h.ID, &h.Name, &h.Location, &desc, &img)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Description, h.ImageURL = strPtr(desc), strPtr(img)
	return h, nil
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Room, 0, 8)
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.RoomType, &rm.PricePerNight, &rm.Available); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) ListCards(ctx context.Context, q domain.CardsQuery) ([]domain.HotelCard, error) {
	rows, err := r.db.QueryContext(ctx, listCardsSQL, likeTerm(q.Q), likeTerm(q.Location))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.HotelCard, 0, 32)
	for rows.Next() {
		var c domain.HotelCard
		var desc, img sql.NullString
		var minPrice sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.Name, &c.Location, &desc, &img, &minPrice); err != nil {
			return nil, err
		}
		c.Description, c.ImageURL = strPtr(desc), strPtr(img)
		if minPrice.Valid {
			// whole amount, truncated
			p := int(minPrice.Float64)
			c.MinPrice = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
