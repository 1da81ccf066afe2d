package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type BookingRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.BookingLink, bool, error)
	GetByUserID(ctx context.Context, userID int64) (*models.BookingLink, bool, error)
	Upsert(ctx context.Context, userID int64, slug string) error
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetBySlug(ctx context.Context, slug string) (*models.BookingLink, bool, error) {
	query := `SELECT id, user_id, slug, created_at FROM booking_links WHERE slug = $1`

	var link models.BookingLink
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&link.ID, &link.UserID, &link.Slug, &link.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &link, true, nil
}

func (r *bookingRepository) GetByUserID(ctx context.Context, userID int64) (*models.BookingLink, bool, error) {
	query := `SELECT id, user_id, slug, created_at FROM booking_links WHERE user_id = $1`

	var link models.BookingLink
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&link.ID, &link.UserID, &link.Slug, &link.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &link, true, nil
}

func (r *bookingRepository) Upsert(ctx context.Context, userID int64, slug string) error {
	query := `
		INSERT INTO booking_links (user_id, slug)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET slug = EXCLUDED.slug
	`
	_, err := r.db.ExecContext(ctx, query, userID, slug)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
