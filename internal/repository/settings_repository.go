package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error)
	Upsert(ctx context.Context, s *models.Settings) error
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	query := `
		SELECT id, user_id, review_send_delay_minutes, review_channel, booking_url, created_at, updated_at
		FROM settings
		WHERE user_id = $1
	`

	var settings models.Settings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.ID, &settings.UserID,
		&settings.ReviewSendDelayMinutes, &settings.ReviewChannel, &settings.BookingURL,
		&settings.CreatedAt, &settings.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &settings, true, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings (user_id, review_send_delay_minutes, review_channel, booking_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET review_send_delay_minutes = EXCLUDED.review_send_delay_minutes,
			review_channel = EXCLUDED.review_channel,
			booking_url = EXCLUDED.booking_url,
			updated_at = $5
	`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.ReviewSendDelayMinutes, s.ReviewChannel, s.BookingURL, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
