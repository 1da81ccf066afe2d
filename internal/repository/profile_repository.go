package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.SalonProfile, bool, error)
	Upsert(ctx context.Context, profile *models.SalonProfile) error
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*models.SalonProfile, bool, error) {
	query := `
		SELECT id, user_id, salon_name, city, timezone, brand_voice, services_text, instagram_handle, created_at, updated_at
		FROM salon_profiles
		WHERE user_id = $1
	`

	var p models.SalonProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.SalonName, &p.City, &p.Timezone,
		&p.BrandVoice, &p.ServicesText, &p.InstagramHandle,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &p, true, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.SalonProfile) error {
	query := `
		INSERT INTO salon_profiles (user_id, salon_name, city, timezone, brand_voice, services_text, instagram_handle)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET salon_name = EXCLUDED.salon_name,
			city = EXCLUDED.city,
			timezone = EXCLUDED.timezone,
			brand_voice = EXCLUDED.brand_voice,
			services_text = EXCLUDED.services_text,
			instagram_handle = EXCLUDED.instagram_handle,
			updated_at = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.SalonName, profile.City, profile.Timezone,
		profile.BrandVoice, profile.ServicesText, profile.InstagramHandle,
		time.Now(),
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
