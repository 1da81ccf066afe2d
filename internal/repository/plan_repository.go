package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

// Plans are append-only: Create always inserts, Latest picks the newest
// generation. There is no update or delete.
type PlanRepository interface {
	Create(ctx context.Context, plan *models.PlanRecord) (int64, error)
	Latest(ctx context.Context, userID int64) (*models.PlanRecord, bool, error)
}

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *models.PlanRecord) (int64, error) {
	query := `
		INSERT INTO plans (user_id, payload, model, generated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, plan.UserID, []byte(plan.Payload), plan.Model, plan.GeneratedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *planRepository) Latest(ctx context.Context, userID int64) (*models.PlanRecord, bool, error) {
	query := `
		SELECT id, user_id, payload, model, generated_at
		FROM plans
		WHERE user_id = $1
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`

	var rec models.PlanRecord
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&rec.ID, &rec.UserID, &payload, &rec.Model, &rec.GeneratedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	rec.Payload = payload

	return &rec, true, nil
}
