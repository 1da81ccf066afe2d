package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type DispatchRepository interface {
	ListByUserID(ctx context.Context, userID int64) (map[string]*models.DispatchFlag, error)
	Upsert(ctx context.Context, flag *models.DispatchFlag) error
}

type dispatchRepository struct {
	db *sql.DB
}

func NewDispatchRepository(db *sql.DB) DispatchRepository {
	return &dispatchRepository{db: db}
}

func (r *dispatchRepository) ListByUserID(ctx context.Context, userID int64) (map[string]*models.DispatchFlag, error) {
	query := `SELECT id, user_id, post_key, ready, updated_at FROM dispatch_flags WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	flags := make(map[string]*models.DispatchFlag)
	for rows.Next() {
		var flag models.DispatchFlag
		err := rows.Scan(&flag.ID, &flag.UserID, &flag.PostKey, &flag.Ready, &flag.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		flags[flag.PostKey] = &flag
	}
	return flags, nil
}

func (r *dispatchRepository) Upsert(ctx context.Context, flag *models.DispatchFlag) error {
	query := `
		INSERT INTO dispatch_flags (user_id, post_key, ready, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, post_key)
		DO UPDATE SET ready = EXCLUDED.ready,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, flag.UserID, flag.PostKey, flag.Ready, flag.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
