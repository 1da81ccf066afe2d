package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type ApprovalRepository interface {
	ListByUserID(ctx context.Context, userID int64) (map[string]*models.ApprovalRecord, error)
	Upsert(ctx context.Context, rec *models.ApprovalRecord) error
}

type approvalRepository struct {
	db *sql.DB
}

func NewApprovalRepository(db *sql.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) ListByUserID(ctx context.Context, userID int64) (map[string]*models.ApprovalRecord, error) {
	query := `SELECT id, user_id, post_key, status, reject_reason, decided_at FROM approvals WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]*models.ApprovalRecord)
	for rows.Next() {
		var rec models.ApprovalRecord
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.PostKey, &rec.Status, &rec.RejectReason, &rec.DecidedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records[rec.PostKey] = &rec
	}
	return records, nil
}

// Upsert fully overwrites the prior decision for (user_id, post_key).
// Last write wins; no decision history is kept beyond the latest row.
func (r *approvalRepository) Upsert(ctx context.Context, rec *models.ApprovalRecord) error {
	query := `
		INSERT INTO approvals (user_id, post_key, status, reject_reason, decided_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, post_key)
		DO UPDATE SET status = EXCLUDED.status,
			reject_reason = EXCLUDED.reject_reason,
			decided_at = EXCLUDED.decided_at
	`
	_, err := r.db.ExecContext(ctx, query, rec.UserID, rec.PostKey, rec.Status, rec.RejectReason, rec.DecidedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
