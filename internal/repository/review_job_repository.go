package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

const reviewJobColumns = `id, user_id, appointment_event_id, channel, to_email, to_phone, message, scheduled_for, status, claimed_at, sent_at, error, created_at`

type ReviewJobRepository interface {
	Create(ctx context.Context, job *models.ReviewJob) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ReviewJob, bool, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ReviewJob, error)
	Claim(ctx context.Context, now time.Time, limit int) ([]*models.ReviewJob, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	ReleaseStuck(ctx context.Context, olderThan time.Time) (int64, error)
}

type reviewJobRepository struct {
	db *sql.DB
}

func NewReviewJobRepository(db *sql.DB) ReviewJobRepository {
	return &reviewJobRepository{db: db}
}

func (r *reviewJobRepository) Create(ctx context.Context, job *models.ReviewJob) (int64, error) {
	query := `
		INSERT INTO review_jobs (user_id, appointment_event_id, channel, to_email, to_phone, message, scheduled_for, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		job.UserID, job.AppointmentEventID, job.Channel,
		job.ToEmail, job.ToPhone, job.Message,
		job.ScheduledFor, models.ReviewJobQueued,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *reviewJobRepository) GetByID(ctx context.Context, id int64) (*models.ReviewJob, bool, error) {
	query := `SELECT ` + reviewJobColumns + ` FROM review_jobs WHERE id = $1`

	job, err := scanReviewJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return job, true, nil
}

func (r *reviewJobRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ReviewJob, error) {
	query := `
		SELECT ` + reviewJobColumns + `
		FROM review_jobs
		WHERE status = $1 AND scheduled_for <= $2
		ORDER BY scheduled_for ASC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, models.ReviewJobQueued, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectReviewJobs(rows)
}

// Claim atomically moves up to limit due jobs from queued to sending and
// returns the winners. Overlapping consumers never receive the same job;
// SKIP LOCKED keeps them from blocking each other.
func (r *reviewJobRepository) Claim(ctx context.Context, now time.Time, limit int) ([]*models.ReviewJob, error) {
	query := `
		UPDATE review_jobs
		SET status = $1, claimed_at = $2
		WHERE id IN (
			SELECT id FROM review_jobs
			WHERE status = $3 AND scheduled_for <= $2
			ORDER BY scheduled_for ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + reviewJobColumns

	rows, err := r.db.QueryContext(ctx, query, models.ReviewJobSending, now, models.ReviewJobQueued, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectReviewJobs(rows)
}

func (r *reviewJobRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `UPDATE review_jobs SET status = $1, sent_at = $2, error = NULL WHERE id = $3 AND status = $4`
	_, err := r.db.ExecContext(ctx, query, models.ReviewJobSent, sentAt, id, models.ReviewJobSending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *reviewJobRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	query := `UPDATE review_jobs SET status = $1, error = $2 WHERE id = $3 AND status = $4`
	_, err := r.db.ExecContext(ctx, query, models.ReviewJobFailed, errMsg, id, models.ReviewJobSending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ReleaseStuck returns sending jobs whose claim is older than olderThan to
// the queue, so a crashed consumer cannot strand work forever.
func (r *reviewJobRepository) ReleaseStuck(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `UPDATE review_jobs SET status = $1, claimed_at = NULL WHERE status = $2 AND claimed_at < $3`
	res, err := r.db.ExecContext(ctx, query, models.ReviewJobQueued, models.ReviewJobSending, olderThan)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewJob(row rowScanner) (*models.ReviewJob, error) {
	var job models.ReviewJob
	err := row.Scan(
		&job.ID, &job.UserID, &job.AppointmentEventID, &job.Channel,
		&job.ToEmail, &job.ToPhone, &job.Message,
		&job.ScheduledFor, &job.Status, &job.ClaimedAt, &job.SentAt, &job.Error,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func collectReviewJobs(rows *sql.Rows) ([]*models.ReviewJob, error) {
	var jobs []*models.ReviewJob
	for rows.Next() {
		job, err := scanReviewJob(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
