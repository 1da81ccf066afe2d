package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

func (q *Queue) HandleDeliverReviewTask(ctx context.Context, task *asynq.Task) error {
	var payload DeliverReviewPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.Deliver(ctx, payload.JobID)
}

// Deliver sends one claimed review job through the provider and settles
// its status. Jobs not in sending state are skipped: either another
// consumer already settled them or the reaper returned them to the queue.
func (q *Queue) Deliver(ctx context.Context, jobID int64) error {
	job, isExist, err := q.rr.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if !isExist {
		slog.Info("review job vanished before delivery", "job_id", jobID)
		return nil
	}
	if job.Status != models.ReviewJobSending {
		slog.Info("review job no longer claimed, skipping", "job_id", jobID, "status", job.Status)
		return nil
	}

	if err := q.sender.Send(ctx, job); err != nil {
		slog.Info(err.Error())
		if markErr := q.rr.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			return markErr
		}
		return nil
	}

	return q.rr.MarkSent(ctx, job.ID, time.Now())
}
