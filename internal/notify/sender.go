package notify

import (
	"context"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

// Sender hands one review message to a delivery provider. "Sent" in the
// queue means the provider accepted the message; a provider error marks
// the job failed.
type Sender interface {
	Send(ctx context.Context, job *models.ReviewJob) error
}

// LogSender is the current provider: it accepts every message and logs
// it. Swap in a real email/SMS provider behind the same interface.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, job *models.ReviewJob) error {
	recipient := ""
	if job.ToEmail != nil {
		recipient = *job.ToEmail
	} else if job.ToPhone != nil {
		recipient = *job.ToPhone
	}
	slog.Info("review message dispatched",
		"job_id", job.ID,
		"user_id", job.UserID,
		"channel", job.Channel,
		"recipient", recipient,
	)
	return nil
}
