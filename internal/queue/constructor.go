package queue

import (
	"github.com/flowpilotuk-hash/flowpilot/internal/notify"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
)

type Queue struct {
	rr     repository.ReviewJobRepository
	sender notify.Sender
}

func NewQueue(rr repository.ReviewJobRepository, sender notify.Sender) *Queue {
	return &Queue{
		rr:     rr,
		sender: sender,
	}
}

const TaskTypeDeliverReview = "review:deliver"

type DeliverReviewPayload struct {
	JobID int64 `json:"job_id"`
}
