package job

import (
	"context"
	"log"
	"log/slog"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
)

const consumeBatchSize = 50

// ReviewPollerJob drives the review queue from inside the process. An
// external scheduler hitting the /worker endpoints does the same work;
// both paths share the service methods.
type ReviewPollerJob struct {
	rs service.ReviewService
}

func NewReviewPollerJob(rs service.ReviewService) *ReviewPollerJob {
	return &ReviewPollerJob{
		rs: rs,
	}
}

func (c *ReviewPollerJob) ConsumeDue() {
	ctx := context.Background()

	claimed, _, err := c.rs.ConsumeDue(ctx, consumeBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if claimed > 0 {
		log.Printf("Claimed %d due review jobs", claimed)
	}
}

// ReleaseStuck returns jobs stranded in sending by a crashed consumer to
// the queue once their claim lease has expired.
func (c *ReviewPollerJob) ReleaseStuck() {
	ctx := context.Background()

	released, err := c.rs.ReleaseStuck(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if released > 0 {
		log.Printf("Released %d stuck review jobs back to the queue", released)
	}
}
