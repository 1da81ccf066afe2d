package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func EnqueueDeliverReview(asynqClient *asynq.Client, jobID int64) error {
	taskPayload, err := json.Marshal(DeliverReviewPayload{JobID: jobID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeDeliverReview, taskPayload)

	_, err = asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	log.Printf("Review delivery task queued: job %d", jobID)
	return nil
}
