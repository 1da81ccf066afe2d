package models

import "time"

// Review job lifecycle: queued -> sending (claimed) -> sent | failed.
// A stuck "sending" row is returned to queued by the reaper once its
// lease expires.
const (
	ReviewJobQueued  = "queued"
	ReviewJobSending = "sending"
	ReviewJobSent    = "sent"
	ReviewJobFailed  = "failed"
)

type ReviewJob struct {
	ID                 int64      `db:"id" json:"id"`
	UserID             int64      `db:"user_id" json:"user_id"`
	AppointmentEventID int64      `db:"appointment_event_id" json:"appointment_event_id"`
	Channel            string     `db:"channel" json:"channel"`
	ToEmail            *string    `db:"to_email" json:"to_email,omitempty"`
	ToPhone            *string    `db:"to_phone" json:"to_phone,omitempty"`
	Message            string     `db:"message" json:"message"`
	ScheduledFor       time.Time  `db:"scheduled_for" json:"scheduled_for"`
	Status             string     `db:"status" json:"status"`
	ClaimedAt          *time.Time `db:"claimed_at" json:"claimed_at,omitempty"`
	SentAt             *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	Error              *string    `db:"error" json:"error,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}
