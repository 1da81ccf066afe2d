package models

import (
	"encoding/json"
	"time"
)

type AppointmentEvent struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	ExternalEventID *string         `db:"external_event_id" json:"external_event_id,omitempty"`
	CustomerName    *string         `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail   *string         `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone   *string         `db:"customer_phone" json:"customer_phone,omitempty"`
	AppointmentEnd  *time.Time      `db:"appointment_end" json:"appointment_end,omitempty"`
	Payload         json.RawMessage `db:"payload" json:"payload"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
