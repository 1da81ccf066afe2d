package models

import "time"

const (
	ReviewChannelEmail = "email"
	ReviewChannelSMS   = "sms"
)

type Settings struct {
	ID                     int64     `db:"id" json:"id"`
	UserID                 int64     `db:"user_id" json:"user_id"`
	ReviewSendDelayMinutes int       `db:"review_send_delay_minutes" json:"review_send_delay_minutes"`
	ReviewChannel          string    `db:"review_channel" json:"review_channel"`
	BookingURL             string    `db:"booking_url" json:"booking_url"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
