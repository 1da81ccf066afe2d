package models

import "time"

// BookingLink maps a public slug to a user. Slugs are unique across users;
// claiming one owned by somebody else is a conflict.
type BookingLink struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
