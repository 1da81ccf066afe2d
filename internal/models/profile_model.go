package models

import "time"

// SalonProfile holds the onboarding answers that feed the plan prompt.
type SalonProfile struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	SalonName       string    `db:"salon_name" json:"salon_name"`
	City            string    `db:"city" json:"city"`
	Timezone        string    `db:"timezone" json:"timezone"`
	BrandVoice      string    `db:"brand_voice" json:"brand_voice"`
	ServicesText    string    `db:"services_text" json:"services_text"`
	InstagramHandle string    `db:"instagram_handle" json:"instagram_handle"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
