package models

import "time"

type MediaAsset struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	AssetKey    string    `db:"asset_key" json:"asset_key"`
	URL         string    `db:"url" json:"url"`
	ContentType string    `db:"content_type" json:"content_type"`
	Label       string    `db:"label" json:"label"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
