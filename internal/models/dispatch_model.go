package models

import "time"

// DispatchFlag marks a planned post as ready to hand to the dispatch
// consumer. Independent of approval state; the join happens at read time.
type DispatchFlag struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PostKey   string    `db:"post_key" json:"post_key"`
	Ready     bool      `db:"ready" json:"ready"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
