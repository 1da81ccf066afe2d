package models

import "time"

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// ApprovalRecord holds the last human decision for one planned post,
// keyed by the derived post key. Absence of a row means pending.
type ApprovalRecord struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	PostKey      string     `db:"post_key" json:"post_key"`
	Status       string     `db:"status" json:"status"`
	RejectReason *string    `db:"reject_reason" json:"reject_reason,omitempty"`
	DecidedAt    *time.Time `db:"decided_at" json:"decided_at,omitempty"`
}
