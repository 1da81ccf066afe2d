package models

import (
	"encoding/json"
	"time"
)

// Closed enum values for generated posts. The validator rejects anything
// outside these sets.
const (
	PostSourcePriority  = "priority"
	PostSourceScheduled = "scheduled"

	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"

	FormatPost  = "post"
	FormatReel  = "reel"
	FormatStory = "story"
)

type Plan struct {
	HorizonStartDate string    `json:"horizonStartDate"`
	HorizonEndDate   string    `json:"horizonEndDate"`
	Days             []PlanDay `json:"days"`
}

type PlanDay struct {
	Date  string     `json:"date"`
	Posts []PlanPost `json:"posts"`
}

type PlanPost struct {
	Source             string   `json:"source"`
	Platform           string   `json:"platform"`
	Format             string   `json:"format"`
	SuggestedTimeLocal string   `json:"suggestedTimeLocal"`
	Caption            string   `json:"caption"`
	Hashtags           []string `json:"hashtags"`
	MediaInstructions  string   `json:"mediaInstructions"`
	ApprovalRequired   bool     `json:"approvalRequired"`
	ApprovalReason     string   `json:"approvalReason"`
}

// PlanRecord is one stored generation. Plans are append-only: a
// regeneration inserts a new row and the latest generated_at wins.
type PlanRecord struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Model       string          `db:"model" json:"model"`
	GeneratedAt time.Time       `db:"generated_at" json:"generated_at"`
}
