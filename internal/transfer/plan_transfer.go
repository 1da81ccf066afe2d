package transfer

import (
	"encoding/json"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

type PlanSave struct {
	Plan        json.RawMessage `json:"plan"`
	Model       string          `json:"model"`
	GeneratedAt string          `json:"generated_at"`
}

type ApprovalSet struct {
	PostKey      string `json:"post_key"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason"`
	DecidedAt    string `json:"decided_at"`
}

type DispatchSet struct {
	PostKey string `json:"post_key"`
	Ready   bool   `json:"ready"`
}

// DispatchablePost is one plan post that survived the readiness join,
// carrying its derived key and the calendar date of its day.
type DispatchablePost struct {
	PostKey string `json:"post_key"`
	Date    string `json:"date"`
	models.PlanPost
}

type DispatchReadyMeta struct {
	Model         string    `json:"model,omitempty"`
	GeneratedAt   time.Time `json:"generated_at,omitempty"`
	ReadyCount    int       `json:"ready_count"`
	ReturnedCount int       `json:"returned_count"`
	Reason        string    `json:"reason,omitempty"`
}

type DispatchReadyResponse struct {
	Items []DispatchablePost `json:"items"`
	Meta  DispatchReadyMeta  `json:"meta"`
}
