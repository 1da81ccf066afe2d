package transfer

// WebhookResult tells the caller whether a review job was queued and, when
// it was not, a machine-readable reason (duplicate_event, no_email,
// no_phone). Skips are not errors.
type WebhookResult struct {
	Queued bool   `json:"queued"`
	Reason string `json:"reason,omitempty"`
	JobID  int64  `json:"job_id,omitempty"`
}
