package service

import (
	"context"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

type ApprovalService interface {
	List(ctx context.Context, userID int64) (map[string]*models.ApprovalRecord, error)
	Set(ctx context.Context, userID int64, req *transfer.ApprovalSet) (*models.ApprovalRecord, error)
}

type approvalService struct {
	ar repository.ApprovalRepository
}

func NewApprovalService(ar repository.ApprovalRepository) ApprovalService {
	return &approvalService{
		ar: ar,
	}
}

func (s *approvalService) List(ctx context.Context, userID int64) (map[string]*models.ApprovalRecord, error) {
	return s.ar.ListByUserID(ctx, userID)
}

// Set upserts the decision for one post key. Decision metadata is
// normalized here, not in the repository: pending clears decided_at and
// the reject reason, and a reason submitted alongside approved or pending
// is dropped rather than merged.
func (s *approvalService) Set(ctx context.Context, userID int64, req *transfer.ApprovalSet) (*models.ApprovalRecord, error) {
	if req.PostKey == "" {
		return nil, apperror.ValidationError("post_key is required")
	}

	rec := &models.ApprovalRecord{
		UserID:  userID,
		PostKey: req.PostKey,
		Status:  req.Status,
	}

	switch req.Status {
	case models.ApprovalStatusPending:
		// absence of a decision: no timestamp, no reason

	case models.ApprovalStatusApproved:
		decidedAt := decidedAtOrNow(req.DecidedAt)
		rec.DecidedAt = &decidedAt

	case models.ApprovalStatusRejected:
		decidedAt := decidedAtOrNow(req.DecidedAt)
		rec.DecidedAt = &decidedAt
		if req.RejectReason != "" {
			reason := req.RejectReason
			rec.RejectReason = &reason
		}

	default:
		return nil, apperror.ValidationError("status must be pending, approved or rejected")
	}

	if err := s.ar.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func decidedAtOrNow(raw string) time.Time {
	if raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed
		}
	}
	return time.Now()
}
