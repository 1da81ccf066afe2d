package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
	"github.com/flowpilotuk-hash/flowpilot/pkg/planutil"
)

type DispatchService interface {
	List(ctx context.Context, userID int64) (map[string]*models.DispatchFlag, error)
	Set(ctx context.Context, userID int64, req *transfer.DispatchSet) (*models.DispatchFlag, error)
	Resolve(ctx context.Context, userID int64) (*transfer.DispatchReadyResponse, error)
}

type dispatchService struct {
	pr repository.PlanRepository
	ar repository.ApprovalRepository
	dr repository.DispatchRepository
}

func NewDispatchService(pr repository.PlanRepository, ar repository.ApprovalRepository, dr repository.DispatchRepository) DispatchService {
	return &dispatchService{
		pr: pr,
		ar: ar,
		dr: dr,
	}
}

func (s *dispatchService) List(ctx context.Context, userID int64) (map[string]*models.DispatchFlag, error) {
	return s.dr.ListByUserID(ctx, userID)
}

// Set records dispatch intent only. Approval state is deliberately not
// checked here: the gate lives in Resolve, so an operator can mark a post
// finished before or after the approval decision lands.
func (s *dispatchService) Set(ctx context.Context, userID int64, req *transfer.DispatchSet) (*models.DispatchFlag, error) {
	if req.PostKey == "" {
		return nil, apperror.ValidationError("post_key is required")
	}

	flag := &models.DispatchFlag{
		UserID:    userID,
		PostKey:   req.PostKey,
		Ready:     req.Ready,
		UpdatedAt: time.Now(),
	}

	if err := s.dr.Upsert(ctx, flag); err != nil {
		return nil, err
	}

	return flag, nil
}

// Resolve joins the latest plan against dispatch flags and approvals and
// returns the posts that may actually go out. Two invariants hold for
// every returned post: it was explicitly marked ready, and if it requires
// approval there is an approved record for its key.
func (s *dispatchService) Resolve(ctx context.Context, userID int64) (*transfer.DispatchReadyResponse, error) {
	resp := &transfer.DispatchReadyResponse{Items: []transfer.DispatchablePost{}}

	rec, isExist, err := s.pr.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		resp.Meta.Reason = "no_plan_found"
		return resp, nil
	}

	// A stored plan that no longer validates is fatal for this call; the
	// caller must regenerate. No partial recovery.
	plan, err := planutil.ValidatePlan(rec.Payload)
	if err != nil {
		slog.Error("stored plan failed structural validation", "user_id", userID, "plan_id", rec.ID)
		return nil, apperror.ValidationError("stored plan is invalid; regenerate the plan")
	}

	resp.Meta.Model = rec.Model
	resp.Meta.GeneratedAt = rec.GeneratedAt

	flags, err := s.dr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ready := make(map[string]bool, len(flags))
	for key, flag := range flags {
		if flag.Ready {
			ready[key] = true
		}
	}
	resp.Meta.ReadyCount = len(ready)

	// Nothing marked ready: approvals are irrelevant, skip the fetch.
	if len(ready) == 0 {
		return resp, nil
	}

	approvals, err := s.ar.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, day := range plan.Days {
		for i, post := range day.Posts {
			key := planutil.DeriveKey(day.Date, i, post)
			if !ready[key] {
				continue
			}
			if post.ApprovalRequired {
				approval, ok := approvals[key]
				if !ok || approval.Status != models.ApprovalStatusApproved {
					continue
				}
			}
			resp.Items = append(resp.Items, transfer.DispatchablePost{
				PostKey:  key,
				Date:     day.Date,
				PlanPost: post,
			})
		}
	}

	// Dates and times are zero-padded fixed width, so plain string
	// comparison sorts chronologically.
	sort.SliceStable(resp.Items, func(a, b int) bool {
		if resp.Items[a].Date != resp.Items[b].Date {
			return resp.Items[a].Date < resp.Items[b].Date
		}
		return resp.Items[a].SuggestedTimeLocal < resp.Items[b].SuggestedTimeLocal
	})

	resp.Meta.ReturnedCount = len(resp.Items)
	return resp, nil
}
