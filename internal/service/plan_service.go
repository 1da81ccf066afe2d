package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
	"github.com/flowpilotuk-hash/flowpilot/pkg/planutil"
)

type PlanService interface {
	SavePlan(ctx context.Context, userID int64, req *transfer.PlanSave) (*models.PlanRecord, error)
	LatestPlan(ctx context.Context, userID int64) (*models.PlanRecord, error)
}

type planService struct {
	pr repository.PlanRepository
}

func NewPlanService(pr repository.PlanRepository) PlanService {
	return &planService{
		pr: pr,
	}
}

// SavePlan validates a submitted plan payload and appends it as the new
// latest generation. The stored payload is the re-marshalled validated
// plan, never the raw client bytes.
func (s *planService) SavePlan(ctx context.Context, userID int64, req *transfer.PlanSave) (*models.PlanRecord, error) {
	if len(req.Plan) == 0 {
		return nil, apperror.ValidationError("plan payload is required")
	}

	plan, err := planutil.ValidatePlan(req.Plan)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}

	generatedAt := time.Now()
	if req.GeneratedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, req.GeneratedAt); err == nil {
			generatedAt = parsed
		}
	}

	rec := &models.PlanRecord{
		UserID:      userID,
		Payload:     payload,
		Model:       req.Model,
		GeneratedAt: generatedAt,
	}

	id, err := s.pr.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	return rec, nil
}

func (s *planService) LatestPlan(ctx context.Context, userID int64) (*models.PlanRecord, error) {
	rec, isExist, err := s.pr.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, apperror.NotFoundError("no plan generated yet")
	}
	return rec, nil
}
