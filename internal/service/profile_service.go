package service

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.SalonProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req *transfer.ProfileUpdate) (*models.SalonProfile, error)
}

type profileService struct {
	pr repository.ProfileRepository
}

func NewProfileService(pr repository.ProfileRepository) ProfileService {
	return &profileService{
		pr: pr,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.SalonProfile, error) {
	profile, isExist, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, apperror.NotFoundError("no salon profile for this user")
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int64, req *transfer.ProfileUpdate) (*models.SalonProfile, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.SalonName, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Timezone, validation.Length(0, 64)),
		validation.Field(&req.BrandVoice, validation.Length(0, 2000)),
		validation.Field(&req.ServicesText, validation.Length(0, 4000)),
	)
	if err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	profile := &models.SalonProfile{
		UserID:          userID,
		SalonName:       req.SalonName,
		City:            req.City,
		Timezone:        req.Timezone,
		BrandVoice:      req.BrandVoice,
		ServicesText:    req.ServicesText,
		InstagramHandle: req.InstagramHandle,
	}

	if err := s.pr.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
