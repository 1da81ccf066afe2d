package service

import (
	"context"
	"math"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

const (
	defaultReviewDelayMinutes = 120
	maxReviewDelayMinutes     = 10080 // one week
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, req *transfer.SettingsUpdate) (*models.Settings, error)
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

// GetSettingsInfo returns stored settings, or the documented defaults when
// the user has never saved any.
func (s *settingsService) GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return &models.Settings{
			UserID:                 userID,
			ReviewSendDelayMinutes: defaultReviewDelayMinutes,
			ReviewChannel:          models.ReviewChannelEmail,
		}, nil
	}

	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, req *transfer.SettingsUpdate) (*models.Settings, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ReviewChannel, validation.Required, validation.In(models.ReviewChannelEmail, models.ReviewChannelSMS)),
		validation.Field(&req.BookingURL, validation.Length(0, 2048)),
	)
	if err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	settings := &models.Settings{
		UserID:                 userID,
		ReviewSendDelayMinutes: clampDelayMinutes(req.ReviewSendDelayMinutes),
		ReviewChannel:          req.ReviewChannel,
		BookingURL:             req.BookingURL,
	}

	if err := s.sr.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// clampDelayMinutes coerces whatever the client sent into [0, 10080].
// Anything that is not a finite number falls back to the 120 minute
// default; this is an intentional cosmetic default, not error masking.
func clampDelayMinutes(raw interface{}) int {
	var mins float64

	switch v := raw.(type) {
	case float64:
		mins = v
	case int:
		mins = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return defaultReviewDelayMinutes
		}
		mins = parsed
	default:
		return defaultReviewDelayMinutes
	}

	if math.IsNaN(mins) || math.IsInf(mins, 0) {
		return defaultReviewDelayMinutes
	}
	if mins < 0 {
		return 0
	}
	if mins > maxReviewDelayMinutes {
		return maxReviewDelayMinutes
	}
	return int(mins)
}
