package service

import (
	"context"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type BookingService interface {
	ClaimSlug(ctx context.Context, userID int64, slug string) (*models.BookingLink, error)
	Info(ctx context.Context, userID int64) (*models.BookingLink, error)
	ResolveSlug(ctx context.Context, slug string) (string, error)
}

type bookingService struct {
	br repository.BookingRepository
	sr repository.SettingsRepository
}

func NewBookingService(br repository.BookingRepository, sr repository.SettingsRepository) BookingService {
	return &bookingService{
		br: br,
		sr: sr,
	}
}

// ClaimSlug reserves a public booking slug for the user. A slug already
// owned by a different user is a conflict, not a validation failure, so
// the UI can offer "choose another". Re-saving one's own slug succeeds.
func (s *bookingService) ClaimSlug(ctx context.Context, userID int64, slug string) (*models.BookingLink, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	err := validation.Validate(slug,
		validation.Required,
		validation.Length(3, 40),
		validation.Match(slugRe),
	)
	if err != nil {
		return nil, apperror.ValidationError("slug must be 3-40 lowercase letters, digits or hyphens")
	}

	existing, isExist, err := s.br.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if isExist && existing.UserID != userID {
		return nil, apperror.ConflictError("slug is already taken")
	}

	if err := s.br.Upsert(ctx, userID, slug); err != nil {
		return nil, err
	}

	return &models.BookingLink{UserID: userID, Slug: slug}, nil
}

func (s *bookingService) Info(ctx context.Context, userID int64) (*models.BookingLink, error) {
	link, isExist, err := s.br.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, apperror.NotFoundError("no booking link for this user")
	}
	return link, nil
}

// ResolveSlug maps a public slug to the owner's booking URL for the
// redirect page.
func (s *bookingService) ResolveSlug(ctx context.Context, slug string) (string, error) {
	link, isExist, err := s.br.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return "", err
	}
	if !isExist {
		return "", apperror.NotFoundError("unknown booking link")
	}

	settings, isExist, err := s.sr.GetByUserID(ctx, link.UserID)
	if err != nil {
		return "", err
	}
	if !isExist || settings.BookingURL == "" {
		return "", apperror.NotFoundError("no booking page configured")
	}

	return settings.BookingURL, nil
}
