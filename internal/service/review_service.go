package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/queue"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

// How long a claim may sit in sending before the reaper hands it back.
const claimLease = 10 * time.Minute

type ReviewService interface {
	IngestAppointment(ctx context.Context, slug string, payload []byte) (*transfer.WebhookResult, error)
	ListDue(ctx context.Context, limit int) ([]*models.ReviewJob, error)
	ConsumeDue(ctx context.Context, limit int) (int, []*models.ReviewJob, error)
	ReleaseStuck(ctx context.Context) (int64, error)
}

type reviewService struct {
	br        repository.BookingRepository
	ar        repository.AppointmentRepository
	rr        repository.ReviewJobRepository
	sr        repository.SettingsRepository
	pp        repository.ProfileRepository
	client    *asynq.Client
	deliverer *queue.Queue
}

// client may be nil, in which case claimed jobs are delivered inline
// instead of being handed to the asynq worker.
func NewReviewService(
	br repository.BookingRepository,
	ar repository.AppointmentRepository,
	rr repository.ReviewJobRepository,
	sr repository.SettingsRepository,
	pp repository.ProfileRepository,
	client *asynq.Client,
	deliverer *queue.Queue) ReviewService {
	return &reviewService{
		br:        br,
		ar:        ar,
		rr:        rr,
		sr:        sr,
		pp:        pp,
		client:    client,
		deliverer: deliverer,
	}
}

// IngestAppointment turns one inbound appointment webhook into at most one
// stored event and one queued review job. Skips (duplicate event, no
// reachable recipient for the configured channel) are reported as reason
// codes, not errors.
func (s *reviewService) IngestAppointment(ctx context.Context, slug string, payload []byte) (*transfer.WebhookResult, error) {
	link, isExist, err := s.br.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, apperror.NotFoundError("unknown booking link")
	}
	userID := link.UserID

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, apperror.ValidationError("webhook payload is not a JSON object")
	}

	// Source systems disagree on field names; take the first present,
	// non-empty value in priority order.
	externalID := firstString(fields, "external_event_id", "eventId", "id", "bookingId")
	name := firstString(fields, "customer_name", "name", "client_name")
	email := firstString(fields, "customer_email", "email", "client_email")
	phone := firstString(fields, "customer_phone", "phone", "client_phone")
	endRaw := firstString(fields, "appointment_end", "end_time", "end", "ends_at")

	if externalID != "" {
		_, isDup, err := s.ar.GetByExternalID(ctx, userID, externalID)
		if err != nil {
			return nil, err
		}
		if isDup {
			return &transfer.WebhookResult{Queued: false, Reason: "duplicate_event"}, nil
		}
	}

	event := &models.AppointmentEvent{
		UserID:  userID,
		Payload: payload,
	}
	if externalID != "" {
		event.ExternalEventID = &externalID
	}
	if name != "" {
		event.CustomerName = &name
	}
	if email != "" {
		event.CustomerEmail = &email
	}
	if phone != "" {
		event.CustomerPhone = &phone
	}
	if endRaw != "" {
		if parsed, err := time.Parse(time.RFC3339, endRaw); err == nil {
			event.AppointmentEnd = &parsed
		}
	}

	eventID, err := s.ar.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	channel := models.ReviewChannelEmail
	delayMinutes := defaultReviewDelayMinutes
	if isExist {
		channel = settings.ReviewChannel
		delayMinutes = settings.ReviewSendDelayMinutes
	}

	job := &models.ReviewJob{
		UserID:             userID,
		AppointmentEventID: eventID,
		Channel:            channel,
		ScheduledFor:       time.Now().Add(time.Duration(delayMinutes) * time.Minute),
	}

	switch channel {
	case models.ReviewChannelEmail:
		if email == "" {
			return &transfer.WebhookResult{Queued: false, Reason: "no_email"}, nil
		}
		job.ToEmail = &email
	case models.ReviewChannelSMS:
		if phone == "" {
			return &transfer.WebhookResult{Queued: false, Reason: "no_phone"}, nil
		}
		job.ToPhone = &phone
	default:
		return &transfer.WebhookResult{Queued: false, Reason: "no_channel"}, nil
	}

	job.Message = s.buildReviewMessage(ctx, userID, name)

	jobID, err := s.rr.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	return &transfer.WebhookResult{Queued: true, JobID: jobID}, nil
}

func (s *reviewService) buildReviewMessage(ctx context.Context, userID int64, customerName string) string {
	salon := "us"
	if profile, ok, err := s.pp.GetByUserID(ctx, userID); err == nil && ok && profile.SalonName != "" {
		salon = profile.SalonName
	}
	greeting := "Hi"
	if customerName != "" {
		greeting = "Hi " + customerName
	}
	return fmt.Sprintf("%s, thanks for visiting %s today! We'd love to hear how it went - would you leave us a quick review?", greeting, salon)
}

func (s *reviewService) ListDue(ctx context.Context, limit int) ([]*models.ReviewJob, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.rr.ListDue(ctx, time.Now(), limit)
}

// ConsumeDue claims up to limit due jobs and hands each to the delivery
// pipeline. The claim is the atomic step: overlapping consumers get
// disjoint jobs.
func (s *reviewService) ConsumeDue(ctx context.Context, limit int) (int, []*models.ReviewJob, error) {
	if limit <= 0 {
		limit = 50
	}

	jobs, err := s.rr.Claim(ctx, time.Now(), limit)
	if err != nil {
		return 0, nil, err
	}

	for _, job := range jobs {
		if s.client != nil {
			if err := queue.EnqueueDeliverReview(s.client, job.ID); err != nil {
				slog.Info(err.Error())
			}
			continue
		}
		if err := s.deliverer.Deliver(ctx, job.ID); err != nil {
			slog.Info(err.Error())
		}
	}

	return len(jobs), jobs, nil
}

func (s *reviewService) ReleaseStuck(ctx context.Context) (int64, error) {
	return s.rr.ReleaseStuck(ctx, time.Now().Add(-claimLease))
}
