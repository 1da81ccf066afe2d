package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

// In-memory repository fakes. They mirror the SQL semantics the services
// rely on (append-only plans, keyed upserts, the claim transition) without
// a database.

type fakePlanRepo struct {
	records []*models.PlanRecord
	nextID  int64
}

func (r *fakePlanRepo) Create(ctx context.Context, rec *models.PlanRecord) (int64, error) {
	r.nextID++
	stored := *rec
	stored.ID = r.nextID
	r.records = append(r.records, &stored)
	return stored.ID, nil
}

func (r *fakePlanRepo) Latest(ctx context.Context, userID int64) (*models.PlanRecord, bool, error) {
	var latest *models.PlanRecord
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		if latest == nil || rec.GeneratedAt.After(latest.GeneratedAt) ||
			(rec.GeneratedAt.Equal(latest.GeneratedAt) && rec.ID > latest.ID) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, false, nil
	}
	return latest, true, nil
}

type approvalKey struct {
	userID  int64
	postKey string
}

type fakeApprovalRepo struct {
	records map[approvalKey]*models.ApprovalRecord
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{records: map[approvalKey]*models.ApprovalRecord{}}
}

func (r *fakeApprovalRepo) ListByUserID(ctx context.Context, userID int64) (map[string]*models.ApprovalRecord, error) {
	out := map[string]*models.ApprovalRecord{}
	for k, rec := range r.records {
		if k.userID == userID {
			out[k.postKey] = rec
		}
	}
	return out, nil
}

func (r *fakeApprovalRepo) Upsert(ctx context.Context, rec *models.ApprovalRecord) error {
	stored := *rec
	r.records[approvalKey{rec.UserID, rec.PostKey}] = &stored
	return nil
}

type fakeDispatchRepo struct {
	flags map[approvalKey]*models.DispatchFlag
}

func newFakeDispatchRepo() *fakeDispatchRepo {
	return &fakeDispatchRepo{flags: map[approvalKey]*models.DispatchFlag{}}
}

func (r *fakeDispatchRepo) ListByUserID(ctx context.Context, userID int64) (map[string]*models.DispatchFlag, error) {
	out := map[string]*models.DispatchFlag{}
	for k, flag := range r.flags {
		if k.userID == userID {
			out[k.postKey] = flag
		}
	}
	return out, nil
}

func (r *fakeDispatchRepo) Upsert(ctx context.Context, flag *models.DispatchFlag) error {
	stored := *flag
	r.flags[approvalKey{flag.UserID, flag.PostKey}] = &stored
	return nil
}

type fakeBookingRepo struct {
	links map[string]*models.BookingLink
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{links: map[string]*models.BookingLink{}}
}

func (r *fakeBookingRepo) GetBySlug(ctx context.Context, slug string) (*models.BookingLink, bool, error) {
	link, ok := r.links[slug]
	return link, ok, nil
}

func (r *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64) (*models.BookingLink, bool, error) {
	for _, link := range r.links {
		if link.UserID == userID {
			return link, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeBookingRepo) Upsert(ctx context.Context, userID int64, slug string) error {
	for s, link := range r.links {
		if link.UserID == userID {
			delete(r.links, s)
		}
	}
	r.links[slug] = &models.BookingLink{UserID: userID, Slug: slug}
	return nil
}

type fakeSettingsRepo struct {
	settings map[int64]*models.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[int64]*models.Settings{}}
}

func (r *fakeSettingsRepo) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	s, ok := r.settings[userID]
	return s, ok, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, s *models.Settings) error {
	stored := *s
	r.settings[s.UserID] = &stored
	return nil
}

type fakeProfileRepo struct {
	profiles map[int64]*models.SalonProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[int64]*models.SalonProfile{}}
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.SalonProfile, bool, error) {
	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, profile *models.SalonProfile) error {
	stored := *profile
	r.profiles[profile.UserID] = &stored
	return nil
}

type fakeAppointmentRepo struct {
	events []*models.AppointmentEvent
	nextID int64
}

func (r *fakeAppointmentRepo) GetByExternalID(ctx context.Context, userID int64, externalID string) (*models.AppointmentEvent, bool, error) {
	for _, e := range r.events {
		if e.UserID == userID && e.ExternalEventID != nil && *e.ExternalEventID == externalID {
			return e, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, event *models.AppointmentEvent) (int64, error) {
	r.nextID++
	stored := *event
	stored.ID = r.nextID
	r.events = append(r.events, &stored)
	return stored.ID, nil
}

type fakeReviewJobRepo struct {
	jobs   map[int64]*models.ReviewJob
	nextID int64
}

func newFakeReviewJobRepo() *fakeReviewJobRepo {
	return &fakeReviewJobRepo{jobs: map[int64]*models.ReviewJob{}}
}

func (r *fakeReviewJobRepo) Create(ctx context.Context, job *models.ReviewJob) (int64, error) {
	r.nextID++
	stored := *job
	stored.ID = r.nextID
	stored.Status = models.ReviewJobQueued
	r.jobs[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeReviewJobRepo) GetByID(ctx context.Context, id int64) (*models.ReviewJob, bool, error) {
	job, ok := r.jobs[id]
	return job, ok, nil
}

func (r *fakeReviewJobRepo) due(now time.Time, limit int) []*models.ReviewJob {
	var out []*models.ReviewJob
	for _, job := range r.jobs {
		if job.Status == models.ReviewJobQueued && !job.ScheduledFor.After(now) {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].ScheduledFor.Equal(out[b].ScheduledFor) {
			return out[a].ScheduledFor.Before(out[b].ScheduledFor)
		}
		return out[a].ID < out[b].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeReviewJobRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ReviewJob, error) {
	return r.due(now, limit), nil
}

func (r *fakeReviewJobRepo) Claim(ctx context.Context, now time.Time, limit int) ([]*models.ReviewJob, error) {
	claimed := r.due(now, limit)
	claimedAt := now
	for _, job := range claimed {
		job.Status = models.ReviewJobSending
		at := claimedAt
		job.ClaimedAt = &at
	}
	return claimed, nil
}

func (r *fakeReviewJobRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	job, ok := r.jobs[id]
	if !ok || job.Status != models.ReviewJobSending {
		return nil
	}
	job.Status = models.ReviewJobSent
	at := sentAt
	job.SentAt = &at
	return nil
}

func (r *fakeReviewJobRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	job, ok := r.jobs[id]
	if !ok || job.Status != models.ReviewJobSending {
		return nil
	}
	job.Status = models.ReviewJobFailed
	msg := errMsg
	job.Error = &msg
	return nil
}

func (r *fakeReviewJobRepo) ReleaseStuck(ctx context.Context, olderThan time.Time) (int64, error) {
	var released int64
	for _, job := range r.jobs {
		if job.Status == models.ReviewJobSending && job.ClaimedAt != nil && job.ClaimedAt.Before(olderThan) {
			job.Status = models.ReviewJobQueued
			job.ClaimedAt = nil
			released++
		}
	}
	return released, nil
}

type fakeSender struct {
	sent    []*models.ReviewJob
	failMsg string
}

func (s *fakeSender) Send(ctx context.Context, job *models.ReviewJob) error {
	if s.failMsg != "" {
		return errors.New(s.failMsg)
	}
	s.sent = append(s.sent, job)
	return nil
}
