package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/internal/queue"
)

type reviewFixture struct {
	br  *fakeBookingRepo
	ar  *fakeAppointmentRepo
	rr  *fakeReviewJobRepo
	sr  *fakeSettingsRepo
	pp  *fakeProfileRepo
	snd *fakeSender
	svc ReviewService
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	f := &reviewFixture{
		br:  newFakeBookingRepo(),
		ar:  &fakeAppointmentRepo{},
		rr:  newFakeReviewJobRepo(),
		sr:  newFakeSettingsRepo(),
		pp:  newFakeProfileRepo(),
		snd: &fakeSender{},
	}
	require.NoError(t, f.br.Upsert(context.Background(), 1, "glow-studio"))

	// nil asynq client: claimed jobs are delivered inline through the queue.
	f.svc = NewReviewService(f.br, f.ar, f.rr, f.sr, f.pp, nil, queue.NewQueue(f.rr, f.snd))
	return f
}

func TestIngestAppointment_QueuesEmailJob(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sr.Upsert(ctx, &models.Settings{
		UserID:                 1,
		ReviewSendDelayMinutes: 30,
		ReviewChannel:          models.ReviewChannelEmail,
	}))

	before := time.Now()
	res, err := f.svc.IngestAppointment(ctx, "glow-studio", []byte(`{
		"external_event_id": "evt-1",
		"customer_name": "Sam",
		"customer_email": "sam@example.com"
	}`))
	require.NoError(t, err)

	assert.True(t, res.Queued)
	require.NotZero(t, res.JobID)

	job, ok, err := f.rr.GetByID(ctx, res.JobID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.ReviewJobQueued, job.Status)
	assert.Equal(t, models.ReviewChannelEmail, job.Channel)
	require.NotNil(t, job.ToEmail)
	assert.Equal(t, "sam@example.com", *job.ToEmail)
	assert.Contains(t, job.Message, "Sam")

	// Scheduled roughly delay minutes from now.
	assert.WithinDuration(t, before.Add(30*time.Minute), job.ScheduledFor, 5*time.Second)

	require.Len(t, f.ar.events, 1)
}

func TestIngestAppointment_DefaultsWithoutSettings(t *testing.T) {
	f := newReviewFixture(t)

	before := time.Now()
	res, err := f.svc.IngestAppointment(context.Background(), "glow-studio",
		[]byte(`{"id":"evt-2","email":"sam@example.com"}`))
	require.NoError(t, err)
	require.True(t, res.Queued)

	job, ok, _ := f.rr.GetByID(context.Background(), res.JobID)
	require.True(t, ok)
	assert.Equal(t, models.ReviewChannelEmail, job.Channel)
	assert.WithinDuration(t, before.Add(120*time.Minute), job.ScheduledFor, 5*time.Second)
}

func TestIngestAppointment_AlternateFieldNames(t *testing.T) {
	f := newReviewFixture(t)

	res, err := f.svc.IngestAppointment(context.Background(), "glow-studio", []byte(`{
		"bookingId": "bk-77",
		"client_name": "Priya",
		"client_email": "priya@example.com",
		"ends_at": "2026-03-02T16:00:00Z"
	}`))
	require.NoError(t, err)
	require.True(t, res.Queued)

	require.Len(t, f.ar.events, 1)
	event := f.ar.events[0]
	require.NotNil(t, event.ExternalEventID)
	assert.Equal(t, "bk-77", *event.ExternalEventID)
	require.NotNil(t, event.AppointmentEnd)
	assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC), event.AppointmentEnd.UTC())
}

func TestIngestAppointment_DuplicateEvent(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	payload := []byte(`{"external_event_id":"evt-1","customer_email":"sam@example.com"}`)

	res, err := f.svc.IngestAppointment(ctx, "glow-studio", payload)
	require.NoError(t, err)
	require.True(t, res.Queued)

	res, err = f.svc.IngestAppointment(ctx, "glow-studio", payload)
	require.NoError(t, err)
	assert.False(t, res.Queued)
	assert.Equal(t, "duplicate_event", res.Reason)

	assert.Len(t, f.ar.events, 1)
	assert.Len(t, f.rr.jobs, 1)
}

func TestIngestAppointment_MissingRecipientForChannel(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	t.Run("email channel without email", func(t *testing.T) {
		res, err := f.svc.IngestAppointment(ctx, "glow-studio",
			[]byte(`{"id":"evt-a","customer_phone":"+447700900000"}`))
		require.NoError(t, err)
		assert.False(t, res.Queued)
		assert.Equal(t, "no_email", res.Reason)
	})

	require.NoError(t, f.sr.Upsert(ctx, &models.Settings{
		UserID:        1,
		ReviewChannel: models.ReviewChannelSMS,
	}))

	t.Run("sms channel without phone", func(t *testing.T) {
		res, err := f.svc.IngestAppointment(ctx, "glow-studio",
			[]byte(`{"id":"evt-b","customer_email":"sam@example.com"}`))
		require.NoError(t, err)
		assert.False(t, res.Queued)
		assert.Equal(t, "no_phone", res.Reason)
	})

	t.Run("sms channel with phone queues", func(t *testing.T) {
		res, err := f.svc.IngestAppointment(ctx, "glow-studio",
			[]byte(`{"id":"evt-c","customer_phone":"+447700900000"}`))
		require.NoError(t, err)
		require.True(t, res.Queued)

		job, ok, _ := f.rr.GetByID(ctx, res.JobID)
		require.True(t, ok)
		require.NotNil(t, job.ToPhone)
		assert.Equal(t, "+447700900000", *job.ToPhone)
	})
}

func TestIngestAppointment_UnknownSlug(t *testing.T) {
	f := newReviewFixture(t)
	_, err := f.svc.IngestAppointment(context.Background(), "nobody", []byte(`{}`))
	assert.Error(t, err)
}

func TestIngestAppointment_BadPayload(t *testing.T) {
	f := newReviewFixture(t)
	_, err := f.svc.IngestAppointment(context.Background(), "glow-studio", []byte(`[1,2]`))
	assert.Error(t, err)
}

func TestIngestAppointment_MessageMentionsSalon(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	require.NoError(t, f.pp.Upsert(ctx, &models.SalonProfile{UserID: 1, SalonName: "Glow Studio"}))

	res, err := f.svc.IngestAppointment(ctx, "glow-studio",
		[]byte(`{"id":"evt-m","customer_email":"sam@example.com"}`))
	require.NoError(t, err)
	require.True(t, res.Queued)

	job, ok, _ := f.rr.GetByID(ctx, res.JobID)
	require.True(t, ok)
	assert.Contains(t, job.Message, "Glow Studio")
}

func queueTestJob(t *testing.T, f *reviewFixture, scheduledFor time.Time) int64 {
	t.Helper()
	email := "sam@example.com"
	id, err := f.rr.Create(context.Background(), &models.ReviewJob{
		UserID:       1,
		Channel:      models.ReviewChannelEmail,
		ToEmail:      &email,
		Message:      "thanks for coming in",
		ScheduledFor: scheduledFor,
	})
	require.NoError(t, err)
	return id
}

func TestListDue_OnlyPastQueuedJobs(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	dueID := queueTestJob(t, f, time.Now().Add(-time.Minute))
	queueTestJob(t, f, time.Now().Add(time.Hour))

	jobs, err := f.svc.ListDue(ctx, 0)
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, dueID, jobs[0].ID)
	assert.Equal(t, models.ReviewJobQueued, jobs[0].Status)
}

func TestConsumeDue_DeliversAndSettles(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	dueID := queueTestJob(t, f, time.Now().Add(-time.Minute))
	futureID := queueTestJob(t, f, time.Now().Add(time.Hour))

	n, jobs, err := f.svc.ConsumeDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, jobs, 1)

	sent, ok, _ := f.rr.GetByID(ctx, dueID)
	require.True(t, ok)
	assert.Equal(t, models.ReviewJobSent, sent.Status)
	assert.NotNil(t, sent.SentAt)
	require.Len(t, f.snd.sent, 1)

	future, ok, _ := f.rr.GetByID(ctx, futureID)
	require.True(t, ok)
	assert.Equal(t, models.ReviewJobQueued, future.Status)

	// A second consume finds nothing: the claim moved the job out of queued.
	n, _, err = f.svc.ConsumeDue(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConsumeDue_ProviderFailureMarksFailed(t *testing.T) {
	f := newReviewFixture(t)
	f.snd.failMsg = "smtp connection refused"
	ctx := context.Background()

	dueID := queueTestJob(t, f, time.Now().Add(-time.Minute))

	n, _, err := f.svc.ConsumeDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	job, ok, _ := f.rr.GetByID(ctx, dueID)
	require.True(t, ok)
	assert.Equal(t, models.ReviewJobFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "smtp connection refused", *job.Error)
}

func TestConsumeDue_RespectsLimit(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		queueTestJob(t, f, time.Now().Add(-time.Minute))
	}

	n, _, err := f.svc.ConsumeDue(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReleaseStuck_ReturnsExpiredClaims(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	staleID := queueTestJob(t, f, time.Now().Add(-time.Hour))
	freshID := queueTestJob(t, f, time.Now().Add(-time.Hour))

	stale := f.rr.jobs[staleID]
	stale.Status = models.ReviewJobSending
	staleClaim := time.Now().Add(-20 * time.Minute)
	stale.ClaimedAt = &staleClaim

	fresh := f.rr.jobs[freshID]
	fresh.Status = models.ReviewJobSending
	freshClaim := time.Now().Add(-time.Minute)
	fresh.ClaimedAt = &freshClaim

	released, err := f.svc.ReleaseStuck(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, released)

	assert.Equal(t, models.ReviewJobQueued, f.rr.jobs[staleID].Status)
	assert.Equal(t, models.ReviewJobSending, f.rr.jobs[freshID].Status)
}
