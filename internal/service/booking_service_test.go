package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

func TestClaimSlug_ClaimAndResave(t *testing.T) {
	br := newFakeBookingRepo()
	svc := NewBookingService(br, newFakeSettingsRepo())
	ctx := context.Background()

	link, err := svc.ClaimSlug(ctx, 1, "glow-studio")
	require.NoError(t, err)
	assert.Equal(t, "glow-studio", link.Slug)

	// Re-saving one's own slug is not a conflict.
	_, err = svc.ClaimSlug(ctx, 1, "glow-studio")
	assert.NoError(t, err)
}

func TestClaimSlug_TakenByAnotherUser(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeSettingsRepo())
	ctx := context.Background()

	_, err := svc.ClaimSlug(ctx, 1, "glow-studio")
	require.NoError(t, err)

	_, err = svc.ClaimSlug(ctx, 2, "glow-studio")
	require.Error(t, err)

	var coded apperror.Coded
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, "CONFLICT", coded.ErrCode())
}

func TestClaimSlug_NormalizesCaseAndWhitespace(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeSettingsRepo())

	link, err := svc.ClaimSlug(context.Background(), 1, "  Glow-Studio ")
	require.NoError(t, err)
	assert.Equal(t, "glow-studio", link.Slug)
}

func TestClaimSlug_InvalidSlugs(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeSettingsRepo())
	ctx := context.Background()

	for _, slug := range []string{"", "ab", "-leading-hyphen", "has space", "emoji💇", "under_score"} {
		_, err := svc.ClaimSlug(ctx, 1, slug)
		assert.Error(t, err, "slug %q should be rejected", slug)
	}
}

func TestResolveSlug(t *testing.T) {
	br := newFakeBookingRepo()
	sr := newFakeSettingsRepo()
	svc := NewBookingService(br, sr)
	ctx := context.Background()

	_, err := svc.ClaimSlug(ctx, 1, "glow-studio")
	require.NoError(t, err)

	t.Run("no booking url configured", func(t *testing.T) {
		_, err := svc.ResolveSlug(ctx, "glow-studio")
		assert.Error(t, err)
	})

	require.NoError(t, sr.Upsert(ctx, &models.Settings{
		UserID:        1,
		ReviewChannel: models.ReviewChannelEmail,
		BookingURL:    "https://book.example.com/glow",
	}))

	t.Run("resolves to owner booking url", func(t *testing.T) {
		url, err := svc.ResolveSlug(ctx, "glow-studio")
		require.NoError(t, err)
		assert.Equal(t, "https://book.example.com/glow", url)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := svc.ResolveSlug(ctx, "nobody-here")
		assert.Error(t, err)
	})
}

func TestBookingInfo_NotClaimed(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeSettingsRepo())
	_, err := svc.Info(context.Background(), 99)
	assert.Error(t, err)
}
