package planutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

func samplePost() models.PlanPost {
	return models.PlanPost{
		Source:             models.PostSourceScheduled,
		Platform:           models.PlatformInstagram,
		Format:             models.FormatPost,
		SuggestedTimeLocal: "10:30",
		Caption:            "Fresh balayage for the weekend",
		Hashtags:           []string{"#balayage"},
		MediaInstructions:  "Before/after photo in the chair",
		ApprovalRequired:   false,
		ApprovalReason:     "",
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	post := samplePost()

	a := DeriveKey("2026-03-02", 0, post)
	b := DeriveKey("2026-03-02", 0, post)
	require.Equal(t, a, b)

	assert.Equal(t, "v1|2026-03-02|0|instagram|post|10:30|Fresh balayage for the weekend|Before/after photo in the chair", a)
}

func TestDeriveKey_VersionPrefix(t *testing.T) {
	key := DeriveKey("2026-03-02", 0, samplePost())
	assert.True(t, strings.HasPrefix(key, "v1|"))
}

func TestDeriveKey_IndexDistinguishesSiblings(t *testing.T) {
	post := samplePost()
	assert.NotEqual(t,
		DeriveKey("2026-03-02", 0, post),
		DeriveKey("2026-03-02", 1, post),
	)
}

func TestDeriveKey_SnippetTruncatesAtEightyRunes(t *testing.T) {
	// Multi-byte runes so byte-based truncation would give a different answer.
	long := strings.Repeat("é", 100)

	post := samplePost()
	post.Caption = long

	key := DeriveKey("2026-03-02", 0, post)
	assert.Contains(t, key, "|"+strings.Repeat("é", 80)+"|")
	assert.NotContains(t, key, strings.Repeat("é", 81))

	// Edits past the 80th rune do not change the identity.
	post.Caption = long + " extended"
	assert.Equal(t, key, DeriveKey("2026-03-02", 0, post))

	// Edits inside the prefix do.
	post.Caption = "X" + long
	assert.NotEqual(t, key, DeriveKey("2026-03-02", 0, post))
}

func TestDeriveKey_ExactlyEightyRunesKept(t *testing.T) {
	post := samplePost()
	post.MediaInstructions = strings.Repeat("a", 80)

	key := DeriveKey("2026-03-02", 0, post)
	assert.True(t, strings.HasSuffix(key, "|"+strings.Repeat("a", 80)))
}
