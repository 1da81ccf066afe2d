package planutil

import (
	"strconv"
	"strings"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
)

// Planned posts are never stored with their own id, so approval and
// dispatch rows are keyed by a deterministic string derived from the
// post's position and leading content. Every reader and writer of that
// state must use this exact derivation or the cross-table join breaks.
//
// The format is versioned: if the derivation ever changes, bump the
// prefix instead of silently altering v1 keys, or historical records
// are orphaned.

const (
	KeyVersion = "v1"

	keyDelimiter = "|"
	snippetLen   = 80
)

// DeriveKey builds the identity for the post at index within the day
// dated date. Caption and media instructions contribute only their first
// 80 runes, so trailing edits keep the identity stable while any edit
// inside the prefix produces a new key.
func DeriveKey(date string, index int, post models.PlanPost) string {
	return strings.Join([]string{
		KeyVersion,
		date,
		strconv.Itoa(index),
		post.Platform,
		post.Format,
		post.SuggestedTimeLocal,
		snippet(post.Caption),
		snippet(post.MediaInstructions),
	}, keyDelimiter)
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) > snippetLen {
		return string(r[:snippetLen])
	}
	return s
}
