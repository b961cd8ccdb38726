package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRestoreRoundTrip(t *testing.T) {
	tests := []struct {
		id        string
		sanitized string
	}{
		{"anthropics/skills/pdf", "anthropics__skills__pdf"},
		{"bdmorin/.claude/git", "bdmorin___dot_claude__git"},
		{"owner/repo/my-skill~cursorrules", "owner__repo__my-skill~cursorrules"},
		{"o/r/skill.v2", "o__r__skill_dot_v2"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			sanitized := Sanitize(tt.id)
			assert.Equal(t, tt.sanitized, sanitized)
			assert.Equal(t, tt.id, Restore(sanitized))
			assert.True(t, RoundTrips(tt.id))
		})
	}
}

func TestRestoreOrderMatters(t *testing.T) {
	// Restoring slashes before dots would mangle the neighboring markers;
	// the documented example must come back exactly.
	assert.Equal(t, "bdmorin/.claude/git", Restore("bdmorin___dot_claude__git"))
}

func TestRoundTripsDetectsPathologicalIDs(t *testing.T) {
	// A literal marker inside a segment collides after restoration.
	assert.False(t, RoundTrips("owner/re__po/skill"))
	assert.False(t, RoundTrips("owner/repo/ski_dot_ll"))
}
