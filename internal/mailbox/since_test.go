package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"empty means no cutoff", "", time.Time{}},
		{"days", "7d", now.AddDate(0, 0, -7)},
		{"weeks", "2w", now.AddDate(0, 0, -14)},
		{"months", "3m", now.AddDate(0, 0, -90)},
		{"years", "1y", now.AddDate(0, 0, -365)},
		{"uppercase unit", "7D", now.AddDate(0, 0, -7)},
		{"surrounding whitespace", " 7d ", now.AddDate(0, 0, -7)},
		{"absolute date", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSince(tt.in, now)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseSinceInvalid(t *testing.T) {
	now := time.Now()

	for _, in := range []string{"abc", "7x", "d7", "2025/01/15", "15-01-2025"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSince(in, now)
			assert.Error(t, err)
		})
	}
}
