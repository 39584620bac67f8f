package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBriefing(t *testing.T) {
	loc := time.UTC
	events := []EventSummary{
		{
			ID:        "evt-1",
			Title:     "Standup",
			Start:     time.Date(2025, 1, 1, 9, 0, 0, 0, loc),
			End:       time.Date(2025, 1, 1, 9, 15, 0, 0, loc),
			Organizer: "lead@example.com",
			Status:    "confirmed",
			HTMLLink:  "https://calendar.example.com/evt-1",
			Attendees: []AttendeeInfo{
				{Email: "a@example.com", ResponseStatus: "accepted"},
				{Email: "b@example.com", ResponseStatus: "tentative"},
				{Email: "c@example.com", ResponseStatus: "declined"},
				{Email: "d@example.com", ResponseStatus: "needsAction"},
			},
		},
	}

	b := BuildBriefing("2025-01-01", events, loc)

	assert.Equal(t, "2025-01-01", b.Date)
	assert.Equal(t, 1, b.TotalEvents)
	require.Len(t, b.Events, 1)

	entry, ok := b.Events[0].(EventJSON)
	require.True(t, ok)
	assert.Equal(t, "2025-01-01", entry.Date)
	assert.Equal(t, "09:00:00", entry.StartTime)
	assert.Equal(t, "09:15:00", entry.EndTime)
	assert.Equal(t, "Standup", entry.Title)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, entry.AcceptedAttendees)
	assert.Equal(t, "evt-1", entry.EventID)
	assert.Equal(t, "lead@example.com", entry.Organizer)
	assert.Equal(t, "confirmed", entry.Status)
	assert.Equal(t, "https://calendar.example.com/evt-1", entry.HTMLLink)
}

func TestBuildBriefingAllDayRoundTrip(t *testing.T) {
	loc := time.UTC
	events := []EventSummary{
		{
			ID:     "evt-allday",
			Title:  "Company Holiday",
			Start:  time.Date(2025, 1, 1, 0, 0, 0, 0, loc),
			End:    time.Date(2025, 1, 2, 0, 0, 0, 0, loc),
			AllDay: true,
		},
	}

	b := BuildBriefing("2025-01-01", events, loc)

	require.Len(t, b.Events, 1)
	entry := b.Events[0].(EventJSON)
	assert.Equal(t, "2025-01-01", entry.Date)
	assert.Equal(t, "00:00:00", entry.StartTime)
	assert.Equal(t, "23:59:59", entry.EndTime)
}

func TestBuildBriefingLocalTimes(t *testing.T) {
	loc := time.FixedZone("TST", 2*3600)
	events := []EventSummary{
		{
			ID:    "evt-2",
			Title: "Evening sync",
			// 22:30Z is 00:30 next day in a +02:00 zone.
			Start: time.Date(2025, 1, 1, 22, 30, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
		},
	}

	b := BuildBriefing("2025-01-02", events, loc)

	entry := b.Events[0].(EventJSON)
	assert.Equal(t, "2025-01-02", entry.Date)
	assert.Equal(t, "00:30:00", entry.StartTime)
	assert.Equal(t, "01:00:00", entry.EndTime)
}

func TestBuildBriefingEmptyMarshalsToArray(t *testing.T) {
	b := BuildBriefing("2025-01-01", nil, time.UTC)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-01-01","total_events":0,"events":[]}`, string(data))
}

func TestErrorBriefing(t *testing.T) {
	b := ErrorBriefing("2025-01-01", errors.New("backend unavailable"))

	assert.Equal(t, 1, b.TotalEvents)
	require.Len(t, b.Events, 1)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded struct {
		Date   string `json:"date"`
		Events []map[string]string
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2025-01-01", decoded.Date)
	require.Len(t, decoded.Events, 1)
	assert.Equal(t, "Failed to fetch calendar events: backend unavailable", decoded.Events[0]["error"])
	// The error entry carries only the error key.
	assert.Len(t, decoded.Events[0], 1)
}

func TestAcceptedAttendeesEmpty(t *testing.T) {
	ev := EventSummary{Attendees: []AttendeeInfo{{Email: "x@example.com", ResponseStatus: "declined"}}}
	got := acceptedAttendees(ev)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
