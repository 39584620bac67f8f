package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	calendar "google.golang.org/api/calendar/v3"
)

func TestToEventSummaryTimed(t *testing.T) {
	ev := &calendar.Event{
		Id:          "evt-1",
		Summary:     "Planning",
		Description: "Quarterly planning",
		Location:    "Room 4",
		Status:      "confirmed",
		HtmlLink:    "https://calendar.example.com/evt-1",
		Start:       &calendar.EventDateTime{DateTime: "2025-01-01T09:00:00+02:00"},
		End:         &calendar.EventDateTime{DateTime: "2025-01-01T10:00:00+02:00"},
		Organizer:   &calendar.EventOrganizer{Email: "lead@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "a@example.com", DisplayName: "A", ResponseStatus: "accepted"},
			{Email: "b@example.com", ResponseStatus: "declined", Optional: true},
		},
	}

	got := toEventSummary(ev, time.UTC)

	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, "Planning", got.Title)
	assert.Equal(t, "Quarterly planning", got.Description)
	assert.Equal(t, "Room 4", got.Location)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "lead@example.com", got.Organizer)
	assert.False(t, got.AllDay)
	assert.True(t, got.Start.Equal(time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)))
	assert.True(t, got.End.Equal(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)))

	if assert.Len(t, got.Attendees, 2) {
		assert.Equal(t, "a@example.com", got.Attendees[0].Email)
		assert.Equal(t, "A", got.Attendees[0].DisplayName)
		assert.Equal(t, "accepted", got.Attendees[0].ResponseStatus)
		assert.True(t, got.Attendees[1].Optional)
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	loc := time.FixedZone("TST", 2*3600)
	ev := &calendar.Event{
		Id:      "evt-2",
		Summary: "Holiday",
		Start:   &calendar.EventDateTime{Date: "2025-01-01"},
		End:     &calendar.EventDateTime{Date: "2025-01-02"},
	}

	got := toEventSummary(ev, loc)

	assert.True(t, got.AllDay)
	assert.True(t, got.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, loc)))
	assert.True(t, got.End.Equal(time.Date(2025, 1, 2, 0, 0, 0, 0, loc)))
}

func TestToEventSummaryDefaultsTitle(t *testing.T) {
	ev := &calendar.Event{Id: "evt-3"}

	got := toEventSummary(ev, time.UTC)

	assert.Equal(t, "No Title", got.Title)
	assert.Empty(t, got.Organizer)
	assert.Nil(t, got.Attendees)
}
