package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventSummary is the normalized representation of one calendar event.
// Every field has an explicit default; nothing downstream touches the raw
// provider record.
type EventSummary struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Organizer   string
	Status      string
	HTMLLink    string
	EventType   string
	Attendees   []AttendeeInfo
}

// AttendeeInfo represents information about an event attendee
type AttendeeInfo struct {
	Email          string
	DisplayName    string
	ResponseStatus string // "needsAction", "declined", "tentative", "accepted"
	Optional       bool
	Organizer      bool
}

// toEventSummary converts a Google Calendar event to an EventSummary.
// Date-only (all-day) events are anchored to midnight in loc so the local
// calendar day survives the conversion.
func toEventSummary(event *calendar.Event, loc *time.Location) EventSummary {
	summary := EventSummary{
		ID:          event.Id,
		Title:       event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Organizer:   "",
		Status:      event.Status,
		HTMLLink:    event.HtmlLink,
		EventType:   event.EventType,
	}

	if summary.Title == "" {
		summary.Title = "No Title"
	}

	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				summary.Start = t
			}
		} else if event.Start.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", event.Start.Date, loc); err == nil {
				summary.Start = t
				summary.AllDay = true
			}
		}
	}

	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				summary.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", event.End.Date, loc); err == nil {
				summary.End = t
			}
		}
	}

	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
		})
	}

	return summary
}
