package calendar

import (
	"fmt"
	"time"
)

// Briefing is the JSON document printed for a calendar query. Events holds
// EventJSON entries, or a single QueryError when the whole query failed, so
// consumers always receive well-formed JSON.
type Briefing struct {
	Date        string `json:"date"`
	TotalEvents int    `json:"total_events"`
	Events      []any  `json:"events"`
}

// EventJSON is one event entry in the briefing.
type EventJSON struct {
	Date              string   `json:"date"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Title             string   `json:"title"`
	AcceptedAttendees []string `json:"accepted_attendees"`
	EventID           string   `json:"event_id"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	Organizer         string   `json:"organizer"`
	Status            string   `json:"status"`
	HTMLLink          string   `json:"html_link"`
}

// QueryError is the single entry emitted when the remote query failed.
type QueryError struct {
	Error string `json:"error"`
}

// BuildBriefing shapes filtered events into the briefing document.
func BuildBriefing(date string, events []EventSummary, loc *time.Location) Briefing {
	entries := make([]any, 0, len(events))
	for _, ev := range events {
		entries = append(entries, toEventJSON(ev, loc))
	}
	return Briefing{
		Date:        date,
		TotalEvents: len(events),
		Events:      entries,
	}
}

// ErrorBriefing wraps a whole-query failure in the briefing shape, so
// callers still get parseable output.
func ErrorBriefing(date string, err error) Briefing {
	return Briefing{
		Date:        date,
		TotalEvents: 1,
		Events:      []any{QueryError{Error: fmt.Sprintf("Failed to fetch calendar events: %v", err)}},
	}
}

func toEventJSON(ev EventSummary, loc *time.Location) EventJSON {
	start := ev.Start.In(loc)
	end := ev.End.In(loc)

	out := EventJSON{
		Date:              start.Format("2006-01-02"),
		StartTime:         start.Format("15:04:05"),
		EndTime:           end.Format("15:04:05"),
		Title:             ev.Title,
		AcceptedAttendees: acceptedAttendees(ev),
		EventID:           ev.ID,
		Location:          ev.Location,
		Description:       ev.Description,
		Organizer:         ev.Organizer,
		Status:            ev.Status,
		HTMLLink:          ev.HTMLLink,
	}

	// All-day events span the whole local day regardless of how the
	// provider encoded their end date.
	if ev.AllDay {
		out.StartTime = "00:00:00"
		out.EndTime = "23:59:59"
	}

	return out
}

func acceptedAttendees(ev EventSummary) []string {
	emails := make([]string, 0, len(ev.Attendees))
	for _, att := range ev.Attendees {
		if att.ResponseStatus == "accepted" || att.ResponseStatus == "tentative" {
			emails = append(emails, att.Email)
		}
	}
	return emails
}
