package calendar

import "time"

// Filter drops the events the briefing should not show from the acting
// user's point of view:
//
//   - workingLocation records (purely informational)
//   - events with a non-empty attendee list that does not include the user
//   - declined events that have not started yet; past declined events are
//     kept for historical fidelity
//
// An event without any attendee list is included: single-person events
// often omit it entirely.
func Filter(events []EventSummary, userEmail string, now time.Time) []EventSummary {
	kept := make([]EventSummary, 0, len(events))
	for _, ev := range events {
		if Keep(ev, userEmail, now) {
			kept = append(kept, ev)
		}
	}
	return kept
}

// Keep reports whether a single event survives the briefing filters.
func Keep(ev EventSummary, userEmail string, now time.Time) bool {
	if ev.EventType == "workingLocation" {
		return false
	}
	if !isInvited(ev, userEmail) {
		return false
	}
	if isDeclined(ev, userEmail) && ev.Start.After(now) {
		return false
	}
	return true
}

func isInvited(ev EventSummary, userEmail string) bool {
	if len(ev.Attendees) == 0 {
		return true
	}
	for _, att := range ev.Attendees {
		if att.Email == userEmail {
			return true
		}
	}
	return false
}

func isDeclined(ev EventSummary, userEmail string) bool {
	for _, att := range ev.Attendees {
		if att.Email == userEmail {
			return att.ResponseStatus == "declined"
		}
	}
	return false
}
