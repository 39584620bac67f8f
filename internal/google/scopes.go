package google

import (
	"fmt"

	calendar "google.golang.org/api/calendar/v3"
)

// Service identifies a scope set and its token cache file. Each service gets
// its own grant so the read-only calendar path never holds mail access.
type Service string

const (
	// ServiceCalendar covers the read-only event queries.
	ServiceCalendar Service = "calendar"
	// ServiceMail covers IMAP access, which requires the full mail scope
	// for SASL bearer authentication.
	ServiceMail Service = "mail"
)

func scopesFor(service Service) ([]string, error) {
	switch service {
	case ServiceCalendar:
		return []string{calendar.CalendarReadonlyScope}, nil
	case ServiceMail:
		return []string{"https://mail.google.com/"}, nil
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}
}
