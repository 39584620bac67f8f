package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/vaultpipe/vaultpipe/internal/google"
)

// Client wraps the Google Calendar service for read-only event queries.
type Client struct {
	svc        *calendar.Service
	calendarID string
}

// NewClient creates a Calendar client authenticated through the credential
// provider. calendarID may be "primary" or any calendar the account can read.
func NewClient(ctx context.Context, provider *google.Provider, calendarID string) (*Client, error) {
	httpClient, err := provider.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
	}, nil
}

// ListEvents returns the events in the window as normalized summaries,
// recurring events expanded, ordered by start time.
func (c *Client) ListEvents(ctx context.Context, w Window, loc *time.Location) ([]EventSummary, error) {
	call := c.svc.Events.List(c.calendarID).
		TimeMin(w.Start.UTC().Format(time.RFC3339)).
		TimeMax(w.End.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(2500)

	var summaries []EventSummary
	err := call.Pages(ctx, func(events *calendar.Events) error {
		for _, event := range events.Items {
			summaries = append(summaries, toEventSummary(event, loc))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return summaries, nil
}

// UserEmail returns the acting user's email, taken from the primary
// calendar's id.
func (c *Client) UserEmail(ctx context.Context) (string, error) {
	cal, err := c.svc.Calendars.Get("primary").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get primary calendar: %w", err)
	}
	return cal.Id, nil
}
