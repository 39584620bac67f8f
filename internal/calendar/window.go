package calendar

import (
	"fmt"
	"time"
)

// Window is a resolved query window. Start and End carry full offset
// information; Date is the local calendar-day label the briefing reports.
type Window struct {
	Start time.Time
	End   time.Time
	Date  string
}

// ResolveWindow turns the command-line window flags into a Window.
//
// Exactly one form may be used: --date for a single local calendar day, or
// --start and --end together for an explicit range. No flags means today.
// Timestamps without an offset are interpreted in loc; the provider query
// later renders the window in UTC.
func ResolveWindow(dateStr, startStr, endStr string, now time.Time, loc *time.Location) (Window, error) {
	if dateStr != "" && (startStr != "" || endStr != "") {
		return Window{}, fmt.Errorf("--date cannot be combined with --start/--end")
	}
	if (startStr == "") != (endStr == "") {
		return Window{}, fmt.Errorf("--start and --end must be given together")
	}

	if startStr != "" {
		start, err := parseWhen(startStr, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid --start: %w", err)
		}
		end, err := parseWhen(endStr, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid --end: %w", err)
		}
		if !end.After(start) {
			return Window{}, fmt.Errorf("--end must be after --start")
		}
		return Window{
			Start: start,
			End:   end,
			Date:  start.In(loc).Format("2006-01-02"),
		}, nil
	}

	day := now.In(loc)
	if dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			return Window{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", dateStr, err)
		}
		day = parsed
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc)
	return Window{
		Start: start,
		End:   end,
		Date:  start.Format("2006-01-02"),
	}, nil
}

// parseWhen accepts RFC 3339 (with Z or a numeric offset), a naive
// timestamp, or a bare date. Naive forms are local times.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
