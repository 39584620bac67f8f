package mailbox

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeSinceRe = regexp.MustCompile(`(?i)^(\d+)([dwmy])$`)

var sinceUnitDays = map[string]int{"d": 1, "w": 7, "m": 30, "y": 365}

// ParseSince resolves a cutoff argument to an absolute time. Relative
// forms like "7d", "2w", "3m" or "1y" count back from now; absolute
// cutoffs use YYYY-MM-DD. An empty value means no cutoff and yields the
// zero time.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if m := relativeSinceRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid since value %q: %w", s, err)
		}
		days := n * sinceUnitDays[strings.ToLower(m[2])]
		return now.AddDate(0, 0, -days), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since value %q (use 7d, 2w, 3m, 1y or YYYY-MM-DD)", s)
	}
	return t, nil
}
