package transcript

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

// iso8601DurationRe matches Data API durations such as PT1H2M3S or P1DT2H.
var iso8601DurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// EnrichMetadata fills title, channel, published date and duration from
// the Data API. The player response already carries most of these, so
// enrichment only overwrites populated fields and is entirely optional.
func EnrichMetadata(ctx context.Context, apiKey string, t *Transcript) error {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).Id(t.VideoID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("metadata lookup failed for video %s: %w", t.VideoID, err)
	}
	if len(resp.Items) == 0 {
		return fmt.Errorf("video %s not found", t.VideoID)
	}

	item := resp.Items[0]
	if item.Snippet != nil {
		if item.Snippet.Title != "" {
			t.Title = item.Snippet.Title
		}
		if item.Snippet.ChannelTitle != "" {
			t.Channel = item.Snippet.ChannelTitle
		}
		t.PublishedAt = item.Snippet.PublishedAt
	}
	if item.ContentDetails != nil {
		if seconds, ok := parseISO8601Duration(item.ContentDetails.Duration); ok {
			t.Duration = seconds
		}
	}
	return nil
}

// parseISO8601Duration converts the Data API duration format to seconds.
func parseISO8601Duration(s string) (int64, bool) {
	m := iso8601DurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	var total int64
	for i, mult := range []int64{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}
