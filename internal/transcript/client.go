package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultPlayerURL = "https://www.youtube.com/youtubei/v1/player"

// defaultLanguages is the preference order for caption tracks. English
// variants come first; anything else is a last resort.
var defaultLanguages = []string{"en", "en-US", "en-GB"}

// Client fetches transcripts from the public player API.
type Client struct {
	httpClient *http.Client
	playerURL  string
	languages  []string
}

// NewClient returns a transcript client. A nil httpClient gets a
// default with a request timeout; an empty language list falls back
// to the English variants.
func NewClient(httpClient *http.Client, languages ...string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	langs := defaultLanguages
	if len(languages) > 0 {
		langs = languages
	}
	return &Client{
		httpClient: httpClient,
		playerURL:  defaultPlayerURL,
		languages:  langs,
	}
}

// Fetch retrieves the transcript for videoID. Caption tracks are tried
// in preference order; each attempt either succeeds or yields the next
// track, and only an exhausted list is an error.
func (c *Client) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	player, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks := player.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		if reason := player.PlayabilityStatus.Reason; reason != "" && player.PlayabilityStatus.Status != "OK" {
			return nil, fmt.Errorf("transcripts are unavailable for video %s: %s", videoID, reason)
		}
		return nil, fmt.Errorf("transcripts are disabled for video: %s", videoID)
	}

	var lastErr error
	for _, track := range orderTracks(tracks, c.languages) {
		segments, err := c.fetchTrack(ctx, track.BaseURL)
		if err != nil {
			lastErr = err
			continue
		}
		if len(segments) == 0 {
			lastErr = fmt.Errorf("caption track %q is empty", track.LanguageCode)
			continue
		}
		return c.build(videoID, player, track, segments), nil
	}
	return nil, fmt.Errorf("no transcript available for video %s: %w", videoID, lastErr)
}

// playerResponse is the subset of the player API response we consume.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
}

func (c *Client) player(ctx context.Context, videoID string) (*playerResponse, error) {
	body, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]string{
				"clientName":    "WEB",
				"clientVersion": "2.20240101.00.00",
			},
		},
		"videoId": videoID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request failed for video %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player request for video %s returned %s", videoID, resp.Status)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("failed to decode player response for video %s: %w", videoID, err)
	}
	return &player, nil
}

// orderTracks sorts caption tracks by preference: preferred languages
// in order with manually authored tracks before auto-generated ones,
// then the remaining manual tracks, then everything else.
func orderTracks(tracks []captionTrack, preferred []string) []captionTrack {
	ordered := make([]captionTrack, 0, len(tracks))
	used := make([]bool, len(tracks))

	take := func(match func(captionTrack) bool) {
		for i, t := range tracks {
			if !used[i] && match(t) {
				ordered = append(ordered, t)
				used[i] = true
			}
		}
	}

	for _, lang := range preferred {
		take(func(t captionTrack) bool { return t.LanguageCode == lang && t.Kind != "asr" })
		take(func(t captionTrack) bool { return t.LanguageCode == lang })
	}
	take(func(t captionTrack) bool { return t.Kind != "asr" })
	take(func(t captionTrack) bool { return true })

	return ordered
}

// json3Body is the timedtext payload in fmt=json3.
type json3Body struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (c *Client) fetchTrack(ctx context.Context, baseURL string) ([]Segment, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid caption track URL: %w", err)
	}
	q := u.Query()
	q.Set("fmt", "json3")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("caption track request returned %s", resp.Status)
	}

	var body json3Body
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode caption track: %w", err)
	}

	segments := make([]Segment, 0, len(body.Events))
	for _, ev := range body.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start:    float64(ev.TStartMs) / 1000,
			Duration: float64(ev.DDurationMs) / 1000,
			Text:     text,
		})
	}
	return segments, nil
}

func (c *Client) build(videoID string, player *playerResponse, track captionTrack, segments []Segment) *Transcript {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}

	t := &Transcript{
		VideoID:      videoID,
		URL:          "https://www.youtube.com/watch?v=" + videoID,
		Title:        player.VideoDetails.Title,
		Channel:      player.VideoDetails.Author,
		Language:     track.LanguageCode,
		IsGenerated:  track.Kind == "asr",
		FullText:     strings.Join(texts, " "),
		Segments:     segments,
		SegmentCount: len(segments),
		Success:      true,
	}
	if n, err := strconv.ParseInt(player.VideoDetails.LengthSeconds, 10, 64); err == nil {
		t.Duration = n
	}
	return t
}
