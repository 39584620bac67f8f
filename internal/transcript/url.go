package transcript

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var bareVideoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the video identifier out of the common URL
// shapes: watch URLs, youtu.be short links, embed, shorts and live
// paths, plus a bare 11-character ID.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if bareVideoIDRe.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("could not extract video ID from URL: %s", raw)
	}

	var id string
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id = firstPathSegment(u.Path)
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstPathSegment(strings.TrimPrefix(u.Path, "/embed"))
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = firstPathSegment(strings.TrimPrefix(u.Path, "/shorts"))
		case strings.HasPrefix(u.Path, "/live/"):
			id = firstPathSegment(strings.TrimPrefix(u.Path, "/live"))
		case strings.HasPrefix(u.Path, "/v/"):
			id = firstPathSegment(strings.TrimPrefix(u.Path, "/v"))
		}
	}

	if id == "" {
		return "", fmt.Errorf("could not extract video ID from URL: %s", raw)
	}
	return id, nil
}

func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.Index(path, "/"); i >= 0 {
		path = path[:i]
	}
	return path
}
