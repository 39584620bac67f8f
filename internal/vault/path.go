package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const slugMaxLen = 80

var (
	slugDropRe     = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a subject into a filesystem-friendly name: lowercase,
// word characters only, hyphens for whitespace, at most slugMaxLen
// bytes. Subjects that reduce to nothing become "email".
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugDropRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	if s == "" {
		s = "email"
	}
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
	}
	return s
}

// ShortID returns a short stable filename suffix derived from the
// message identifier, falling back to the subject when a message
// carries none. Collisions between distinct messages with the same slug
// would otherwise overwrite each other.
func ShortID(messageID, subject string) string {
	src := messageID
	if src == "" {
		src = subject
	}
	sum := sha256.Sum256([]byte(src))
	hexsum := hex.EncodeToString(sum[:])
	return hexsum[len(hexsum)-6:]
}

// NotePath derives the default vault-relative note location: a
// year/quarter bucket under emailsDir plus a slug of the subject and a
// short stable suffix, e.g. "Emails/2025/Q425/weekly-report-3f9a2c.md".
// The bucket follows the message date in loc.
func (d *Document) NotePath(emailsDir string, loc *time.Location) string {
	local := d.Date.In(loc)
	quarter := (int(local.Month())-1)/3 + 1
	bucket := fmt.Sprintf("Q%d%02d", quarter, local.Year()%100)
	name := fmt.Sprintf("%s-%s.md", Slugify(d.Subject), ShortID(d.MessageID, d.Subject))
	return filepath.Join(emailsDir, strconv.Itoa(local.Year()), bucket, name)
}
