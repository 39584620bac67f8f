package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/vaultpipe/vaultpipe/internal/mailbox"
)

// noteHeadLimit is how much of a note is read when recovering header
// fields. Front matter always fits well within it.
const noteHeadLimit = 4000

var (
	checksumLineRe    = regexp.MustCompile(`(?m)^\s*checksum:\s*"(sha256:[a-f0-9]+)"\s*$`)
	messageIDLineRe   = regexp.MustCompile(`(?m)^\s*message_id:\s*"?<?([^">\n]+)>?"?\s*$`)
	uidValidityLineRe = regexp.MustCompile(`(?m)^\s*uidvalidity:\s*"?(\d+)"?\s*$`)
	uidLineRe         = regexp.MustCompile(`(?m)^\s*uid:\s*"?(\d+)"?\s*$`)
)

// Render produces the Markdown note: a YAML front-matter header with
// every recoverable identifier, then the body. Values that may contain
// YAML metacharacters are written as JSON, which YAML parsers accept.
func Render(doc *Document, ingestedAt time.Time) string {
	from := mailbox.Address{}
	if len(doc.From) > 0 {
		from = doc.From[0]
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "type: %s\n", doc.Type)
	b.WriteString("source: imap/gmail\n")
	b.WriteString("imap:\n")
	fmt.Fprintf(&b, "  uidvalidity: \"%d\"\n", doc.UIDValidity)
	fmt.Fprintf(&b, "  uid: \"%d\"\n", doc.UID)
	fmt.Fprintf(&b, "  message_id: %q\n", doc.MessageID)
	fmt.Fprintf(&b, "subject: %s\n", jsonValue(doc.Subject))
	fmt.Fprintf(&b, "from: %s\n", jsonValue(from))
	fmt.Fprintf(&b, "to: %s\n", jsonValue(doc.To))
	fmt.Fprintf(&b, "cc: %s\n", jsonValue(doc.Cc))
	fmt.Fprintf(&b, "date: %s\n", doc.Date.Format(time.RFC3339))
	fmt.Fprintf(&b, "labels: %s\n", jsonValue(doc.Labels))
	fmt.Fprintf(&b, "attachments: %s\n", jsonValue(doc.Attachments))
	fmt.Fprintf(&b, "checksum: %q\n", doc.Checksum)
	fmt.Fprintf(&b, "ingested_at: %s\n", ingestedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "canonical_url: %s\n", jsonValue(doc.CanonicalURL))
	b.WriteString("---\n\n")
	b.WriteString(doc.Body)
	b.WriteString("\n")
	return b.String()
}

// ReadNoteChecksum returns the checksum recorded in the note at path,
// or "" when the note does not exist or carries none.
func ReadNoteChecksum(path string) string {
	head, err := readHead(path)
	if err != nil {
		return ""
	}
	if m := checksumLineRe.FindSubmatch(head); m != nil {
		return string(m[1])
	}
	return ""
}

// ExtractNoteIDs recovers the identifiers recorded in a note's front
// matter. Either may come back empty.
func ExtractNoteIDs(path string) (primaryID, messageID string) {
	head, err := readHead(path)
	if err != nil {
		return "", ""
	}
	if m := messageIDLineRe.FindSubmatch(head); m != nil {
		messageID = strings.TrimSpace(string(m[1]))
	}
	var validity, uid string
	if m := uidValidityLineRe.FindSubmatch(head); m != nil {
		validity = string(m[1])
	}
	if m := uidLineRe.FindSubmatch(head); m != nil {
		uid = string(m[1])
	}
	if validity != "" && uid != "" {
		primaryID = validity + ":" + uid
	}
	return primaryID, messageID
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, noteHeadLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

func jsonValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
