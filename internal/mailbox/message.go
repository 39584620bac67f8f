package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-message/mail"
)

// rawBodyLimit bounds the fallback dump of messages with no readable
// text part.
const rawBodyLimit = 40000

// RawMessage is one fetched message before MIME parsing.
type RawMessage struct {
	Folder       string
	UIDValidity  uint32
	UID          imap.UID
	InternalDate time.Time
	Envelope     *imap.Envelope
	Body         []byte
}

// PrimaryID returns the folder-scoped identifier "uidvalidity:uid".
// It stays valid until the server resets the folder's UIDVALIDITY.
func (m *RawMessage) PrimaryID() string {
	return fmt.Sprintf("%d:%d", m.UIDValidity, m.UID)
}

// EnvelopeMessageID returns the RFC 5322 message identifier from the
// envelope, without angle brackets.
func (m *RawMessage) EnvelopeMessageID() string {
	if m.Envelope == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m.Envelope.MessageID), "<>")
}

// Address is one parsed mailbox address.
type Address struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Email is the decoded form of a fetched message. Body holds the
// preferred text representation: the plain-text parts when present,
// otherwise the HTML parts converted to Markdown, otherwise a truncated
// raw dump.
type Email struct {
	MessageID   string
	Subject     string
	From        []Address
	To          []Address
	Cc          []Address
	Date        time.Time
	Body        string
	BodyKind    string // "plain", "html->md" or "raw"
	Attachments []string
}

// Parse decodes the raw MIME message. Header decoding is best-effort:
// undecodable fields keep their raw value rather than failing the whole
// message.
func (m *RawMessage) Parse() (*Email, error) {
	mr, err := mail.CreateReader(bytes.NewReader(m.Body))
	if mr == nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	h := mr.Header
	subject, _ := h.Subject()
	if strings.TrimSpace(subject) == "" {
		subject = "(no subject)"
	}

	messageID, err := h.MessageID()
	if err != nil || messageID == "" {
		messageID = strings.Trim(strings.TrimSpace(h.Get("Message-Id")), "<>")
	}

	date, err := h.Date()
	if err != nil || date.IsZero() {
		date = m.InternalDate
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	email := &Email{
		MessageID: messageID,
		Subject:   subject,
		From:      addressList(h, "From"),
		To:        addressList(h, "To"),
		Cc:        addressList(h, "Cc"),
		Date:      date,
	}

	var plains, htmls []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Truncated or malformed MIME; keep what was readable.
			break
		}
		switch ph := part.Header.(type) {
		case *mail.InlineHeader:
			ctype, _, _ := ph.ContentType()
			switch ctype {
			case "text/plain":
				body, _ := io.ReadAll(part.Body)
				if s := strings.TrimSpace(string(body)); s != "" {
					plains = append(plains, s)
				}
			case "text/html":
				body, _ := io.ReadAll(part.Body)
				htmls = append(htmls, string(body))
			}
		case *mail.AttachmentHeader:
			if name, err := ph.Filename(); err == nil && name != "" {
				email.Attachments = append(email.Attachments, name)
			}
		}
	}

	switch {
	case len(plains) > 0:
		email.Body = strings.Join(plains, "\n\n")
		email.BodyKind = "plain"
	case len(htmls) > 0:
		email.Body = htmlToMarkdown(strings.Join(htmls, "\n\n"))
		email.BodyKind = "html->md"
	default:
		raw := string(m.Body)
		if len(raw) > rawBodyLimit {
			raw = raw[:rawBodyLimit]
		}
		email.Body = raw
		email.BodyKind = "raw"
	}

	return email, nil
}

func addressList(h mail.Header, key string) []Address {
	list, _ := h.AddressList(key)
	if len(list) == 0 {
		return nil
	}
	out := make([]Address, 0, len(list))
	for _, a := range list {
		out = append(out, Address{Name: strings.Trim(a.Name, `"`), Email: a.Address})
	}
	return out
}
