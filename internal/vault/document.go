package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/vaultpipe/vaultpipe/internal/mailbox"
)

// checksumBodyLimit bounds how much of the body feeds the checksum, so
// pathological messages stay cheap to hash.
const checksumBodyLimit = 200000

// Document is the canonical, checksummed form of one ingested message.
type Document struct {
	Type         string
	UIDValidity  uint32
	UID          uint32
	MessageID    string
	Subject      string
	From         []mailbox.Address
	To           []mailbox.Address
	Cc           []mailbox.Address
	Date         time.Time
	Labels       []string
	Body         string
	Attachments  []string
	Checksum     string
	CanonicalURL string
}

// PrimaryID returns the folder-scoped identifier "uidvalidity:uid".
func (d *Document) PrimaryID() string {
	return fmt.Sprintf("%d:%d", d.UIDValidity, d.UID)
}

// Normalize builds the canonical document for one fetched message.
// labels must already be canonical; slices are normalized to non-nil so
// the checksum payload has one canonical encoding.
func (n *Normalizer) Normalize(raw *mailbox.RawMessage, email *mailbox.Email, labels []string) *Document {
	doc := &Document{
		Type:        DocTypeFor(labels),
		UIDValidity: raw.UIDValidity,
		UID:         uint32(raw.UID),
		MessageID:   email.MessageID,
		Subject:     email.Subject,
		From:        nonNilAddresses(email.From),
		To:          nonNilAddresses(email.To),
		Cc:          nonNilAddresses(email.Cc),
		Date:        email.Date,
		Labels:      labels,
		Body:        email.Body,
		Attachments: nonNilStrings(email.Attachments),
	}
	doc.CanonicalURL = canonicalURL(doc.MessageID)
	doc.Checksum = doc.ComputeChecksum()
	return doc
}

// ComputeChecksum digests the fields that affect rendered output. The
// payload is a JSON object, so keys serialize in sorted order and the
// digest is independent of field arrangement. Volatile fields stay out:
// the ingestion timestamp changes every run and the folder UID changes
// whenever the server resets UIDVALIDITY, and neither alters content.
func (d *Document) ComputeChecksum() string {
	body := d.Body
	if len(body) > checksumBodyLimit {
		body = body[:checksumBodyLimit]
	}
	payload := map[string]any{
		"subject":    d.Subject,
		"from":       d.From,
		"to":         d.To,
		"cc":         d.Cc,
		"date":       d.Date.Format(time.RFC3339),
		"labels":     d.Labels,
		"body":       body,
		"doc_type":   d.Type,
		"message_id": d.MessageID,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Only unmarshalable types reach here, and the payload has none.
		data = []byte(d.Subject + d.MessageID)
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// canonicalURL builds a provider deep link that resolves the message by
// its RFC 5322 identifier.
func canonicalURL(messageID string) string {
	if messageID == "" {
		return ""
	}
	return "https://mail.google.com/mail/u/0/#search/rfc822msgid:" + url.QueryEscape(messageID)
}

func nonNilAddresses(in []mailbox.Address) []mailbox.Address {
	if in == nil {
		return []mailbox.Address{}
	}
	return in
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
