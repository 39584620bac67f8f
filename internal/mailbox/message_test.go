package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParseMultipart(t *testing.T) {
	raw := crlf(
		"Subject: Quarterly report",
		"From: Ada Lovelace <ada@example.com>",
		"To: Team <team@example.com>, ops@example.com",
		"Cc: Grace <grace@example.com>",
		"Date: Wed, 01 Jan 2025 10:00:00 +0000",
		"Message-ID: <report-123@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Numbers are up.",
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>Numbers are <b>up</b>.</p>",
		"--b1",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"",
		"%PDF-1.4",
		"--b1--",
		"",
	)

	msg := &RawMessage{Folder: "Save", UIDValidity: 99, UID: 7, Body: raw}
	email, err := msg.Parse()
	require.NoError(t, err)

	assert.Equal(t, "Quarterly report", email.Subject)
	assert.Equal(t, "report-123@example.com", email.MessageID)
	assert.Equal(t, []Address{{Name: "Ada Lovelace", Email: "ada@example.com"}}, email.From)
	assert.Equal(t, []Address{
		{Name: "Team", Email: "team@example.com"},
		{Name: "", Email: "ops@example.com"},
	}, email.To)
	assert.Equal(t, []Address{{Name: "Grace", Email: "grace@example.com"}}, email.Cc)
	assert.True(t, email.Date.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)))

	// The plain part wins over the HTML sibling.
	assert.Equal(t, "Numbers are up.", email.Body)
	assert.Equal(t, "plain", email.BodyKind)
	assert.Equal(t, []string{"report.pdf"}, email.Attachments)
}

func TestParseHTMLOnly(t *testing.T) {
	raw := crlf(
		"Subject: =?utf-8?q?Caf=C3=A9_menu?=",
		"From: chef@example.com",
		"Message-ID: <menu@example.com>",
		"Date: Thu, 02 Jan 2025 08:00:00 +0000",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><body><h1>Menu</h1><p>Soup &amp; bread</p></body></html>",
		"",
	)

	msg := &RawMessage{Body: raw}
	email, err := msg.Parse()
	require.NoError(t, err)

	assert.Equal(t, "Café menu", email.Subject)
	assert.Equal(t, "html->md", email.BodyKind)
	assert.Contains(t, email.Body, "# Menu")
	assert.Contains(t, email.Body, "Soup & bread")
	assert.NotContains(t, email.Body, "<p>")
}

func TestParseDefaults(t *testing.T) {
	internal := time.Date(2025, 3, 1, 6, 30, 0, 0, time.UTC)
	raw := crlf(
		"From: noreply@example.com",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"ping",
		"",
	)

	msg := &RawMessage{InternalDate: internal, Body: raw}
	email, err := msg.Parse()
	require.NoError(t, err)

	assert.Equal(t, "(no subject)", email.Subject)
	assert.Empty(t, email.MessageID)
	assert.True(t, email.Date.Equal(internal), "missing Date header falls back to the internal date")
	assert.Equal(t, "ping", email.Body)
}

func TestParseNoTextPart(t *testing.T) {
	raw := crlf(
		"Subject: blob",
		"From: bot@example.com",
		"Message-ID: <blob@example.com>",
		"Date: Thu, 02 Jan 2025 08:00:00 +0000",
		"MIME-Version: 1.0",
		"Content-Type: application/octet-stream",
		"",
		"0001",
		"",
	)

	msg := &RawMessage{Body: raw}
	email, err := msg.Parse()
	require.NoError(t, err)

	assert.Equal(t, "raw", email.BodyKind)
	assert.Contains(t, email.Body, "Subject: blob")
}

func TestPrimaryID(t *testing.T) {
	msg := &RawMessage{UIDValidity: 99, UID: imap.UID(7)}
	assert.Equal(t, "99:7", msg.PrimaryID())
}

func TestEnvelopeMessageID(t *testing.T) {
	assert.Empty(t, (&RawMessage{}).EnvelopeMessageID())

	msg := &RawMessage{Envelope: &imap.Envelope{MessageID: " <x@example.com> "}}
	assert.Equal(t, "x@example.com", msg.EnvelopeMessageID())
}
