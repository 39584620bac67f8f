package mailbox

import (
	"fmt"
	"io"
	"mime"
	"slices"
	"sort"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-sasl"
)

// Client wraps an authenticated IMAP connection.
type Client struct {
	imap *imapclient.Client
	host string
	port int
}

// Selection identifies a set of messages within one selected folder.
// UIDs are ordered newest first.
type Selection struct {
	Folder      string
	UIDValidity uint32
	UIDs        []imap.UID
}

// Dial opens a TLS connection to the IMAP server.
func Dial(host string, port int) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	options := &imapclient.Options{
		WordDecoder: &mime.WordDecoder{CharsetReader: charset.Reader},
	}
	conn, err := imapclient.DialTLS(addr, options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &Client{imap: conn, host: host, port: port}, nil
}

// Authenticate performs SASL authentication with an OAuth bearer token.
// OAUTHBEARER is used when the server advertises it; otherwise the client
// falls back to Gmail's legacy XOAUTH2 mechanism.
func (c *Client) Authenticate(user, token string) error {
	var saslClient sasl.Client
	if c.imap.Caps().Has(imap.AuthCap(sasl.OAuthBearer)) {
		saslClient = sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
			Username: user,
			Token:    token,
			Host:     c.host,
			Port:     c.port,
		})
	} else {
		saslClient = newXOAuth2Client(user, token)
	}
	if err := c.imap.Authenticate(saslClient); err != nil {
		return fmt.Errorf("authentication failed for %s: %w", user, err)
	}
	return nil
}

// ListFolders returns the names of all selectable folders.
func (c *Client) ListFolders() ([]string, error) {
	data, err := c.imap.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	names := make([]string, 0, len(data))
	for _, mbox := range data {
		if slices.Contains(mbox.Attrs, imap.MailboxAttrNoSelect) {
			continue
		}
		names = append(names, mbox.Mailbox)
	}
	return names, nil
}

// SearchSince selects folder read-only and returns the UIDs of messages
// received at or after since, newest first. A zero since matches every
// message in the folder.
func (c *Client) SearchSince(folder string, since time.Time) (*Selection, error) {
	mbox, err := c.imap.Select(folder, &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to select folder %q: %w", folder, err)
	}

	sel := &Selection{Folder: folder, UIDValidity: mbox.UIDValidity}
	if mbox.NumMessages == 0 {
		return sel, nil
	}

	criteria := &imap.SearchCriteria{}
	if !since.IsZero() {
		criteria.Since = since
	}
	data, err := c.imap.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to search folder %q: %w", folder, err)
	}

	uids := data.AllUIDs()
	sort.Slice(uids, func(i, j int) bool { return uids[i] > uids[j] })
	sel.UIDs = uids
	return sel, nil
}

// FetchMessages downloads every message in sel and hands each one to
// handle in turn. The body is fetched with BODY.PEEK so messages keep
// their unread state. A non-nil error from handle aborts the fetch.
func (c *Client) FetchMessages(sel *Selection, handle func(*RawMessage) error) error {
	if len(sel.UIDs) == 0 {
		return nil
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	opts := &imap.FetchOptions{
		Envelope:     true,
		InternalDate: true,
		UID:          true,
		BodySection:  []*imap.FetchItemBodySection{bodySection},
	}

	cmd := c.imap.Fetch(imap.UIDSetNum(sel.UIDs...), opts)
	for {
		msg := cmd.Next()
		if msg == nil {
			break
		}

		raw := &RawMessage{Folder: sel.Folder, UIDValidity: sel.UIDValidity}
		for {
			item := msg.Next()
			if item == nil {
				break
			}
			switch data := item.(type) {
			case imapclient.FetchItemDataUID:
				raw.UID = data.UID
			case imapclient.FetchItemDataEnvelope:
				raw.Envelope = data.Envelope
			case imapclient.FetchItemDataInternalDate:
				raw.InternalDate = data.Time
			case imapclient.FetchItemDataBodySection:
				body, err := io.ReadAll(data.Literal)
				if err != nil {
					cmd.Close()
					return fmt.Errorf("failed to read body of UID %d: %w", raw.UID, err)
				}
				raw.Body = body
			}
		}

		if err := handle(raw); err != nil {
			cmd.Close()
			return err
		}
	}

	if err := cmd.Close(); err != nil {
		return fmt.Errorf("fetch failed in folder %q: %w", sel.Folder, err)
	}
	return nil
}

// Close logs out and closes the connection.
func (c *Client) Close() error {
	if err := c.imap.Logout().Wait(); err != nil {
		return c.imap.Close()
	}
	return nil
}
