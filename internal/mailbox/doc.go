// Package mailbox provides an IMAP client for fetching labeled mail.
//
// The client speaks IMAP4rev1 over TLS and authenticates with an OAuth
// bearer token, preferring the standard OAUTHBEARER mechanism and falling
// back to Gmail's XOAUTH2 when the server does not advertise it. Gmail
// exposes labels as folders, so a label query is a folder selection plus
// a UID search with an optional SINCE cutoff.
//
// Fetched messages are streamed one at a time and parsed into a decoded
// Email (headers, addresses, preferred text body, attachment names) so
// callers never touch raw MIME.
//
// Example usage:
//
//	client, err := mailbox.Dial("imap.gmail.com", 993)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Authenticate("you@gmail.com", token); err != nil {
//	    log.Fatal(err)
//	}
//
//	sel, err := client.SearchSince("Save", since)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = client.FetchMessages(sel, func(raw *mailbox.RawMessage) error {
//	    email, err := raw.Parse()
//	    ...
//	})
package mailbox
