package mailbox

import (
	"fmt"

	"github.com/emersion/go-sasl"
)

// xoauth2Client implements Gmail's XOAUTH2 SASL mechanism. The whole
// exchange is a single initial response; on failure the server sends a
// JSON challenge that must be answered with an empty response before the
// tagged NO arrives.
type xoauth2Client struct {
	user  string
	token string
}

func newXOAuth2Client(user, token string) sasl.Client {
	return &xoauth2Client{user: user, token: token}
}

func (c *xoauth2Client) Start() (string, []byte, error) {
	resp := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", c.user, c.token)
	return "XOAUTH2", []byte(resp), nil
}

func (c *xoauth2Client) Next(challenge []byte) ([]byte, error) {
	return []byte{}, nil
}
