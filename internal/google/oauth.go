package google

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// Provider supplies OAuth2 tokens for one Google service, caching them as
// JSON files on disk. Client credentials come from an installed-app
// credentials file; nothing is embedded in the binary.
type Provider struct {
	conf      *oauth2.Config
	tokenFile string
}

// NewProvider reads the client credentials file and prepares a token
// provider for the given service. Tokens are cached per service under
// tokenDir so the calendar and mail scopes never share a grant.
func NewProvider(credentialsFile, tokenDir string, service Service) (*Provider, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client credentials file: %w", err)
	}

	scopes, err := scopesFor(service)
	if err != nil {
		return nil, err
	}

	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials file: %w", err)
	}
	conf.RedirectURL = oobRedirectURL

	return &Provider{
		conf:      conf,
		tokenFile: filepath.Join(tokenDir, tokenFileName(service)),
	}, nil
}

func tokenFileName(service Service) string {
	return "token-" + string(service) + ".json"
}

// HasToken reports whether a cached token file exists.
func (p *Provider) HasToken() bool {
	_, err := os.Stat(p.tokenFile)
	return err == nil
}

// AuthURL returns the OAuth URL for user authorization.
func (p *Provider) AuthURL() string {
	return p.conf.AuthCodeURL("state")
}

// SaveToken exchanges an authorization code for tokens and caches them.
func (p *Provider) SaveToken(ctx context.Context, authCode string) error {
	t, err := p.conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return p.writeToken(t)
}

func (p *Provider) writeToken(t *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(p.tokenFile), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(p.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (p *Provider) readToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(p.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no cached Google OAuth token: %w", err)
	}
	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", p.tokenFile, err)
	}
	return &t, nil
}

// TokenSource returns a validated token source for the cached token,
// refreshing it if expired. A refreshed access token is written back to the
// cache so the next run starts with a valid token.
func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cached, err := p.readToken()
	if err != nil {
		return nil, err
	}

	ts := p.conf.TokenSource(ctx, cached)
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}

	if tok.AccessToken != cached.AccessToken {
		// Best effort; a failed rewrite only costs a refresh next run.
		_ = p.writeToken(tok)
	}

	return oauth2.ReuseTokenSource(tok, ts), nil
}

// Token returns a valid access token, for transports that take a raw bearer
// token (IMAP SASL).
func (p *Provider) Token(ctx context.Context) (*oauth2.Token, error) {
	ts, err := p.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Token()
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func (p *Provider) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := p.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client, nil
}

// Authorize ensures a usable token exists. When the cache misses and stdin
// is a terminal it runs the interactive consent flow: print the auth URL,
// read the code, exchange and save. Outside a terminal it fails with
// instructions instead of blocking.
func (p *Provider) Authorize(ctx context.Context, out io.Writer) error {
	if _, err := p.TokenSource(ctx); err == nil {
		return nil
	}

	if !isTerminal() {
		return fmt.Errorf("no valid Google OAuth token at %s; run this command in a terminal to authorize", p.tokenFile)
	}

	fmt.Fprintf(out, "Go to %v\n", p.AuthURL())
	fmt.Fprint(out, "Enter code> ")

	bs := bufio.NewScanner(os.Stdin)
	if !bs.Scan() {
		return io.EOF
	}
	if err := p.SaveToken(ctx, bs.Text()); err != nil {
		return err
	}

	_, err := p.TokenSource(ctx)
	return err
}

// isTerminal checks if stdin is connected to a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdin.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
