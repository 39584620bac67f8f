package google

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

const testCredentials = `{
	"installed": {
		"client_id": "client-id.apps.googleusercontent.com",
		"client_secret": "secret",
		"auth_uri": "https://accounts.google.com/o/oauth2/auth",
		"token_uri": "https://oauth2.googleapis.com/token",
		"redirect_uris": ["urn:ietf:wg:oauth:2.0:oob", "http://localhost"]
	}
}`

func writeCredentials(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte(testCredentials), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewProvider(t *testing.T) {
	dir := t.TempDir()
	creds := writeCredentials(t, dir)

	tests := []struct {
		name    string
		service Service
		wantErr bool
	}{
		{"calendar service", ServiceCalendar, false},
		{"mail service", ServiceMail, false},
		{"unknown service", Service("drive"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(creds, dir, tt.service)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			want := "token-" + string(tt.service) + ".json"
			if filepath.Base(p.tokenFile) != want {
				t.Errorf("token file = %q, want base %q", p.tokenFile, want)
			}
			if p.conf.RedirectURL != oobRedirectURL {
				t.Errorf("redirect URL = %q, want %q", p.conf.RedirectURL, oobRedirectURL)
			}
		})
	}
}

func TestNewProviderMissingCredentials(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewProvider(filepath.Join(dir, "absent.json"), dir, ServiceCalendar); err == nil {
		t.Error("NewProvider() with missing credentials file should fail")
	}
}

func TestHasToken(t *testing.T) {
	dir := t.TempDir()
	creds := writeCredentials(t, dir)

	p, err := NewProvider(creds, dir, ServiceCalendar)
	if err != nil {
		t.Fatal(err)
	}

	if p.HasToken() {
		t.Error("HasToken() should be false before a token is written")
	}

	if err := p.writeToken(&oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatal(err)
	}

	if !p.HasToken() {
		t.Error("HasToken() should be true after a token is written")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	creds := writeCredentials(t, dir)

	p, err := NewProvider(creds, dir, ServiceMail)
	if err != nil {
		t.Fatal(err)
	}

	in := &oauth2.Token{
		AccessToken:  "access-token",
		TokenType:    "Bearer",
		RefreshToken: "refresh-token",
	}
	if err := p.writeToken(in); err != nil {
		t.Fatal(err)
	}

	out, err := p.readToken()
	if err != nil {
		t.Fatal(err)
	}
	if out.AccessToken != in.AccessToken || out.RefreshToken != in.RefreshToken {
		t.Errorf("readToken() = %+v, want access/refresh of %+v", out, in)
	}

	info, err := os.Stat(p.tokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestReadTokenCorrupted(t *testing.T) {
	dir := t.TempDir()
	creds := writeCredentials(t, dir)

	p, err := NewProvider(creds, dir, ServiceMail)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.tokenFile, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := p.readToken(); err == nil {
		t.Error("readToken() should fail on a corrupted token file")
	}
}

func TestAuthURL(t *testing.T) {
	dir := t.TempDir()
	creds := writeCredentials(t, dir)

	p, err := NewProvider(creds, dir, ServiceCalendar)
	if err != nil {
		t.Fatal(err)
	}

	url := p.AuthURL()
	if url == "" {
		t.Fatal("AuthURL() returned empty string")
	}
}
