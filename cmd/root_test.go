package cmd

import (
	"bytes"
	"testing"

	"github.com/vaultpipe/vaultpipe/internal/config"
)

func TestApplyCredentialFlags(t *testing.T) {
	tests := []struct {
		name         string
		credsFlag    string
		tokenFlag    string
		wantCreds    string
		wantTokenDir string
	}{
		{
			name:         "no flags keep config values",
			credsFlag:    "",
			tokenFlag:    "",
			wantCreds:    "/etc/vaultpipe/credentials.json",
			wantTokenDir: "/etc/vaultpipe",
		},
		{
			name:         "credentials flag overrides config",
			credsFlag:    "/tmp/creds.json",
			tokenFlag:    "",
			wantCreds:    "/tmp/creds.json",
			wantTokenDir: "/etc/vaultpipe",
		},
		{
			name:         "token dir flag overrides config",
			credsFlag:    "",
			tokenFlag:    "/tmp/tokens",
			wantCreds:    "/etc/vaultpipe/credentials.json",
			wantTokenDir: "/tmp/tokens",
		},
		{
			name:         "both flags override config",
			credsFlag:    "/tmp/creds.json",
			tokenFlag:    "/tmp/tokens",
			wantCreds:    "/tmp/creds.json",
			wantTokenDir: "/tmp/tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prevCreds, prevToken := credsFile, tokenDir
			defer func() { credsFile, tokenDir = prevCreds, prevToken }()
			credsFile, tokenDir = tt.credsFlag, tt.tokenFlag

			cfg := config.Default()
			cfg.Google.Credentials = "/etc/vaultpipe/credentials.json"
			cfg.Google.TokenDir = "/etc/vaultpipe"
			applyCredentialFlags(&cfg)

			if cfg.Google.Credentials != tt.wantCreds {
				t.Errorf("credentials = %q, want %q", cfg.Google.Credentials, tt.wantCreds)
			}
			if cfg.Google.TokenDir != tt.wantTokenDir {
				t.Errorf("token dir = %q, want %q", cfg.Google.TokenDir, tt.wantTokenDir)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]int{"total_events": 2}); err != nil {
		t.Fatalf("writeJSON returned error: %v", err)
	}

	want := "{\n  \"total_events\": 2\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("writeJSON output = %q, want %q", got, want)
	}
}
