package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the explicit configuration for a single vaultpipe run. It is
// constructed once at startup (defaults, then config file, then environment,
// then flags) and passed by reference into each stage. No package keeps
// ambient mutable settings.
type Config struct {
	Vault     VaultConfig     `toml:"vault"`
	IMAP      IMAPConfig      `toml:"imap"`
	Google    GoogleConfig    `toml:"google"`
	Calendar  CalendarConfig  `toml:"calendar"`
	Ingest    IngestConfig    `toml:"ingest"`
	Embedding EmbeddingConfig `toml:"embedding"`

	// API keys come from the environment only, never from the file.
	GeminiAPIKey  string `toml:"-"`
	YouTubeAPIKey string `toml:"-"`
}

// VaultConfig locates the knowledge vault on disk.
type VaultConfig struct {
	// Root is the vault directory. Notes, the dedup index and the legacy
	// state file live underneath it.
	Root string `toml:"root"`
	// EmailsDir is the subdirectory for ingested mail notes.
	EmailsDir string `toml:"emails_dir"`
	// IndexFile overrides the dedup index location. Empty means
	// <root>/.email_index.json.
	IndexFile string `toml:"index_file"`
	// StateFile overrides the legacy state file location. Empty means
	// <root>/.email_ingest_state.json.
	StateFile string `toml:"state_file"`
}

// IMAPConfig describes the mailbox endpoint.
type IMAPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// User is the account email. The GMAIL_USER environment variable and the
	// --user flag take precedence over the file value.
	User string `toml:"user"`
}

// GoogleConfig locates the OAuth client credentials and token cache.
type GoogleConfig struct {
	// Credentials is the path to the installed-app client credentials JSON.
	Credentials string `toml:"credentials"`
	// TokenDir holds the per-service token cache files.
	TokenDir string `toml:"token_dir"`
}

// CalendarConfig selects the calendar to query.
type CalendarConfig struct {
	ID string `toml:"id"`
}

// IngestConfig carries the mail query defaults.
type IngestConfig struct {
	Labels []string `toml:"labels"`
	Since  string   `toml:"since"`
	Max    int      `toml:"max"`
}

// EmbeddingConfig controls the optional vector-store sink. Disabled by
// default: the plain ingester deliberately writes Markdown only.
type EmbeddingConfig struct {
	Enabled bool `toml:"enabled"`
	// Path is the persistent vector store directory. Empty means
	// <vault root>/.email_embeddings.
	Path  string `toml:"path"`
	Model string `toml:"model"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Vault: VaultConfig{
			Root:      "~/Obsidian/Vault",
			EmailsDir: "Emails",
		},
		IMAP: IMAPConfig{
			Host: "imap.gmail.com",
			Port: 993,
		},
		Google: GoogleConfig{
			Credentials: "~/.config/vaultpipe/credentials.json",
			TokenDir:    "~/.config/vaultpipe",
		},
		Calendar: CalendarConfig{
			ID: "primary",
		},
		Ingest: IngestConfig{
			Labels: []string{"Save"},
			Max:    500,
		},
		Embedding: EmbeddingConfig{
			Model: "text-embedding-004",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// Load builds a Config from defaults, the TOML file at path, and the
// environment. An empty path means the default location, where a missing
// file is not an error; an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = ExpandPath(path)

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the file values.
func (c *Config) applyEnv() {
	if user := os.Getenv("GMAIL_USER"); user != "" {
		c.IMAP.User = user
	}
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
}

// IndexFile returns the resolved dedup index path.
func (c *Config) IndexFile() string {
	if c.Vault.IndexFile != "" {
		return ExpandPath(c.Vault.IndexFile)
	}
	return filepath.Join(c.VaultRoot(), ".email_index.json")
}

// StateFile returns the resolved legacy state file path.
func (c *Config) StateFile() string {
	if c.Vault.StateFile != "" {
		return ExpandPath(c.Vault.StateFile)
	}
	return filepath.Join(c.VaultRoot(), ".email_ingest_state.json")
}

// EmbeddingPath returns the resolved vector store directory.
func (c *Config) EmbeddingPath() string {
	if c.Embedding.Path != "" {
		return ExpandPath(c.Embedding.Path)
	}
	return filepath.Join(c.VaultRoot(), ".email_embeddings")
}

// VaultRoot returns the expanded vault root directory.
func (c *Config) VaultRoot() string {
	return ExpandPath(c.Vault.Root)
}

// CredentialsFile returns the expanded client credentials path.
func (c *Config) CredentialsFile() string {
	return ExpandPath(c.Google.Credentials)
}

// TokenDir returns the expanded token cache directory.
func (c *Config) TokenDir() string {
	return ExpandPath(c.Google.TokenDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func configDir() string {
	return filepath.Join(homeDir(), ".config", "vaultpipe")
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
