package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultpipe/vaultpipe/internal/config"
	"github.com/vaultpipe/vaultpipe/internal/logging"
)

// rootCmd represents the base command for the vaultpipe application
var rootCmd = &cobra.Command{
	Use:   "vaultpipe",
	Short: "Pipes calendar, mail and video transcripts into a knowledge vault",
	Long: `vaultpipe is a set of one-shot pipelines around a personal knowledge
vault:

  events      print a calendar day as a JSON briefing
  ingest      archive labeled mail as deduplicated Markdown notes
  transcript  fetch a video transcript as JSON

Each command authenticates on its own, writes machine-readable output
to stdout and keeps all diagnostics on stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := logging.Setup(logLevel)
		return err
	},
}

var (
	cfgFile   string
	logLevel  string
	credsFile string
	tokenDir  string
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "vaultpipe version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ~/.config/vaultpipe/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&credsFile, "credentials", "",
		"Google OAuth client credentials file (default ~/.config/vaultpipe/credentials.json)")
	rootCmd.PersistentFlags().StringVar(&tokenDir, "token-dir", "",
		"directory for cached OAuth tokens (default ~/.config/vaultpipe)")

	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newTranscriptCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// applyCredentialFlags overlays the root-level credential flags onto the
// loaded configuration.
func applyCredentialFlags(cfg *config.Config) {
	if credsFile != "" {
		cfg.Google.Credentials = credsFile
	}
	if tokenDir != "" {
		cfg.Google.TokenDir = tokenDir
	}
}

// writeJSON renders v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
