package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vaultpipe/vaultpipe/internal/config"
	"github.com/vaultpipe/vaultpipe/internal/logging"
	"github.com/vaultpipe/vaultpipe/internal/transcript"
)

func newTranscriptCmd() *cobra.Command {
	var (
		languages []string
		apiKey    string
	)

	cmd := &cobra.Command{
		Use:   "transcript <url-or-id>",
		Short: "Fetch a video transcript as JSON",
		Long: `Fetch the caption track of a video and print it as JSON on stdout.

The argument may be a watch URL, a short link, an embed/shorts/live
path or a bare 11-character video ID. Caption tracks are tried in
language priority order with manually authored tracks preferred over
auto-generated ones. With a Data API key the video's title, channel,
published time and duration are included.

Failures are printed as a JSON object on stderr, so callers can parse
either stream.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger := slog.Default()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if apiKey == "" {
				apiKey = cfg.YouTubeAPIKey
			}

			videoID, err := transcript.ExtractVideoID(args[0])
			if err != nil {
				return transcriptError(cmd, err, transcript.ExtractionError{
					Error:   "Invalid URL",
					Message: err.Error(),
				})
			}

			client := transcript.NewClient(nil, languages...)
			t, err := client.Fetch(ctx, videoID)
			if err != nil {
				return transcriptError(cmd, err, transcript.ExtractionError{
					Error:   "Extraction failed",
					Message: err.Error(),
					VideoID: videoID,
				})
			}

			if apiKey != "" {
				if err := transcript.EnrichMetadata(ctx, apiKey, t); err != nil {
					logger.Warn("metadata enrichment failed",
						logging.Video(videoID), logging.Err(err))
				}
			}

			logger.Debug("transcript fetched", logging.Video(videoID),
				logging.Language(t.Language), logging.Count(t.SegmentCount))
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}

	cmd.Flags().StringSliceVar(&languages, "languages", []string{"en", "en-US", "en-GB"},
		"transcript language priority")
	cmd.Flags().StringVar(&apiKey, "api-key", "",
		"Data API key for metadata enrichment (default $YOUTUBE_API_KEY)")
	return cmd
}

// transcriptError emits the failure as JSON on stderr and returns the
// original error for the non-zero exit, suppressing cobra's duplicate
// print.
func transcriptError(cmd *cobra.Command, err error, payload transcript.ExtractionError) error {
	cmd.SilenceErrors = true
	_ = writeJSON(cmd.ErrOrStderr(), payload)
	return err
}
