package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultpipe/vaultpipe/internal/calendar"
	"github.com/vaultpipe/vaultpipe/internal/config"
	"github.com/vaultpipe/vaultpipe/internal/google"
	"github.com/vaultpipe/vaultpipe/internal/logging"
)

func newEventsCmd() *cobra.Command {
	var (
		dateStr    string
		startStr   string
		endStr     string
		calendarID string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print a calendar day as a JSON briefing",
		Long: `Fetch the events in a time window and print them as a JSON briefing
on stdout.

Without flags the window is today in the local timezone. --date selects
another local day; --start and --end give an explicit range. The output
is always parseable JSON: a whole-query failure is reported inside the
briefing itself, so downstream automation never has to special-case a
broken day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger := slog.Default()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return setupError(cmd, err)
			}
			applyCredentialFlags(&cfg)
			if cmd.Flags().Changed("calendar") {
				cfg.Calendar.ID = calendarID
			}

			window, err := calendar.ResolveWindow(dateStr, startStr, endStr, time.Now(), time.Local)
			if err != nil {
				return setupError(cmd, err)
			}

			provider, err := google.NewProvider(cfg.CredentialsFile(), cfg.TokenDir(), google.ServiceCalendar)
			if err != nil {
				return setupError(cmd, err)
			}
			if err := provider.Authorize(ctx, cmd.ErrOrStderr()); err != nil {
				return setupError(cmd, err)
			}

			client, err := calendar.NewClient(ctx, provider, cfg.Calendar.ID)
			if err != nil {
				return setupError(cmd, err)
			}

			briefing := buildBriefing(ctx, client, window, logger)
			return writeJSON(cmd.OutOrStdout(), briefing)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "fetch events for this local day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startStr, "start", "", "window start (RFC 3339 or YYYY-MM-DD, requires --end)")
	cmd.Flags().StringVar(&endStr, "end", "", "window end (RFC 3339 or YYYY-MM-DD, requires --start)")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "calendar ID to query")
	return cmd
}

// buildBriefing runs the query-filter-format pipeline. Remote failures
// end up inside the briefing, never as a process error: JSON consumers
// always get output they can parse.
func buildBriefing(ctx context.Context, client *calendar.Client, window calendar.Window, logger *slog.Logger) calendar.Briefing {
	events, err := client.ListEvents(ctx, window, time.Local)
	if err != nil {
		logger.Error("calendar query failed", logging.Err(err))
		return calendar.ErrorBriefing(window.Date, err)
	}

	userEmail, err := client.UserEmail(ctx)
	if err != nil {
		logger.Warn("could not resolve acting user, attendee matching disabled", logging.Err(err))
		userEmail = ""
	}

	kept := calendar.Filter(events, userEmail, time.Now())
	logger.Debug("events filtered",
		logging.Count(len(kept)), slog.Int("fetched", len(events)))

	return calendar.BuildBriefing(window.Date, kept, time.Local)
}

// setupError reports a fatal precondition failure as a JSON object on
// stderr, so error output stays machine-readable too. The error is
// returned to drive the non-zero exit, with cobra's own printing
// suppressed to avoid a duplicate line.
func setupError(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	_ = writeJSON(cmd.ErrOrStderr(), map[string]string{"error": err.Error()})
	return err
}
