package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultpipe/vaultpipe/internal/config"
	"github.com/vaultpipe/vaultpipe/internal/embedding"
	"github.com/vaultpipe/vaultpipe/internal/google"
	"github.com/vaultpipe/vaultpipe/internal/logging"
	"github.com/vaultpipe/vaultpipe/internal/mailbox"
	"github.com/vaultpipe/vaultpipe/internal/vault"
)

func newIngestCmd() *cobra.Command {
	var (
		vaultRoot string
		labels    []string
		since     string
		maxCount  int
		dryRun    bool
		user      string
		host      string
		port      int
		embed     bool
		embedDB   string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Archive labeled mail into the vault as Markdown notes",
		Long: `Fetch messages carrying an ingestion label over IMAP and write each
one as a Markdown note with a structured header, deduplicated against
a persistent index.

Re-running against an unchanged mailbox writes nothing: every message
resolves to its existing note by UID identity or Message-ID and the
checksums match. Edited or re-delivered messages update their note in
place. The index heals itself by scanning recent notes when it is
missing or stale, so deleting it never causes duplicates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger := slog.Default()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyCredentialFlags(&cfg)
			flags := cmd.Flags()
			if flags.Changed("vault") {
				cfg.Vault.Root = vaultRoot
			}
			if flags.Changed("labels") {
				cfg.Ingest.Labels = labels
			}
			if flags.Changed("since") {
				cfg.Ingest.Since = since
			}
			if flags.Changed("max") {
				cfg.Ingest.Max = maxCount
			}
			if flags.Changed("user") {
				cfg.IMAP.User = user
			}
			if flags.Changed("host") {
				cfg.IMAP.Host = host
			}
			if flags.Changed("port") {
				cfg.IMAP.Port = port
			}
			if flags.Changed("embed") {
				cfg.Embedding.Enabled = embed
			}
			if flags.Changed("embed-db") {
				cfg.Embedding.Path = embedDB
			}

			if cfg.IMAP.User == "" {
				return fmt.Errorf("account email required: set --user, GMAIL_USER or imap.user in the config")
			}

			cutoff, err := mailbox.ParseSince(cfg.Ingest.Since, time.Now())
			if err != nil {
				return err
			}

			var sink *embedding.Sink
			if cfg.Embedding.Enabled {
				if cfg.GeminiAPIKey == "" {
					return fmt.Errorf("GEMINI_API_KEY is required when embedding is enabled")
				}
				if !dryRun {
					sink, err = embedding.NewSink(ctx, cfg.GeminiAPIKey, cfg.EmbeddingPath(), cfg.Embedding.Model)
					if err != nil {
						return err
					}
					defer sink.Close()
				}
			}

			provider, err := google.NewProvider(cfg.CredentialsFile(), cfg.TokenDir(), google.ServiceMail)
			if err != nil {
				return err
			}
			if err := provider.Authorize(ctx, cmd.ErrOrStderr()); err != nil {
				return err
			}
			token, err := provider.Token(ctx)
			if err != nil {
				return err
			}

			client, err := mailbox.Dial(cfg.IMAP.Host, cfg.IMAP.Port)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Authenticate(cfg.IMAP.User, token.AccessToken); err != nil {
				return err
			}
			logger.Info("connected",
				slog.String("host", cfg.IMAP.Host), logging.UserHash(cfg.IMAP.User))

			batch, err := collectMessages(client, cfg.Ingest.Labels, cutoff, cfg.Ingest.Max, logger)
			if err != nil {
				return err
			}
			logger.Info("messages collected", logging.Count(len(batch)))

			ing := &vault.Ingestor{
				VaultRoot:  cfg.VaultRoot(),
				EmailsDir:  cfg.Vault.EmailsDir,
				Index:      vault.LoadIndex(cfg.IndexFile()),
				State:      vault.LoadState(cfg.StateFile()),
				Normalizer: vault.NewNormalizer(),
				DryRun:     dryRun,
				Logger:     logger,
			}
			ing.SeedIfEmpty()

			counts := make(map[vault.Outcome]int)
			for _, entry := range batch {
				res, err := ing.Ingest(entry.raw, entry.labels)
				if err != nil {
					logger.Warn("skipping unreadable message",
						logging.Folder(entry.raw.Folder), logging.Err(err))
					continue
				}
				if res == nil {
					continue
				}
				counts[res.Outcome]++

				if sink != nil && (res.Outcome == vault.OutcomeNew || res.Outcome == vault.OutcomeUpdated) {
					if err := indexEmbedding(ctx, sink, cfg.VaultRoot(), res); err != nil {
						logger.Warn("embedding failed", logging.Path(res.Path), logging.Err(err))
					}
				}
			}

			if !dryRun {
				if err := ing.Index.Save(cfg.IndexFile()); err != nil {
					logger.Warn("failed to save dedupe index", logging.Err(err))
				}
				if err := ing.State.Save(cfg.StateFile()); err != nil {
					logger.Warn("failed to save state file", logging.Err(err))
				}
			}

			logger.Info("ingest finished",
				slog.Int("new", counts[vault.OutcomeNew]),
				slog.Int("updated", counts[vault.OutcomeUpdated]),
				slog.Int("unchanged", counts[vault.OutcomeUnchanged]),
				slog.Int("failed", counts[vault.OutcomeFailed]),
				slog.Bool("dry_run", dryRun))
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultRoot, "vault", "~/Obsidian/Vault", "vault root directory")
	cmd.Flags().StringSliceVar(&labels, "labels", []string{"Save"}, "label folders to ingest")
	cmd.Flags().StringVar(&since, "since", "", "only messages newer than this (30d, 8w, 6m, 1y or YYYY-MM-DD)")
	cmd.Flags().IntVar(&maxCount, "max", 500, "maximum messages per run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log every decision without writing anything")
	cmd.Flags().StringVar(&user, "user", "", "account email (default $GMAIL_USER, then config)")
	cmd.Flags().StringVar(&host, "host", "imap.gmail.com", "IMAP server host")
	cmd.Flags().IntVar(&port, "port", 993, "IMAP server port")
	cmd.Flags().BoolVar(&embed, "embed", false, "embed new and updated notes into the vector store")
	cmd.Flags().StringVar(&embedDB, "embed-db", "", "vector store directory (default <vault>/.email_embeddings)")
	return cmd
}

// batchEntry pairs a fetched message with every label folder it was
// seen in this run.
type batchEntry struct {
	raw    *mailbox.RawMessage
	labels []string
}

// collectMessages fetches each label folder and merges the results by
// message identity: the first-seen copy of a message wins, later
// sightings only contribute their label. The merged batch is ordered
// newest first and capped at max.
func collectMessages(client *mailbox.Client, labels []string, cutoff time.Time, max int, logger *slog.Logger) ([]*batchEntry, error) {
	var batch []*batchEntry
	byKey := make(map[string]*batchEntry)

	available := map[string]bool{}
	if folders, err := client.ListFolders(); err == nil {
		for _, f := range folders {
			available[f] = true
		}
	} else {
		logger.Warn("could not list folders, selecting blindly", logging.Err(err))
	}

	for _, label := range labels {
		if len(available) > 0 && !available[label] {
			logger.Warn("label folder does not exist on the server", logging.Label(label))
			continue
		}
		sel, err := client.SearchSince(label, cutoff)
		if err != nil {
			logger.Warn("skipping label folder", logging.Label(label), logging.Err(err))
			continue
		}
		// UIDs arrive newest first, so the cap keeps the most recent.
		if max > 0 && len(sel.UIDs) > max {
			sel.UIDs = sel.UIDs[:max]
		}
		if len(sel.UIDs) == 0 {
			logger.Debug("no matching messages", logging.Folder(label))
			continue
		}

		err = client.FetchMessages(sel, func(raw *mailbox.RawMessage) error {
			key := raw.EnvelopeMessageID()
			if key == "" {
				key = raw.PrimaryID()
			}
			if entry, ok := byKey[key]; ok {
				entry.labels = appendLabel(entry.labels, label)
				return nil
			}
			entry := &batchEntry{raw: raw, labels: []string{label}}
			byKey[key] = entry
			batch = append(batch, entry)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].raw.InternalDate.After(batch[j].raw.InternalDate)
	})
	if max > 0 && len(batch) > max {
		batch = batch[:max]
	}
	return batch, nil
}

func appendLabel(labels []string, label string) []string {
	for _, l := range labels {
		if l == label {
			return labels
		}
	}
	return append(labels, label)
}

// indexEmbedding pushes one written note into the vector store.
func indexEmbedding(ctx context.Context, sink *embedding.Sink, vaultRoot string, res *vault.Result) error {
	doc := res.Document
	path := res.Path
	if rel, err := filepath.Rel(vaultRoot, res.Path); err == nil {
		path = rel
	}
	return sink.Index(ctx, embedding.Item{
		ID:   doc.PrimaryID(),
		Text: doc.Subject + "\n\n" + doc.Body,
		Metadata: map[string]string{
			"path":    path,
			"type":    doc.Type,
			"subject": doc.Subject,
		},
	})
}
