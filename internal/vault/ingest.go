package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vaultpipe/vaultpipe/internal/logging"
	"github.com/vaultpipe/vaultpipe/internal/mailbox"
)

// Outcome is the write decision for one message.
type Outcome string

const (
	OutcomeNew       Outcome = "new"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeUpdated   Outcome = "updated"
	OutcomeFailed    Outcome = "failed"
)

// Result summarizes one ingested message.
type Result struct {
	Outcome  Outcome
	Path     string // absolute note path
	Document *Document
}

// Ingestor writes canonical documents into the vault, deduplicating
// against the persistent index. A single Ingestor owns the index and
// state for the duration of one run; concurrent runs against the same
// vault are not supported.
type Ingestor struct {
	VaultRoot  string
	EmailsDir  string
	Index      *Index
	State      State
	Normalizer *Normalizer
	DryRun     bool
	Logger     *slog.Logger
	Clock      func() time.Time // nil means time.Now
	Location   *time.Location   // nil means time.Local; used for path bucketing

	rebuilt bool
	seen    map[string]bool
}

// SeedIfEmpty rebuilds the index from the vault when it starts empty,
// so a deleted or corrupted index file never causes duplicate notes.
func (ing *Ingestor) SeedIfEmpty() {
	if !ing.Index.Empty() {
		return
	}
	ing.logger().Info("dedupe index empty, scanning recent notes to seed it")
	ing.Index.Merge(RebuildFromStorage(ing.emailsRoot(), ing.now()))
	ing.rebuilt = true
}

// Ingest runs one message through the full pipeline: normalize, look up
// the dedupe index, write or update the note, record identifiers.
// Messages without an ingestion label, and duplicates of a message
// already handled this run, are skipped with a nil Result. A failed
// write is logged and reported as OutcomeFailed without recording the
// identifiers, so a later run retries it.
func (ing *Ingestor) Ingest(raw *mailbox.RawMessage, rawLabels []string) (*Result, error) {
	logger := ing.logger()

	if id := raw.EnvelopeMessageID(); id != "" && ing.seen[id] {
		logger.Debug("skipping message already handled this run", logging.MessageID(id))
		return nil, nil
	}

	labels := ing.Normalizer.Canonicalize(rawLabels)
	if !WantsProcessing(labels) {
		logger.Debug("skipping message without ingestion label",
			slog.Uint64("uid", uint64(raw.UID)), logging.Folder(raw.Folder))
		return nil, nil
	}

	email, err := raw.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse UID %d in %q: %w", raw.UID, raw.Folder, err)
	}

	doc := ing.Normalizer.Normalize(raw, email, labels)

	target, deduped := ing.lookupWithHeal(doc.PrimaryID(), doc.MessageID)
	if !deduped {
		target = filepath.Join(ing.VaultRoot, doc.NotePath(ing.EmailsDir, ing.location()))
	}

	result := &Result{Path: target, Document: doc}
	if ReadNoteChecksum(target) == doc.Checksum {
		result.Outcome = OutcomeUnchanged
		logger.Info("duplicate, no change", logging.Path(target))
	} else {
		result.Outcome = OutcomeNew
		if _, err := os.Stat(target); err == nil {
			result.Outcome = OutcomeUpdated
		}
		logger.Info("writing note",
			logging.State(string(result.Outcome)),
			logging.Path(target),
			slog.Bool("deduped", deduped))
		if !ing.DryRun {
			if err := writeNote(target, Render(doc, ing.now())); err != nil {
				logger.Error("failed to write note", logging.Path(target), logging.Err(err))
				result.Outcome = OutcomeFailed
				return result, nil
			}
		}
	}

	// Record identifiers even on unchanged, keeping the index warm.
	ing.Index.Record(doc.PrimaryID(), doc.MessageID, target)
	ing.recordState(doc, target)
	ing.markSeen(doc.MessageID, raw.EnvelopeMessageID())
	return result, nil
}

func (ing *Ingestor) lookupWithHeal(primaryID, messageID string) (string, bool) {
	if path, ok := ing.Index.Lookup(primaryID, messageID); ok {
		return path, true
	}
	if ing.rebuilt {
		return "", false
	}
	// One self-healing scan per run: the first miss may mean a lost
	// index rather than a genuinely new message.
	ing.rebuilt = true
	ing.logger().Info("index lookup missed, scanning recent notes")
	ing.Index.Merge(RebuildFromStorage(ing.emailsRoot(), ing.now()))
	return ing.Index.Lookup(primaryID, messageID)
}

func (ing *Ingestor) recordState(doc *Document, target string) {
	rel, err := filepath.Rel(ing.VaultRoot, target)
	if err != nil {
		rel = target
	}
	ing.State[doc.PrimaryID()] = StateEntry{
		Path:     rel,
		Checksum: doc.Checksum,
		Type:     doc.Type,
	}
}

func (ing *Ingestor) markSeen(ids ...string) {
	if ing.seen == nil {
		ing.seen = map[string]bool{}
	}
	for _, id := range ids {
		if id != "" {
			ing.seen[id] = true
		}
	}
}

func (ing *Ingestor) emailsRoot() string {
	return filepath.Join(ing.VaultRoot, ing.EmailsDir)
}

func (ing *Ingestor) now() time.Time {
	if ing.Clock != nil {
		return ing.Clock()
	}
	return time.Now()
}

func (ing *Ingestor) location() *time.Location {
	if ing.Location != nil {
		return ing.Location
	}
	return time.Local
}

func (ing *Ingestor) logger() *slog.Logger {
	if ing.Logger != nil {
		return ing.Logger
	}
	return slog.Default()
}

func writeNote(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
