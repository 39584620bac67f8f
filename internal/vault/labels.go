package vault

import (
	"slices"
	"strings"
)

// Canonical label and document type names.
const (
	LabelSave        = "Save"
	LabelSlackThread = "Slack-Thread"

	TypeEmail       = "email"
	TypeSlackThread = "slack-thread"
)

// Normalizer maps fetched messages into canonical documents. It carries
// the label alias table so no stage depends on package-level state.
type Normalizer struct {
	// Aliases maps legacy or alternate label names to their canonical
	// replacements.
	Aliases map[string]string
}

// NewNormalizer returns a Normalizer with the default alias table,
// covering the label names earlier versions of the ingester matched on.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		Aliases: map[string]string{
			"AI/Ingest":       LabelSave,
			"ai/ingest":       LabelSave,
			"To-Embed":        LabelSave,
			"Slack Thread":    LabelSlackThread,
			"AI/Slack-Thread": LabelSlackThread,
		},
	}
}

// Canonicalize maps each label through the alias table, deduplicating
// while preserving first-seen order.
func (n *Normalizer) Canonicalize(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, raw := range labels {
		label := strings.TrimSpace(raw)
		if canon, ok := n.Aliases[label]; ok {
			label = canon
		}
		if !slices.Contains(out, label) {
			out = append(out, label)
		}
	}
	return out
}

// WantsProcessing reports whether labels contain a canonical ingestion
// label.
func WantsProcessing(labels []string) bool {
	for _, l := range labels {
		if l == LabelSave || l == LabelSlackThread {
			return true
		}
	}
	return false
}

// DocTypeFor infers the document type from canonical labels.
func DocTypeFor(labels []string) string {
	if slices.Contains(labels, LabelSlackThread) {
		return TypeSlackThread
	}
	return TypeEmail
}
