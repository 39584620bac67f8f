package embedding

import "context"

// Item is one document to index: a stable identity, the text to embed,
// and metadata stored alongside the vector.
type Item struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Sink wires the embedder and the vector store together for the ingest
// pipeline.
type Sink struct {
	embedder *Embedder
	store    *Store
}

// NewSink creates a ready-to-use sink: a Gemini embedder plus a
// persistent vector store at dbPath.
func NewSink(ctx context.Context, apiKey, dbPath, model string) (*Sink, error) {
	embedder, err := NewEmbedder(ctx, apiKey, model)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(dbPath)
	if err != nil {
		embedder.Close()
		return nil, err
	}
	return &Sink{embedder: embedder, store: store}, nil
}

// Index embeds the item's text and upserts it into the store.
func (s *Sink) Index(ctx context.Context, item Item) error {
	vector, err := s.embedder.EmbedText(ctx, item.Text)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, item.ID, vector, item.Metadata, item.Text)
}

// Close releases the embedder's API client. The store needs no
// shutdown; chromem-go persists on every write.
func (s *Sink) Close() error {
	return s.embedder.Close()
}
