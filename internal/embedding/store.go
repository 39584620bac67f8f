package embedding

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "vault_documents"

// Store persists document vectors in a local chromem-go collection.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewStore opens or creates the vector database at path. The collection
// uses cosine distance, matching the embedding model.
func NewStore(path string) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store at %s: %w", path, err)
	}

	metadata := map[string]string{"hnsw:space": "cosine"}
	collection, err := db.GetOrCreateCollection(collectionName, metadata, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", collectionName, err)
	}

	return &Store{db: db, collection: collection}, nil
}

// Upsert stores one vector under id, replacing any previous entry with
// the same id.
func (s *Store) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string, content string) error {
	if len(vector) == 0 {
		return fmt.Errorf("document %s has no embedding vector", id)
	}
	err := s.collection.Add(ctx,
		[]string{id},
		[][]float32{vector},
		[]map[string]string{metadata},
		[]string{content})
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", id, err)
	}
	return nil
}

// Get returns the stored content and metadata for id.
func (s *Store) Get(ctx context.Context, id string) (string, map[string]string, error) {
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return doc.Content, doc.Metadata, nil
}

// Count reports how many documents the collection holds.
func (s *Store) Count() int {
	return s.collection.Count()
}
