// Package embedding is the optional vector-store sink for ingested
// documents. It is off by default; the plain ingest path writes
// Markdown only.
//
// When enabled, each new or updated document is embedded with a Gemini
// embedding model and upserted into a persistent chromem-go collection
// next to the vault, keyed by the document's stable identity:
//
//	sink, err := embedding.NewSink(ctx, apiKey, cfg.EmbeddingPath(), cfg.Embedding.Model)
//	if err != nil {
//		return err
//	}
//	defer sink.Close()
//
//	err = sink.Index(ctx, embedding.Item{
//		ID:   doc.PrimaryID(),
//		Text: doc.Subject + "\n\n" + doc.Body,
//	})
//
// Indexing failures are reported to the caller, which logs and moves
// on; the vector store is a derived artifact and never blocks ingest.
package embedding
