// Package vault turns fetched mail into Markdown notes inside a
// personal knowledge vault, without ever creating duplicates.
//
// Each message becomes a canonical document: decoded headers, canonical
// labels, a normalized text body and a deterministic content checksum.
// A persistent index maps both of the message's identifiers (the
// folder-scoped "uidvalidity:uid" pair and the RFC 5322 Message-ID) to
// the note path that holds it. On every run the ingestor looks the
// identifiers up, compares checksums and lands in one of three states:
// new (write a fresh note), updated (rewrite in place) or unchanged
// (touch nothing).
//
// The index is self-healing: when it is empty or a lookup misses, the
// recent year buckets of the vault are scanned and identifiers are
// recovered from the notes' front matter. Losing the index file costs
// one bounded scan, never a duplicate note.
package vault
