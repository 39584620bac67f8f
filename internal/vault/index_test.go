package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpipe/vaultpipe/internal/mailbox"
)

func TestLoadIndexMissingFile(t *testing.T) {
	idx := LoadIndex(filepath.Join(t.TempDir(), "absent.json"))

	assert.True(t, idx.Empty())
	assert.False(t, idx.Dirty())
}

func TestLoadIndexCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	idx := LoadIndex(path)
	assert.True(t, idx.Empty(), "corruption is never fatal")
}

func TestLoadIndexMissingMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"by_uid":{"1:2":"/a.md"}}`), 0o644))

	idx := LoadIndex(path)
	assert.NotNil(t, idx.ByMessageID)
	assert.Equal(t, "/a.md", idx.ByUID["1:2"])
}

func TestLookupPrecedence(t *testing.T) {
	idx := NewIndex()
	idx.ByUID["1:2"] = "/primary.md"
	idx.ByMessageID["m@example.com"] = "/secondary.md"

	path, ok := idx.Lookup("1:2", "m@example.com")
	require.True(t, ok)
	assert.Equal(t, "/primary.md", path, "primary identifier wins")

	path, ok = idx.Lookup("9:9", "m@example.com")
	require.True(t, ok)
	assert.Equal(t, "/secondary.md", path, "secondary is the fallback")

	_, ok = idx.Lookup("9:9", "absent@example.com")
	assert.False(t, ok)

	_, ok = idx.Lookup("", "")
	assert.False(t, ok)
}

func TestRecordIdempotent(t *testing.T) {
	idx := NewIndex()

	idx.Record("1:2", "m@example.com", "/note.md")
	assert.True(t, idx.Dirty())

	saved := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, idx.Save(saved))
	assert.False(t, idx.Dirty())

	// Re-recording the same pair is a no-op.
	idx.Record("1:2", "m@example.com", "/note.md")
	assert.False(t, idx.Dirty())

	idx.Record("1:2", "m@example.com", "/moved.md")
	assert.True(t, idx.Dirty(), "an actual change marks the index dirty")
}

func TestSaveSkipsCleanIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	idx := NewIndex()

	require.NoError(t, idx.Save(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clean index writes nothing")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")

	idx := NewIndex()
	idx.Record("1:2", "m@example.com", "/note.md")
	require.NoError(t, idx.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	loaded := LoadIndex(path)
	got, ok := loaded.Lookup("1:2", "")
	require.True(t, ok)
	assert.Equal(t, "/note.md", got)
	got, ok = loaded.Lookup("", "m@example.com")
	require.True(t, ok)
	assert.Equal(t, "/note.md", got)
}

func TestMerge(t *testing.T) {
	idx := NewIndex()
	idx.ByUID["1:1"] = "/a.md"

	other := NewIndex()
	other.ByUID["1:1"] = "/a.md"
	other.ByUID["1:2"] = "/b.md"
	other.ByMessageID["b@example.com"] = "/b.md"

	idx.Merge(other)

	assert.True(t, idx.Dirty())
	assert.Equal(t, "/b.md", idx.ByUID["1:2"])
	assert.Equal(t, "/b.md", idx.ByMessageID["b@example.com"])
}

func TestMergeIdenticalStaysClean(t *testing.T) {
	idx := NewIndex()
	idx.ByUID["1:1"] = "/a.md"

	other := NewIndex()
	other.ByUID["1:1"] = "/a.md"

	idx.Merge(other)
	assert.False(t, idx.Dirty())
}

func TestRebuildFromStorage(t *testing.T) {
	root := t.TempDir()
	n := NewNormalizer()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	writeTestNote := func(year int, uidv, uid uint32, messageID string) string {
		email := testEmail()
		email.MessageID = messageID
		email.Date = time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC)
		doc := n.Normalize(&mailbox.RawMessage{UIDValidity: uidv, UID: imap.UID(uid)}, email, []string{"Save"})
		path := filepath.Join(root, doc.NotePath("", time.UTC))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(Render(doc, now)), 0o644))
		return path
	}

	recent := writeTestNote(2025, 9, 1, "recent@example.com")
	writeTestNote(2020, 9, 2, "ancient@example.com")

	idx := RebuildFromStorage(root, now)

	got, ok := idx.Lookup("9:1", "")
	require.True(t, ok)
	assert.Equal(t, recent, got)

	_, ok = idx.Lookup("9:2", "ancient@example.com")
	assert.False(t, ok, "notes outside the scan window are not visited")
}
