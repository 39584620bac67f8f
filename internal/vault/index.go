package vault

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// rebuildYearsBack bounds the self-healing scan to recent year buckets.
const rebuildYearsBack = 3

// Index is the persistent dedupe mapping from message identifiers to
// note paths. Both identifiers of a message map to the same path.
type Index struct {
	ByUID       map[string]string `json:"by_uid"`
	ByMessageID map[string]string `json:"by_message_id"`

	dirty bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		ByUID:       map[string]string{},
		ByMessageID: map[string]string{},
	}
}

// LoadIndex reads the index file at path. A missing, unreadable or
// corrupted file yields an empty index; the run rebuilds it from the
// notes themselves.
func LoadIndex(path string) *Index {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewIndex()
	}
	idx := NewIndex()
	if err := json.Unmarshal(data, idx); err != nil {
		return NewIndex()
	}
	if idx.ByUID == nil {
		idx.ByUID = map[string]string{}
	}
	if idx.ByMessageID == nil {
		idx.ByMessageID = map[string]string{}
	}
	return idx
}

// Empty reports whether the index holds no entries.
func (x *Index) Empty() bool {
	return len(x.ByUID) == 0 && len(x.ByMessageID) == 0
}

// Dirty reports whether the index changed since it was loaded or last
// saved.
func (x *Index) Dirty() bool {
	return x.dirty
}

// Lookup returns the note path recorded for either identifier, primary
// first.
func (x *Index) Lookup(primaryID, messageID string) (string, bool) {
	if primaryID != "" {
		if p, ok := x.ByUID[primaryID]; ok {
			return p, true
		}
	}
	if messageID != "" {
		if p, ok := x.ByMessageID[messageID]; ok {
			return p, true
		}
	}
	return "", false
}

// Record stores path under both identifiers. Re-recording an unchanged
// pair is a no-op; the index is marked dirty only on actual change.
func (x *Index) Record(primaryID, messageID, path string) {
	if primaryID != "" && x.ByUID[primaryID] != path {
		x.ByUID[primaryID] = path
		x.dirty = true
	}
	if messageID != "" && x.ByMessageID[messageID] != path {
		x.ByMessageID[messageID] = path
		x.dirty = true
	}
}

// Merge folds the entries of other into x, marking it dirty on any
// actual change.
func (x *Index) Merge(other *Index) {
	for k, v := range other.ByUID {
		if x.ByUID[k] != v {
			x.ByUID[k] = v
			x.dirty = true
		}
	}
	for k, v := range other.ByMessageID {
		if x.ByMessageID[k] != v {
			x.ByMessageID[k] = v
			x.dirty = true
		}
	}
}

// Save writes the index atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated index. Saving a clean index
// is a no-op.
func (x *Index) Save(path string) error {
	if !x.dirty {
		return nil
	}
	data, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	x.dirty = false
	return nil
}

// RebuildFromStorage scans recent note headers under emailsRoot and
// returns an index of every identifier found. The scan walks only the
// last rebuildYearsBack year buckets, keeping cost proportional to
// recent activity rather than vault size.
func RebuildFromStorage(emailsRoot string, now time.Time) *Index {
	found := NewIndex()
	for y := now.Year(); y > now.Year()-rebuildYearsBack; y-- {
		ydir := filepath.Join(emailsRoot, strconv.Itoa(y))
		filepath.WalkDir(ydir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}
			primaryID, messageID := ExtractNoteIDs(path)
			if primaryID != "" {
				found.ByUID[primaryID] = path
			}
			if messageID != "" {
				found.ByMessageID[messageID] = path
			}
			return nil
		})
	}
	return found
}
