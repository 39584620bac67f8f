package vault

import (
	"encoding/json"
	"os"
)

// State is the legacy per-message ingestion record, kept so earlier
// tooling that reads it keeps working.
type State map[string]StateEntry

// StateEntry describes one ingested message in the legacy state file.
// Path is relative to the vault root.
type StateEntry struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Type     string `json:"type"`
}

// LoadState reads the legacy state file at path. Missing or corrupted
// files yield an empty state.
func LoadState(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil || s == nil {
		return State{}
	}
	return s
}

// Save writes the state file.
func (s State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
