package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OwnerStore persists the logged-in owner identifier so the agent survives
// a restart without re-login. Cleared on logout.
type OwnerStore struct {
	path string
}

type ownerRecord struct {
	Owner string `json:"owner"`
}

// DefaultOwnerPath places the session file under the user config dir.
func DefaultOwnerPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "task-reminder", "session.json"), nil
}

func NewOwnerStore(path string) *OwnerStore {
	return &OwnerStore{path: path}
}

// Load returns the persisted owner, or empty when no session exists.
func (s *OwnerStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var rec ownerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("failed to parse session file: %w", err)
	}
	return rec.Owner, nil
}

// Save persists the owner identifier.
func (s *OwnerStore) Save(owner string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.Marshal(ownerRecord{Owner: owner})
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session, e.g. on logout.
func (s *OwnerStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
