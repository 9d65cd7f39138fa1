// Package store persists the durable pointer to the last-used session so a
// restart can restore the previous conversation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// pointerFile is the on-disk shape of the durable pointer
type pointerFile struct {
	LastSessionID string `json:"last_session_id"`
}

// Manager reads and writes the single durable session pointer
type Manager struct {
	path string
}

// NewManager creates a pointer store under ~/.docchat
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".docchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &Manager{path: filepath.Join(dir, "last_session.json")}, nil
}

// NewManagerWithPath creates a pointer store at an explicit file path
func NewManagerWithPath(path string) *Manager {
	return &Manager{path: path}
}

// Load returns the stored session id. A missing file reads as an empty
// pointer, not an error.
func (m *Manager) Load() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session pointer: %w", err)
	}

	var pf pointerFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return "", fmt.Errorf("failed to parse session pointer: %w", err)
	}

	return pf.LastSessionID, nil
}

// Save writes the session id as the durable pointer
func (m *Manager) Save(id string) error {
	data, err := json.MarshalIndent(pointerFile{LastSessionID: id}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session pointer: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session pointer: %w", err)
	}

	return nil
}

// Clear removes the durable pointer. Clearing an absent pointer is a no-op.
func (m *Manager) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session pointer: %w", err)
	}
	return nil
}
