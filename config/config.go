// Package config manages the persisted application configuration under
// ~/.docchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Config represents the application configuration
type Config struct {
	ServiceURL         string `json:"service_url"`
	OwnerID            string `json:"owner_id"`
	AgentType          string `json:"agent_type"`
	EnableURLScraping  bool   `json:"enable_url_scraping"`
	EnableAutoIndexing bool   `json:"enable_auto_indexing"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
	DefaultTTLMinutes  int    `json:"default_ttl_minutes"`
	DefaultCollection  string `json:"default_collection,omitempty"`
}

// Manager handles configuration persistence
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates a new config manager
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".docchat")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return NewManagerWithPath(filepath.Join(configDir, "config.json"))
}

// NewManagerWithPath creates a config manager backed by an explicit file
func NewManagerWithPath(path string) (*Manager, error) {
	m := &Manager{
		configPath: path,
		config:     &Config{},
	}

	if err := m.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return m, nil
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, m.config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Get returns the loaded configuration
func (m *Manager) Get() *Config {
	return m.config
}

// GetServiceURL returns the configured service URL
func (m *Manager) GetServiceURL() string {
	if m.config.ServiceURL == "" {
		return "http://localhost:8000"
	}
	return m.config.ServiceURL
}

// GetAgentType returns the configured agent type
func (m *Manager) GetAgentType() string {
	if m.config.AgentType == "" {
		return "react"
	}
	return m.config.AgentType
}

// GetTimeoutSeconds returns the configured request timeout
func (m *Manager) GetTimeoutSeconds() int {
	if m.config.TimeoutSeconds <= 0 {
		return 60
	}
	return m.config.TimeoutSeconds
}

// GetDefaultTTLMinutes returns the TTL requested for new sessions
func (m *Manager) GetDefaultTTLMinutes() int {
	if m.config.DefaultTTLMinutes <= 0 {
		return 24 * 60
	}
	return m.config.DefaultTTLMinutes
}

// EnsureOwnerID returns the stable owner id for this installation,
// generating and persisting one on first use
func (m *Manager) EnsureOwnerID() (string, error) {
	if m.config.OwnerID != "" {
		return m.config.OwnerID, nil
	}

	m.config.OwnerID = uuid.NewString()
	if err := m.Save(); err != nil {
		return "", fmt.Errorf("failed to persist owner id: %w", err)
	}

	return m.config.OwnerID, nil
}

// SetServiceURL updates and persists the service URL
func (m *Manager) SetServiceURL(url string) error {
	m.config.ServiceURL = url
	return m.Save()
}
