package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultCredentialName is the name under which the Telegram bot token is stored
const DefaultCredentialName = "telegram-bot"

// Credential represents a stored API token
type Credential struct {
	Name         string    `json:"name"`
	Token        string    `json:"token"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves a credential
	Store(cred *Credential) error

	// Retrieve gets a credential by name
	Retrieve(name string) (*Credential, error)

	// Delete removes a credential by name
	Delete(name string) error

	// Exists checks if a credential exists
	Exists(name string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves a credential using the first available store
func (m *Manager) Store(cred *Credential) error {
	if cred.Name == "" {
		return errors.New("credential name is required")
	}
	if cred.Token == "" {
		return errors.New("token is required")
	}

	cred.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(cred); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credential: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets a credential from the first store that has it
func (m *Manager) Retrieve(name string) (*Credential, error) {
	for _, store := range m.stores {
		if cred, err := store.Retrieve(name); err == nil && cred != nil {
			return cred, nil
		}
	}
	return nil, fmt.Errorf("credential not found: %s", name)
}

// Delete removes a credential from all stores
func (m *Manager) Delete(name string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(name); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credential: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credential not found: %s", name)
	}

	return nil
}

// BotToken resolves the Telegram bot token from the configured stores
func (m *Manager) BotToken() (string, error) {
	cred, err := m.Retrieve(DefaultCredentialName)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "igrelay")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "igrelay")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "igrelay")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "igrelay")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// MaskToken masks all but the first 4 and last 4 characters of a token
func MaskToken(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)
