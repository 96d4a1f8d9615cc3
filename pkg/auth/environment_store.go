package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// This is the last-resort fallback and the path used in containerized deploys.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the bot token from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Credential, error) {
	if name != "" && name != DefaultCredentialName {
		return nil, ErrCredentialNotFound
	}

	token := os.Getenv("IGRELAY_BOT_TOKEN")
	if token == "" {
		token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if token == "" {
		return nil, ErrCredentialNotFound
	}

	return &Credential{
		Name:         DefaultCredentialName,
		Token:        token,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment credential is set
func (e *EnvironmentStore) Exists(name string) bool {
	cred, err := e.Retrieve(name)
	return err == nil && cred != nil
}
