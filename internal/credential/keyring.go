// Package credential stores the session token in the OS keyring as an
// alternative to the local database, selected via session.backend config.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/ticketdesk/ticketdesk/internal/storage"
)

const (
	serviceName = "ticketdesk"
	sessionKey  = "session-token"
)

// defaultConfig returns the keyring configuration used by the application:
// the platform keychain where available, falling back to an encrypted file
// under the config directory.
func defaultConfig() keyring.Config {
	return keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/ticketdesk/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("ticketdesk-file-key"),
		KeychainTrustApplication: true,
	}
}

// TokenStore persists the session token in the system keyring. It satisfies
// the same contract as the database-backed store: an absent token loads as
// the empty string, and clearing an absent token is a no-op.
type TokenStore struct {
	cfg keyring.Config
}

var _ storage.TokenStore = (*TokenStore)(nil)

// NewTokenStore returns a token store over the default keyring backends.
func NewTokenStore() *TokenStore {
	return NewTokenStoreWith(defaultConfig())
}

// NewTokenStoreWith returns a token store over an explicit keyring
// configuration, e.g. to pin the file backend to a known directory.
func NewTokenStoreWith(cfg keyring.Config) *TokenStore {
	return &TokenStore{cfg: cfg}
}

func (t *TokenStore) open() (keyring.Keyring, error) {
	ring, err := keyring.Open(t.cfg)
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// LoadToken retrieves the session token from the system keyring.
func (t *TokenStore) LoadToken(_ context.Context) (string, error) {
	ring, err := t.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(sessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", sessionKey, err)
	}

	return string(item.Data), nil
}

// SaveToken stores the session token in the system keyring.
func (t *TokenStore) SaveToken(_ context.Context, token string) error {
	ring, err := t.open()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  sessionKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", sessionKey, err)
	}

	return nil
}

// ClearToken removes the session token from the system keyring.
func (t *TokenStore) ClearToken(_ context.Context) error {
	ring, err := t.open()
	if err != nil {
		return err
	}

	err = ring.Remove(sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", sessionKey, err)
	}

	return nil
}
