// Package credentials wraps the OS keychain/credential manager with a dumb
// key/value layer for the three persisted session keys: access token, refresh
// token, and the serialized user profile. It performs no validation of value
// shapes and keeps no in-memory copy; the keyring is the single source of
// truth for the session.
package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "cedula-cli"

// Key identifies one of the persisted session values
type Key string

const (
	KeyAccessToken  Key = "access-token"
	KeyRefreshToken Key = "refresh-token"
	KeyUserProfile  Key = "user"
)

// AllKeys lists every key cleared on logout or forced logout
var AllKeys = []Key{KeyAccessToken, KeyRefreshToken, KeyUserProfile}

// ErrNotFound is returned by Get when no value is stored under the key
var ErrNotFound = errors.New("credential not found")

// Store defines the credential storage operations. The keyring-backed
// implementation is the default; tests inject the in-memory one.
type Store interface {
	Get(key Key) (string, error)
	Set(key Key, value string) error
	Delete(key Key) error
	// Clear removes every session key. Missing keys are not an error.
	Clear() error
}

// Keyring implements Store using the OS keychain/credential manager,
// scoped to a single server host so sessions against different servers
// do not collide.
type Keyring struct {
	host string
}

// NewKeyring creates a keyring store scoped to the given server host
func NewKeyring(host string) *Keyring {
	return &Keyring{host: host}
}

func (k *Keyring) keyringKey(key Key) string {
	return fmt.Sprintf("%s-%s", key, k.host)
}

func (k *Keyring) Get(key Key) (string, error) {
	value, err := keyring.Get(service, k.keyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

func (k *Keyring) Set(key Key, value string) error {
	if err := keyring.Set(service, k.keyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (k *Keyring) Delete(key Key) error {
	if err := keyring.Delete(service, k.keyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // already deleted
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (k *Keyring) Clear() error {
	for _, key := range AllKeys {
		if err := k.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
