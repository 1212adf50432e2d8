// Package session persists the admin bearer token and tracks login state.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/zalando/go-keyring"
)

// DefaultKeyringService groups the client's tokens in the OS keychain.
const DefaultKeyringService = "jobboard"

// TokenStore persists a single admin token. Load returns "" and no error
// when nothing is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Verify at compile time that both stores implement TokenStore.
var (
	_ TokenStore = (*KeyringStore)(nil)
	_ TokenStore = (*FileStore)(nil)
)

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore returns a store for one keychain entry. account is usually
// the backend host so tokens for different servers do not collide.
func NewKeyringStore(service, account string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service, account: account}
}

// Load reads the token from the keychain.
func (s *KeyringStore) Load() (string, error) {
	tok, err := keyring.Get(s.service, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("session: reading keychain: %w", err)
	}
	return strings.TrimSpace(tok), nil
}

// Save writes the token to the keychain.
func (s *KeyringStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(s.service, s.account, token); err != nil {
		return fmt.Errorf("session: writing keychain: %w", err)
	}
	return nil
}

// Clear removes the keychain entry. A missing entry is not an error.
func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(s.service, s.account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("session: deleting keychain entry: %w", err)
	}
	return nil
}

// FileStore keeps the token in a 0600 file. Writers take an advisory lock
// on a sibling .lock file so concurrent logins do not interleave.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the token file.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("session: reading %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token file under the lock.
func (s *FileStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	return s.locked(func() error {
		if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
			return fmt.Errorf("session: writing %s: %w", s.path, err)
		}
		return nil
	})
}

// Clear removes the token file. A missing file is not an error.
func (s *FileStore) Clear() error {
	return s.locked(func() error {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session: removing %s: %w", s.path, err)
		}
		return nil
	})
}

func (s *FileStore) locked(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: creating directory: %w", err)
	}
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("session: locking %s: %w", s.path, err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// ErrEmptyToken indicates an attempt to persist a blank token.
var ErrEmptyToken = errors.New("session: empty token")
