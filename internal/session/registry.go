package session

import (
	"fmt"
	"sort"
	"strings"
)

// Backend names understood by NewRegistry.
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
)

// StoreOptions carries the settings any backend may need.
type StoreOptions struct {
	KeyringService string
	Account        string
	TokenFile      string
}

// Factory creates a TokenStore.
type Factory func(StoreOptions) (TokenStore, error)

// Registry maps backend names to store factories.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a Registry with the keyring and file backends registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(BackendKeyring, func(o StoreOptions) (TokenStore, error) {
		return NewKeyringStore(o.KeyringService, o.Account), nil
	})
	r.Register(BackendFile, func(o StoreOptions) (TokenStore, error) {
		if o.TokenFile == "" {
			return nil, fmt.Errorf("session: file backend needs a token file path")
		}
		return NewFileStore(o.TokenFile), nil
	})
	return r
}

// Register adds a named backend. Overwrites if name already exists.
// Panics if name is empty or f is nil (programmer error).
func (r *Registry) Register(name string, f Factory) {
	if name == "" {
		panic("session: Register called with empty name")
	}
	if f == nil {
		panic("session: Register called with nil factory")
	}
	r.factories[name] = f
}

// NewStore instantiates the backend called name.
func (r *Registry) NewStore(name string, opts StoreOptions) (TokenStore, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownBackendError{Name: name, Available: r.Backends()}
	}
	s, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("session backend %q: %w", name, err)
	}
	return s, nil
}

// Backends returns registered backend names in sorted order.
func (r *Registry) Backends() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError indicates a backend name is not registered.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown token backend %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
