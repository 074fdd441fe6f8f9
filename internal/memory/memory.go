// Package memory is the den's key-value store: namespaced keys, JSON
// values, optional expiry. Two backends exist, a JSON file and a
// sqlite database, selected by configuration.
package memory

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/DerithAI/WOLF-AI/types"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backend stores raw JSON values under flat keys. Expired keys are
// purged lazily: Get drops them, Keys skips them.
type Backend interface {
	Get(key string) (json.RawMessage, bool, error)
	Set(key string, value json.RawMessage, ttl time.Duration) error
	Delete(key string) (bool, error)
	Exists(key string) (bool, error)
	Keys(pattern string) ([]string, error)
	Clear() error
	Close() error
}

// Open constructs the named backend under dir. An empty name means
// json.
func Open(backend, dir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONBackend(filepath.Join(dir, "memory.json"))
	case BackendSQLite:
		return NewSQLiteBackend(filepath.Join(dir, "memory.db"))
	default:
		return nil, types.NewValidationError("memory.backend", fmt.Sprintf("unknown backend %q", backend))
	}
}

// Store is a namespaced view over a backend. Keys are stored as
// `namespace:key`; patterns use path.Match syntax.
type Store struct {
	ns      string
	backend Backend
}

// NewStore wraps backend under the given namespace, "default" when
// empty.
func NewStore(backend Backend, namespace string) *Store {
	if namespace == "" {
		namespace = "default"
	}
	return &Store{ns: namespace, backend: backend}
}

// Namespace returns the store's namespace.
func (s *Store) Namespace() string { return s.ns }

func (s *Store) fullKey(key string) string { return s.ns + ":" + key }

// Set stores value under key. A positive ttl expires the key; zero
// keeps it forever and clears any previous expiry.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %s: %w", key, err)
	}
	return s.backend.Set(s.fullKey(key), raw, ttl)
}

// Get loads the value under key into out, reporting whether the key
// was present and unexpired.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	raw, ok, err := s.backend.Get(s.fullKey(key))
	if err != nil || !ok {
		return false, err
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return false, fmt.Errorf("decode value for %s: %w", key, err)
		}
	}
	return true, nil
}

// GetString returns the string under key, "" when absent.
func (s *Store) GetString(key string) (string, error) {
	var v string
	if _, err := s.Get(key, &v); err != nil {
		return "", err
	}
	return v, nil
}

// Delete removes key, reporting whether it existed.
func (s *Store) Delete(key string) (bool, error) {
	return s.backend.Delete(s.fullKey(key))
}

// Exists reports whether key is present and unexpired.
func (s *Store) Exists(key string) (bool, error) {
	return s.backend.Exists(s.fullKey(key))
}

// Keys lists keys in this namespace matching pattern, "*" when empty.
// The namespace prefix is stripped from the result.
func (s *Store) Keys(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	keys, err := s.backend.Keys(s.fullKey(pattern))
	if err != nil {
		return nil, err
	}
	prefix := s.ns + ":"
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, prefix))
	}
	return out, nil
}

// Clear deletes every key in this namespace. Other namespaces on the
// same backend are untouched.
func (s *Store) Clear() error {
	keys, err := s.Keys("*")
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := s.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Increment adds amount to the number under key, starting from zero,
// and returns the new value. The key's expiry is cleared.
func (s *Store) Increment(key string, amount int64) (int64, error) {
	var current int64
	if _, err := s.Get(key, &current); err != nil {
		return 0, err
	}
	next := current + amount
	if err := s.Set(key, next, 0); err != nil {
		return 0, err
	}
	return next, nil
}

// Append adds item to the list under key and returns the new length.
// A non-list value is wrapped into a single-element list first.
func (s *Store) Append(key string, item interface{}) (int, error) {
	raw, ok, err := s.backend.Get(s.fullKey(key))
	if err != nil {
		return 0, err
	}
	var list []json.RawMessage
	if ok {
		if err := json.Unmarshal(raw, &list); err != nil {
			list = []json.RawMessage{raw}
		}
	}
	encoded, err := json.Marshal(item)
	if err != nil {
		return 0, fmt.Errorf("encode item for %s: %w", key, err)
	}
	list = append(list, encoded)
	if err := s.Set(key, list, 0); err != nil {
		return 0, err
	}
	return len(list), nil
}

// UpdateMap merges updates into the map under key, creating it when
// absent.
func (s *Store) UpdateMap(key string, updates map[string]interface{}) error {
	current := make(map[string]json.RawMessage)
	if _, err := s.Get(key, &current); err != nil {
		return err
	}
	for k, v := range updates {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", key, k, err)
		}
		current[k] = encoded
	}
	return s.Set(key, current, 0)
}
