package memory

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/DerithAI/WOLF-AI/types"
)

// jsonEntry is the persisted shape of one key.
type jsonEntry struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// JSONBackend keeps all keys in one JSON file. Every operation reads
// the file fresh and writes it back atomically, so concurrent
// processes see each other's writes at the cost of per-op IO.
type JSONBackend struct {
	mu   sync.Mutex
	path string
}

// NewJSONBackend opens (or creates) the file at path.
func NewJSONBackend(path string) (*JSONBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &types.StoreIOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	b := &JSONBackend{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := b.save(map[string]jsonEntry{}); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// load reads the whole file. A missing or corrupt file reads as empty
// rather than poisoning every later operation.
func (b *JSONBackend) load() map[string]jsonEntry {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return map[string]jsonEntry{}
	}
	entries := make(map[string]jsonEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]jsonEntry{}
	}
	return entries
}

func (b *JSONBackend) save(entries map[string]jsonEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &types.StoreIOError{Op: "encode", Path: b.path, Err: err}
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &types.StoreIOError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return &types.StoreIOError{Op: "rename", Path: b.path, Err: err}
	}
	return nil
}

func (e jsonEntry) expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

func (b *JSONBackend) Get(key string) (json.RawMessage, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.load()
	entry, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		delete(entries, key)
		if err := b.save(entries); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return entry.Value, true, nil
}

func (b *JSONBackend) Set(key string, value json.RawMessage, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.load()
	now := time.Now().UTC()
	entry := jsonEntry{Value: value, CreatedAt: now, UpdatedAt: now}
	if prev, ok := entries[key]; ok && !prev.expired(now) {
		entry.CreatedAt = prev.CreatedAt
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		entry.ExpiresAt = &expires
	}
	entries[key] = entry
	return b.save(entries)
}

func (b *JSONBackend) Delete(key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.load()
	if _, ok := entries[key]; !ok {
		return false, nil
	}
	delete(entries, key)
	return true, b.save(entries)
}

func (b *JSONBackend) Exists(key string) (bool, error) {
	_, ok, err := b.Get(key)
	return ok, err
}

func (b *JSONBackend) Keys(pattern string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.load()
	now := time.Now()
	var keys []string
	for k, e := range entries {
		if e.expired(now) {
			continue
		}
		if ok, err := path.Match(pattern, k); err != nil {
			return nil, types.NewValidationError("pattern", err.Error())
		} else if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *JSONBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.save(map[string]jsonEntry{})
}

func (b *JSONBackend) Close() error { return nil }
