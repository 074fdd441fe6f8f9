package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/types"
	"github.com/gofrs/flock"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "hunts.json" // Default filename if only format implies extension
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	retryLimitKey     = "retryLimit"
	timeoutKey        = "timeoutSeconds"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
)

// ErrAlreadyTerminal is returned when a lifecycle mutation targets a hunt
// that has reached completed, failed or cancelled.
var ErrAlreadyTerminal = errors.New("hunt already in a terminal status")

// FileHuntStore implements the HuntStore interface using a file backend.
// It supports JSON, YAML, and TOML formats. A per-instance mutex
// serializes all operations within the process; an advisory file lock
// guards the backing file against other processes sharing it.
type FileHuntStore struct {
	mu       sync.Mutex
	filePath string
	hunts    map[string]models.Hunt
	order    []string // insertion order of ids
	seq      int      // id sequence high-water mark, persisted in the envelope
	flk      *flock.Flock
	format   string // "json", "yaml", or "toml"

	retryLimit int
	timeout    int

	// assigneeOK, when set, vets the assignee at Add time.
	assigneeOK func(string) bool
}

// NewFileHuntStore creates a new instance of FileHuntStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileHuntStore() *FileHuntStore {
	return &FileHuntStore{
		hunts:      make(map[string]models.Hunt),
		retryLimit: models.DefaultRetryLimit,
		timeout:    models.DefaultTimeout,
	}
}

// SetAssigneeCheck installs a predicate consulted at Add time. Unknown
// assignees are rejected with a ValidationError before a hunt is created.
// Without a predicate any assignee string is accepted opaquely.
func (s *FileHuntStore) SetAssigneeCheck(fn func(string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assigneeOK = fn
}

// Initialize configures the FileHuntStore.
// It expects a 'dataFile' key in the config map specifying the path to the
// data file; if not provided it defaults to 'hunts.json' in the current
// working directory. Existing hunts are loaded from the file if it exists
// and a file lock is established.
func (s *FileHuntStore) Initialize(config map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	// If filePath was the default and format is not JSON, adjust the default
	// extension. Users providing a full path are responsible for its extension.
	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	if val, ok := config[retryLimitKey]; ok && val != "" {
		n, err := parsePositiveInt(retryLimitKey, val)
		if err != nil {
			return err
		}
		s.retryLimit = n
	}
	if val, ok := config[timeoutKey]; ok && val != "" {
		n, err := parsePositiveInt(timeoutKey, val)
		if err != nil {
			return err
		}
		s.timeout = n
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &types.StoreIOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	if !locked {
		// Another process holds the lock; block until initialization can
		// complete.
		if err := s.flk.Lock(); err != nil {
			return &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.hunts = make(map[string]models.Hunt)
	s.order = nil
	s.seq = 0
	return s.loadHuntsFromFileInternal()
}

func parsePositiveInt(key, val string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(val, "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, val)
	}
	return n, nil
}

// loadHuntsFromFileInternal reads the envelope from the file and rebuilds
// the in-memory mirror. Caller must hold both locks.
func (s *FileHuntStore) loadHuntsFromFileInternal() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.hunts = make(map[string]models.Hunt)
			s.order = nil
			s.seq = 0
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return &types.StoreIOError{Op: "create", Path: s.filePath, Err: createErr}
			}
			_ = f.Close()
			return nil
		}
		return &types.StoreIOError{Op: "read", Path: s.filePath, Err: err}
	}

	if len(data) == 0 {
		s.hunts = make(map[string]models.Hunt)
		s.order = nil
		s.seq = 0
		return nil
	}

	var list models.HuntList
	switch s.format {
	case formatJSON:
		err = json.Unmarshal(data, &list)
	case formatYAML:
		err = yaml.Unmarshal(data, &list)
	case formatTOML:
		err = toml.Unmarshal(data, &list)
	default:
		err = fmt.Errorf("unsupported data format %q", s.format)
	}
	if err != nil {
		return &types.StoreIOError{Op: "decode", Path: s.filePath, Err: err}
	}

	s.hunts = make(map[string]models.Hunt, len(list.Hunts))
	s.order = make([]string, 0, len(list.Hunts))
	for _, h := range list.Hunts {
		s.hunts[h.ID] = h
		s.order = append(s.order, h.ID)
	}
	s.seq = list.LastSeq
	// Files written before last_seq existed carry the sequence only inside
	// the ids; recover it so restarted stores never reuse an id.
	if s.seq == 0 {
		for _, h := range list.Hunts {
			var n, ts int
			if _, scanErr := fmt.Sscanf(h.ID, "hunt_%d_%d", &n, &ts); scanErr == nil && n > s.seq {
				s.seq = n
			}
		}
	}
	return nil
}

// saveHuntsToFileInternal writes the envelope atomically: marshal, write to
// a temp file, rename over the data file. Caller must hold both locks.
func (s *FileHuntStore) saveHuntsToFileInternal() error {
	list := models.HuntList{
		Version:     models.SchemaVersion,
		LastUpdated: time.Now().UTC(),
		LastSeq:     s.seq,
		Hunts:       make([]models.Hunt, 0, len(s.order)),
	}
	for _, id := range s.order {
		list.Hunts = append(list.Hunts, s.hunts[id])
	}

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(list, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(list)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(list); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = encodeErr
		}
	default:
		err = fmt.Errorf("unsupported data format %q", s.format)
	}
	if err != nil {
		return &types.StoreIOError{Op: "encode", Path: s.filePath, Err: err}
	}

	tempFilePath := s.filePath + ".tmp"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return &types.StoreIOError{Op: "write", Path: tempFilePath, Err: err}
	}
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return &types.StoreIOError{Op: "rename", Path: s.filePath, Err: err}
	}
	return nil
}

// nextID generates the next hunt id under the store lock. The sequence
// part is the crash-safe uniqueness guarantee; the unix stamp mirrors the
// historical id shape.
func (s *FileHuntStore) nextID() string {
	s.seq++
	return fmt.Sprintf("hunt_%04d_%d", s.seq, time.Now().Unix())
}

// Add constructs a hunt in pending status, persists it synchronously and
// returns it. Validation failures reject the call before any record exists.
func (s *FileHuntStore) Add(directive models.Directive, assignee string, priority models.HuntPriority, retryLimit, timeout int) (models.Hunt, error) {
	if err := directive.Validate(); err != nil {
		return models.Hunt{}, types.NewValidationError("directive", err.Error())
	}
	if assignee == "" {
		assignee = models.DefaultAssignee
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if _, err := models.ParsePriority(string(priority)); err != nil {
		return models.Hunt{}, types.NewValidationError("priority", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.assigneeOK != nil && !s.assigneeOK(assignee) {
		return models.Hunt{}, types.NewValidationError("assignee", fmt.Sprintf("unknown assignee %q", assignee))
	}

	if err := s.flk.Lock(); err != nil {
		return models.Hunt{}, &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	// Reload so the new id and record land on top of the latest on-disk
	// state, in case another process wrote since our last operation.
	if err := s.loadHuntsFromFileInternal(); err != nil {
		return models.Hunt{}, err
	}

	if retryLimit <= 0 {
		retryLimit = s.retryLimit
	}
	if timeout <= 0 {
		timeout = s.timeout
	}

	id := s.nextID()
	hunt := models.NewHunt(id, directive, assignee, priority, retryLimit, timeout)
	if err := models.ValidateStruct(*hunt); err != nil {
		s.seq--
		return models.Hunt{}, types.NewValidationError("hunt", err.Error())
	}

	s.hunts[id] = *hunt
	s.order = append(s.order, id)

	if err := s.saveHuntsToFileInternal(); err != nil {
		delete(s.hunts, id)
		s.order = s.order[:len(s.order)-1]
		s.seq--
		return models.Hunt{}, err
	}

	return *hunt, nil
}

// Get retrieves a hunt by its unique identifier.
func (s *FileHuntStore) Get(id string) (models.Hunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return models.Hunt{}, &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadHuntsFromFileInternal(); err != nil {
		return models.Hunt{}, err
	}

	hunt, ok := s.hunts[id]
	if !ok {
		return models.Hunt{}, &types.NotFoundError{ID: id}
	}
	return hunt, nil
}

// List retrieves hunts in insertion order, optionally filtered and sorted.
func (s *FileHuntStore) List(filterFn func(models.Hunt) bool, sortFn func([]models.Hunt) []models.Hunt) ([]models.Hunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return nil, &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadHuntsFromFileInternal(); err != nil {
		return nil, err
	}

	huntList := make([]models.Hunt, 0, len(s.order))
	for _, id := range s.order {
		huntList = append(huntList, s.hunts[id])
	}

	if filterFn != nil {
		filtered := make([]models.Hunt, 0, len(huntList))
		for _, h := range huntList {
			if filterFn(h) {
				filtered = append(filtered, h)
			}
		}
		huntList = filtered
	}

	if sortFn != nil {
		huntList = sortFn(huntList)
	}

	return huntList, nil
}

// Update applies a mutation atomically and persists the full collection.
// The stored record changes only if the mutator, the lifecycle checks and
// the save all succeed.
func (s *FileHuntStore) Update(id string, mutate func(*models.Hunt) error) (models.Hunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return models.Hunt{}, &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadHuntsFromFileInternal(); err != nil {
		return models.Hunt{}, err
	}

	current, ok := s.hunts[id]
	if !ok {
		return models.Hunt{}, &types.NotFoundError{ID: id}
	}

	next := current
	if err := mutate(&next); err != nil {
		return models.Hunt{}, err
	}

	if next.ID != current.ID {
		return models.Hunt{}, types.NewValidationError("id", "hunt id is immutable")
	}
	if current.Status.IsTerminal() && next.Status != current.Status {
		return models.Hunt{}, fmt.Errorf("hunt %s is %s: %w", id, current.Status, ErrAlreadyTerminal)
	}
	if err := models.ValidateStruct(next); err != nil {
		return models.Hunt{}, types.NewValidationError("hunt", err.Error())
	}

	s.hunts[id] = next

	if err := s.saveHuntsToFileInternal(); err != nil {
		s.hunts[id] = current // roll back the in-memory change
		return models.Hunt{}, err
	}

	return next, nil
}

// Cancel transitions a pending or active hunt to cancelled.
func (s *FileHuntStore) Cancel(id string) (models.Hunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return models.Hunt{}, &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadHuntsFromFileInternal(); err != nil {
		return models.Hunt{}, err
	}

	hunt, ok := s.hunts[id]
	if !ok {
		return models.Hunt{}, &types.NotFoundError{ID: id}
	}
	if hunt.Status != models.StatusPending && hunt.Status != models.StatusActive {
		return models.Hunt{}, fmt.Errorf("hunt %s is %s: %w", id, hunt.Status, ErrAlreadyTerminal)
	}

	previous := hunt
	now := time.Now().UTC()
	hunt.Status = models.StatusCancelled
	hunt.CompletedAt = &now
	s.hunts[id] = hunt

	if err := s.saveHuntsToFileInternal(); err != nil {
		s.hunts[id] = previous
		return models.Hunt{}, err
	}

	return hunt, nil
}

// Backup copies the current hunt data to the specified destination path.
func (s *FileHuntStore) Backup(destinationPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	input, err := os.ReadFile(s.filePath)
	if err != nil {
		return &types.StoreIOError{Op: "read", Path: s.filePath, Err: err}
	}
	if err := os.WriteFile(destinationPath, input, 0o644); err != nil {
		return &types.StoreIOError{Op: "write", Path: destinationPath, Err: err}
	}
	return nil
}

// Restore replaces the current hunt data with data from the specified
// source path.
func (s *FileHuntStore) Restore(sourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return &types.StoreIOError{Op: "lock", Path: s.filePath, Err: err}
	}
	defer func() { _ = s.flk.Unlock() }()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return &types.StoreIOError{Op: "read", Path: sourcePath, Err: err}
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err := os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return &types.StoreIOError{Op: "write", Path: tempFilePath, Err: err}
	}
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return &types.StoreIOError{Op: "rename", Path: s.filePath, Err: err}
	}

	return s.loadHuntsFromFileInternal()
}

// Close releases any resources held by the store, such as file locks.
// flock.Unlock() is idempotent and can be called even if the lock is not
// held by this process.
func (s *FileHuntStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
