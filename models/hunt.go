package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// HuntStatus represents the lifecycle state of a hunt.
type HuntStatus string

const (
	StatusPending   HuntStatus = "pending"
	StatusActive    HuntStatus = "active"
	StatusCompleted HuntStatus = "completed"
	StatusFailed    HuntStatus = "failed"
	StatusCancelled HuntStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s HuntStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus converts a user-supplied string into a HuntStatus.
func ParseStatus(s string) (HuntStatus, error) {
	switch st := HuntStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusActive, StatusCompleted, StatusFailed, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// HuntPriority represents the scheduling weight of a hunt.
type HuntPriority string

const (
	PriorityLow      HuntPriority = "low"
	PriorityMedium   HuntPriority = "medium"
	PriorityHigh     HuntPriority = "high"
	PriorityCritical HuntPriority = "critical"
)

// Rank returns the position of the priority in its total order,
// critical highest. Unknown priorities rank below low.
func (p HuntPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// ParsePriority converts a user-supplied string into a HuntPriority.
func ParsePriority(s string) (HuntPriority, error) {
	switch p := HuntPriority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Defaults applied by NewHunt when the caller passes zero values.
const (
	DefaultAssignee   = "hunter"
	DefaultRetryLimit = 3
	DefaultTimeout    = 300 // seconds per attempt
)

// Hunt represents a unit of schedulable, retryable work.
type Hunt struct {
	ID          string       `json:"id" yaml:"id" toml:"id" validate:"required"`
	Directive   Directive    `json:"directive" yaml:"directive" toml:"directive"`
	Assignee    string       `json:"assignee" yaml:"assignee" toml:"assignee" validate:"required"`
	Priority    HuntPriority `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=low medium high critical"`
	Status      HuntStatus   `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending active completed failed cancelled"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at" toml:"created_at" validate:"required"`
	StartedAt   *time.Time   `json:"started_at,omitempty" yaml:"started_at,omitempty" toml:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" yaml:"completed_at,omitempty" toml:"completed_at,omitempty"`
	Result      string       `json:"result,omitempty" yaml:"result,omitempty" toml:"result,omitempty"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	RetryCount  int          `json:"retry_count" yaml:"retry_count" toml:"retry_count" validate:"min=0,ltefield=RetryLimit"`
	RetryLimit  int          `json:"retry_limit" yaml:"retry_limit" toml:"retry_limit" validate:"min=0"`
	Timeout     int          `json:"timeout" yaml:"timeout" toml:"timeout" validate:"min=1"` // seconds per attempt
}

// TimeoutDuration returns the per-attempt timeout as a duration.
func (h *Hunt) TimeoutDuration() time.Duration {
	return time.Duration(h.Timeout) * time.Second
}

// HuntList is the persisted envelope for the hunt collection. LastSeq is
// the id sequence high-water mark; it only grows, so ids are never reused
// even after hunts from a previous run have reached terminal states.
type HuntList struct {
	Version     string    `json:"version" yaml:"version" toml:"version"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated" toml:"last_updated"`
	LastSeq     int       `json:"last_seq" yaml:"last_seq" toml:"last_seq"`
	Hunts       []Hunt    `json:"hunts" yaml:"hunts" toml:"hunts" validate:"dive"`
}

// SchemaVersion is the envelope version written by the store.
const SchemaVersion = "1.0"

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewHunt builds a pending hunt with defaulted bookkeeping fields.
// Zero retryLimit and timeout fall back to the package defaults; a zero
// priority falls back to medium.
func NewHunt(id string, directive Directive, assignee string, priority HuntPriority, retryLimit, timeout int) *Hunt {
	if assignee == "" {
		assignee = DefaultAssignee
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if retryLimit <= 0 {
		retryLimit = DefaultRetryLimit
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Hunt{
		ID:         id,
		Directive:  directive,
		Assignee:   assignee,
		Priority:   priority,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
		RetryLimit: retryLimit,
		Timeout:    timeout,
	}
}
