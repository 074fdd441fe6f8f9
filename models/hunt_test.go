package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestHunt_ValidateStruct(t *testing.T) {
	valid := func() Hunt {
		return Hunt{
			ID:         "hunt_0001_1700000000",
			Directive:  Directive{Kind: DirectiveShell, Payload: "echo hi"},
			Assignee:   "hunter",
			Priority:   PriorityMedium,
			Status:     StatusPending,
			CreatedAt:  time.Now().UTC(),
			RetryLimit: 3,
			Timeout:    300,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Hunt)
		wantErr bool
	}{
		{
			name:    "valid hunt",
			mutate:  func(h *Hunt) {},
			wantErr: false,
		},
		{
			name:    "empty id",
			mutate:  func(h *Hunt) { h.ID = "" },
			wantErr: true,
		},
		{
			name:    "empty assignee",
			mutate:  func(h *Hunt) { h.Assignee = "" },
			wantErr: true,
		},
		{
			name:    "invalid status",
			mutate:  func(h *Hunt) { h.Status = "sleeping" },
			wantErr: true,
		},
		{
			name:    "invalid priority",
			mutate:  func(h *Hunt) { h.Priority = "urgent" },
			wantErr: true,
		},
		{
			name:    "negative retry count",
			mutate:  func(h *Hunt) { h.RetryCount = -1 },
			wantErr: true,
		},
		{
			name:    "retry count above limit",
			mutate:  func(h *Hunt) { h.RetryCount = 4 },
			wantErr: true,
		},
		{
			name:    "retry count at limit",
			mutate:  func(h *Hunt) { h.RetryCount = 3 },
			wantErr: false,
		},
		{
			name:    "zero timeout",
			mutate:  func(h *Hunt) { h.Timeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid()
			tt.mutate(&h)
			err := ValidateStruct(h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHuntStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   HuntStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusActive, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestHuntPriority_Rank(t *testing.T) {
	order := []HuntPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("expected %q to rank below %q", order[i-1], order[i])
		}
	}
	if HuntPriority("unknown").Rank() >= PriorityLow.Rank() {
		t.Error("unknown priority should rank below low")
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    HuntPriority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"CRITICAL", PriorityCritical, false},
		{"  high ", PriorityHigh, false},
		{"urgent", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewHunt_Defaults(t *testing.T) {
	h := NewHunt("hunt_0001_1700000000", Directive{Kind: DirectiveNote, Payload: "scout the ridge"}, "", "", 0, 0)

	if h.Assignee != DefaultAssignee {
		t.Errorf("Assignee = %q, want %q", h.Assignee, DefaultAssignee)
	}
	if h.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want %q", h.Priority, PriorityMedium)
	}
	if h.Status != StatusPending {
		t.Errorf("Status = %q, want %q", h.Status, StatusPending)
	}
	if h.RetryLimit != DefaultRetryLimit {
		t.Errorf("RetryLimit = %d, want %d", h.RetryLimit, DefaultRetryLimit)
	}
	if h.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %d, want %d", h.Timeout, DefaultTimeout)
	}
	if h.StartedAt != nil || h.CompletedAt != nil {
		t.Error("new hunt must not carry start or completion stamps")
	}
	if err := ValidateStruct(*h); err != nil {
		t.Errorf("new hunt failed validation: %v", err)
	}
}

func TestHunt_JSONSerialization(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	original := Hunt{
		ID:         "hunt_0042_1700000000",
		Directive:  Directive{Kind: DirectiveShell, Payload: "uname -a"},
		Assignee:   "scout",
		Priority:   PriorityHigh,
		Status:     StatusActive,
		CreatedAt:  now,
		StartedAt:  &now,
		RetryCount: 1,
		RetryLimit: 3,
		Timeout:    60,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal hunt: %v", err)
	}

	// Enum fields must serialize as their string names, the directive as
	// its wire form.
	for _, want := range []string{`"priority":"high"`, `"status":"active"`, `"directive":"shell:uname -a"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("serialized hunt missing %s in %s", want, data)
		}
	}

	var restored Hunt
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal hunt: %v", err)
	}

	if restored.ID != original.ID {
		t.Errorf("ID mismatch: got %q, want %q", restored.ID, original.ID)
	}
	if restored.Directive != original.Directive {
		t.Errorf("Directive mismatch: got %+v, want %+v", restored.Directive, original.Directive)
	}
	if restored.Status != original.Status {
		t.Errorf("Status mismatch: got %q, want %q", restored.Status, original.Status)
	}
	if restored.Priority != original.Priority {
		t.Errorf("Priority mismatch: got %q, want %q", restored.Priority, original.Priority)
	}
	if restored.RetryCount != original.RetryCount {
		t.Errorf("RetryCount mismatch: got %d, want %d", restored.RetryCount, original.RetryCount)
	}
	if restored.StartedAt == nil || !restored.StartedAt.Equal(now) {
		t.Errorf("StartedAt mismatch: got %v, want %v", restored.StartedAt, now)
	}
	if restored.CompletedAt != nil {
		t.Errorf("CompletedAt should stay nil, got %v", restored.CompletedAt)
	}
}
