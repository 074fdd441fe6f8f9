package util

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveHuntID(t *testing.T) {
	ids := []string{
		"hunt_0001_1756073065",
		"hunt_0002_1756073099",
		"hunt_0012_1756074200",
	}

	tests := []struct {
		name       string
		ids        []string
		idOrPrefix string
		want       string
		wantErr    error
	}{
		{
			name:       "full ID exact match",
			ids:        ids,
			idOrPrefix: "hunt_0002_1756073099",
			want:       "hunt_0002_1756073099",
		},
		{
			name:       "prefix matches one",
			ids:        ids,
			idOrPrefix: "hunt_0002",
			want:       "hunt_0002_1756073099",
		},
		{
			name:       "bare sequence without hunt_ prepended",
			ids:        ids,
			idOrPrefix: "0012",
			want:       "hunt_0012_1756074200",
		},
		{
			name:       "prefix matches multiple - ambiguous",
			ids:        ids,
			idOrPrefix: "hunt_00",
			wantErr:    ErrAmbiguousID,
		},
		{
			name:       "prefix matches none - not found",
			ids:        ids,
			idOrPrefix: "hunt_0099",
			wantErr:    ErrNotFound,
		},
		{
			name:       "empty ID",
			ids:        ids,
			idOrPrefix: "",
			wantErr:    ErrNotFound,
		},
		{
			name:       "no hunts at all",
			ids:        nil,
			idOrPrefix: "hunt_0001",
			wantErr:    ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveHuntID(tc.idOrPrefix, tc.ids)

			if tc.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tc.wantErr)
				}
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ResolveHuntID() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAmbiguousErrorMessage(t *testing.T) {
	ids := []string{
		"hunt_0010_1756073001",
		"hunt_0011_1756073002",
		"hunt_0012_1756073003",
		"hunt_0013_1756073004",
		"hunt_0014_1756073005",
		"hunt_0015_1756073006", // 6th one, should be truncated
	}

	_, err := ResolveHuntID("hunt_001", ids)
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("expected ErrAmbiguousID, got: %v", err)
	}

	// Should mention 6 matches
	errStr := err.Error()
	if !strings.Contains(errStr, "6 hunts") {
		t.Errorf("error should mention 6 matches: %s", errStr)
	}

	// Should only show first 5 candidates (MaxAmbiguousCandidates)
	if strings.Contains(errStr, "hunt_0015_1756073006") {
		t.Errorf("error should not show 6th candidate: %s", errStr)
	}
}
