// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
const MaxAmbiguousCandidates = 5

// Errors returned by ID resolution.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ResolveHuntID resolves a hunt ID or prefix against the known IDs.
//
// Resolution rules:
//  1. If idOrPrefix matches an ID exactly, return it.
//  2. If idOrPrefix matches exactly one ID as a prefix, return that ID.
//  3. If multiple match, return ErrAmbiguousID with candidates.
//  4. If none match, return ErrNotFound.
//
// A bare sequence like "0004" is normalized to "hunt_0004" first, so
// users can type just the number.
func ResolveHuntID(idOrPrefix string, ids []string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("hunt ID: %w", ErrNotFound)
	}

	// Normalize: if no prefix, assume hunt prefix
	normalized := idOrPrefix
	if !strings.HasPrefix(normalized, "hunt_") {
		normalized = "hunt_" + normalized
	}

	var candidates []string
	for _, id := range ids {
		if id == normalized {
			return id, nil
		}
		if strings.HasPrefix(id, normalized) {
			candidates = append(candidates, id)
		}
	}

	return resolveFromCandidates(normalized, candidates)
}

// resolveFromCandidates handles the common resolution logic.
func resolveFromCandidates(prefix string, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("hunt with prefix %q: %w", prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		// Ambiguous: multiple matches
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d hunts: %v",
			ErrAmbiguousID, prefix, len(candidates), shown)
	}
}
