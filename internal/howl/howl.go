// Package howl is the pack's communication channel: an append-only
// JSONL bridge that carries messages between wolves and doubles as the
// audit stream for hunt lifecycle events.
package howl

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the urgency of a howl.
type Frequency string

const (
	FreqLow    Frequency = "low"
	FreqMedium Frequency = "medium"
	FreqHigh   Frequency = "high"
	FreqAuuuu  Frequency = "AUUUU" // pack-wide alert
)

// ParseFrequency maps a raw string onto the closed frequency set. Input
// case is ignored; the AUUUU wire form stays uppercase.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return FreqLow, nil
	case "medium":
		return FreqMedium, nil
	case "high":
		return FreqHigh, nil
	case "auuuu":
		return FreqAuuuu, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Howl is a single message on the bridge. The wire field for the body
// is "howl", matching the bridge file format.
type Howl struct {
	ID        string            `json:"id"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Message   string            `json:"howl"`
	Frequency Frequency         `json:"frequency"`
	Timestamp time.Time         `json:"timestamp"`
	Tags      []string          `json:"tags,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
