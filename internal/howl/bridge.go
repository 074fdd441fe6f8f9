package howl

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DerithAI/WOLF-AI/types"
)

const (
	bridgeFileName   = "howls.jsonl"
	defaultListLimit = 50

	// maxLineBytes bounds a single howl line when scanning the bridge.
	maxLineBytes = 1 << 20
)

// Bridge is the central howl log. Appends serialize behind a mutex;
// reads scan the backing file so concurrent writers from other
// processes are picked up too.
type Bridge struct {
	path string

	mu sync.Mutex // serializes appends

	subMu sync.Mutex
	subs  map[string][]func(Howl)
}

// NewBridge opens (creating if needed) the bridge under dir.
func NewBridge(dir string) (*Bridge, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StoreIOError{Op: "mkdir", Path: dir, Err: err}
	}
	path := filepath.Join(dir, bridgeFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &types.StoreIOError{Op: "open", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &types.StoreIOError{Op: "close", Path: path, Err: err}
	}
	return &Bridge{path: path, subs: make(map[string][]func(Howl))}, nil
}

// Path returns the bridge file location.
func (b *Bridge) Path() string { return b.path }

// Send stamps and appends a howl, then notifies subscribers. Zero
// fields get the bridge defaults: to "pack", frequency medium, a fresh
// id and the current time.
func (b *Bridge) Send(h Howl) (Howl, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.From == "" {
		h.From = "unknown"
	}
	if h.To == "" {
		h.To = "pack"
	}
	if h.Frequency == "" {
		h.Frequency = FreqMedium
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(h)
	if err != nil {
		return Howl{}, err
	}

	b.mu.Lock()
	err = b.appendLine(line)
	b.mu.Unlock()
	if err != nil {
		return Howl{}, err
	}

	b.broadcast(h)
	return h, nil
}

func (b *Bridge) appendLine(line []byte) error {
	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &types.StoreIOError{Op: "open", Path: b.path, Err: err}
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return &types.StoreIOError{Op: "append", Path: b.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.StoreIOError{Op: "close", Path: b.path, Err: err}
	}
	return nil
}

// Alert sends a high-priority alert to the pack.
func (b *Bridge) Alert(from, message string) (Howl, error) {
	return b.Send(Howl{From: from, To: "pack", Message: "[ALERT] " + message, Frequency: FreqHigh})
}

// Resonance sends the pack-wide AUUUU call to the world.
func (b *Bridge) Resonance(from, message string) (Howl, error) {
	return b.Send(Howl{From: from, To: "world", Message: "AUUUUUUUUUUUUUUUUUU! " + message, Frequency: FreqAuuuu})
}

// Whisper sends a low-priority private message.
func (b *Bridge) Whisper(from, to, message string) (Howl, error) {
	return b.Send(Howl{From: from, To: to, Message: message, Frequency: FreqLow})
}

// Report sends a tagged report to the alpha.
func (b *Bridge) Report(from, category, content string) (Howl, error) {
	return b.Send(Howl{
		From:      from,
		To:        "alpha",
		Message:   "[" + strings.ToUpper(category) + "] " + content,
		Frequency: FreqMedium,
		Tags:      []string{category, "report"},
	})
}

// Filter narrows what Listen returns. Zero values match everything.
type Filter struct {
	From      string
	To        string
	Frequency Frequency
	Since     time.Time
	Tags      []string
	Limit     int
}

func (f Filter) match(h Howl) bool {
	if f.From != "" && h.From != f.From {
		return false
	}
	// Howls to the whole pack are audible to everyone.
	if f.To != "" && h.To != f.To && h.To != "pack" {
		return false
	}
	if f.Frequency != "" && h.Frequency != f.Frequency {
		return false
	}
	if !f.Since.IsZero() && h.Timestamp.Before(f.Since) {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(h.Tags, f.Tags) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Listen returns the most recent matching howls in file order, capped
// at f.Limit (default 50).
func (b *Bridge) Listen(f Filter) ([]Howl, error) {
	howls, err := b.readAll()
	if err != nil {
		return nil, err
	}

	matched := howls[:0]
	for _, h := range howls {
		if f.match(h) {
			matched = append(matched, h)
		}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// Recent returns howls from the last given number of hours.
func (b *Bridge) Recent(hours int) ([]Howl, error) {
	return b.Listen(Filter{
		Since: time.Now().UTC().Add(-time.Duration(hours) * time.Hour),
		Limit: 1000,
	})
}

// Search returns up to limit howls whose message contains the query,
// case-insensitively.
func (b *Bridge) Search(query string, limit int) ([]Howl, error) {
	howls, err := b.readAll()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matched := howls[:0]
	for _, h := range howls {
		if strings.Contains(strings.ToLower(h.Message), q) {
			matched = append(matched, h)
		}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// readAll scans the bridge file. Malformed lines are skipped so one
// torn write cannot poison the whole log.
func (b *Bridge) readAll() ([]Howl, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &types.StoreIOError{Op: "open", Path: b.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var howls []Howl
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if h, ok := decodeLine(scanner.Bytes()); ok {
			howls = append(howls, h)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &types.StoreIOError{Op: "scan", Path: b.path, Err: err}
	}
	return howls, nil
}

func decodeLine(line []byte) (Howl, bool) {
	if len(strings.TrimSpace(string(line))) == 0 {
		return Howl{}, false
	}
	var h Howl
	if err := json.Unmarshal(line, &h); err != nil {
		return Howl{}, false
	}
	return h, true
}

// Stats summarizes bridge traffic.
type Stats struct {
	Total       int            `json:"total_howls"`
	ByWolf      map[string]int `json:"by_wolf"`
	ByFrequency map[string]int `json:"by_frequency"`
	Last24h     int            `json:"last_24h"`
	LastHour    int            `json:"last_hour"`
}

// Stats tallies the whole bridge file.
func (b *Bridge) Stats() (Stats, error) {
	howls, err := b.readAll()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Total:  len(howls),
		ByWolf: make(map[string]int),
		ByFrequency: map[string]int{
			string(FreqLow):    0,
			string(FreqMedium): 0,
			string(FreqHigh):   0,
			string(FreqAuuuu):  0,
		},
	}

	now := time.Now().UTC()
	hourAgo := now.Add(-time.Hour)
	dayAgo := now.Add(-24 * time.Hour)

	for _, h := range howls {
		stats.ByWolf[h.From]++
		stats.ByFrequency[string(h.Frequency)]++
		if !h.Timestamp.Before(dayAgo) {
			stats.Last24h++
		}
		if !h.Timestamp.Before(hourAgo) {
			stats.LastHour++
		}
	}
	return stats, nil
}

// Subscribe registers fn for howls routed to the named channel. The
// pack channel hears everything; an AUUUU howl reaches every channel.
func (b *Bridge) Subscribe(channel string, fn func(Howl)) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.subs[channel] = append(b.subs[channel], fn)
}

func (b *Bridge) broadcast(h Howl) {
	b.subMu.Lock()
	var targets []func(Howl)
	if h.Frequency == FreqAuuuu {
		for _, fns := range b.subs {
			targets = append(targets, fns...)
		}
	} else {
		targets = append(targets, b.subs[h.To]...)
		if h.To != "pack" {
			targets = append(targets, b.subs["pack"]...)
		}
	}
	b.subMu.Unlock()

	for _, fn := range targets {
		notify(fn, h)
	}
}

// notify shields the bridge from a panicking subscriber.
func notify(fn func(Howl), h Howl) {
	defer func() { _ = recover() }()
	fn(h)
}
