package howl

import (
	"os"
	"strings"
	"testing"
	"time"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	b, err := NewBridge(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create bridge: %v", err)
	}
	return b
}

func TestSendStampsDefaults(t *testing.T) {
	b := newTestBridge(t)

	h, err := b.Send(Howl{From: "scout", Message: "tracks by the river"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if h.ID == "" {
		t.Error("expected a generated id")
	}
	if h.To != "pack" {
		t.Errorf("expected the pack default, got %q", h.To)
	}
	if h.Frequency != FreqMedium {
		t.Errorf("expected medium default, got %q", h.Frequency)
	}
	if h.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestListenFilters(t *testing.T) {
	b := newTestBridge(t)

	seed := []Howl{
		{From: "scout", To: "alpha", Message: "perimeter clear", Frequency: FreqLow},
		{From: "hunter", To: "pack", Message: "prey down", Frequency: FreqHigh},
		{From: "scout", To: "oracle", Message: "strange lights", Frequency: FreqHigh, Tags: []string{"omen"}},
	}
	for _, h := range seed {
		if _, err := b.Send(h); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}

	t.Run("by sender", func(t *testing.T) {
		got, err := b.Listen(Filter{From: "scout"})
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 howls from scout, got %d", len(got))
		}
	})

	t.Run("by recipient includes pack wide", func(t *testing.T) {
		got, err := b.Listen(Filter{To: "alpha"})
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		// The direct howl plus the pack-wide one.
		if len(got) != 2 {
			t.Fatalf("expected 2 howls audible to alpha, got %d", len(got))
		}
	})

	t.Run("by frequency", func(t *testing.T) {
		got, err := b.Listen(Filter{Frequency: FreqHigh})
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 high howls, got %d", len(got))
		}
	})

	t.Run("by tag", func(t *testing.T) {
		got, err := b.Listen(Filter{Tags: []string{"omen"}})
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		if len(got) != 1 || got[0].Message != "strange lights" {
			t.Fatalf("unexpected tagged howls: %+v", got)
		}
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		got, err := b.Listen(Filter{Limit: 1})
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		if len(got) != 1 || got[0].Message != "strange lights" {
			t.Fatalf("expected only the newest howl, got %+v", got)
		}
	})

	t.Run("since excludes the past", func(t *testing.T) {
		got, err := b.Listen(Filter{Since: time.Now().UTC().Add(time.Hour)})
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected nothing from the future, got %d", len(got))
		}
	})
}

func TestSearch(t *testing.T) {
	b := newTestBridge(t)

	if _, err := b.Send(Howl{From: "scout", Message: "Elk herd moving north"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := b.Send(Howl{From: "scout", Message: "river is frozen"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	got, err := b.Search("ELK", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0].Message, "Elk") {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestStats(t *testing.T) {
	b := newTestBridge(t)

	if _, err := b.Alert("alpha", "storm coming"); err != nil {
		t.Fatalf("alert failed: %v", err)
	}
	if _, err := b.Whisper("scout", "hunter", "split up"); err != nil {
		t.Fatalf("whisper failed: %v", err)
	}
	if _, err := b.Whisper("scout", "alpha", "found shelter"); err != nil {
		t.Fatalf("whisper failed: %v", err)
	}

	stats, err := b.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("expected 3 howls, got %d", stats.Total)
	}
	if stats.ByWolf["scout"] != 2 || stats.ByWolf["alpha"] != 1 {
		t.Errorf("unexpected per-wolf counts: %v", stats.ByWolf)
	}
	if stats.ByFrequency[string(FreqLow)] != 2 || stats.ByFrequency[string(FreqHigh)] != 1 {
		t.Errorf("unexpected frequency counts: %v", stats.ByFrequency)
	}
	if stats.Last24h != 3 || stats.LastHour != 3 {
		t.Errorf("unexpected recency counts: %+v", stats)
	}
}

func TestConvenienceShapes(t *testing.T) {
	b := newTestBridge(t)

	alert, err := b.Alert("alpha", "intruders")
	if err != nil {
		t.Fatalf("alert failed: %v", err)
	}
	if !strings.HasPrefix(alert.Message, "[ALERT] ") || alert.Frequency != FreqHigh || alert.To != "pack" {
		t.Errorf("unexpected alert shape: %+v", alert)
	}

	res, err := b.Resonance("alpha", "the hunt begins")
	if err != nil {
		t.Fatalf("resonance failed: %v", err)
	}
	if !strings.HasPrefix(res.Message, "AUUUU") || res.Frequency != FreqAuuuu || res.To != "world" {
		t.Errorf("unexpected resonance shape: %+v", res)
	}

	rep, err := b.Report("oracle", "weather", "clear skies tonight")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.HasPrefix(rep.Message, "[WEATHER] ") || rep.To != "alpha" {
		t.Errorf("unexpected report shape: %+v", rep)
	}
	if len(rep.Tags) != 2 || rep.Tags[0] != "weather" || rep.Tags[1] != "report" {
		t.Errorf("unexpected report tags: %v", rep.Tags)
	}
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	b := newTestBridge(t)

	if _, err := b.Send(Howl{From: "scout", Message: "before"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	f, err := os.OpenFile(b.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("failed to open bridge file: %v", err)
	}
	if _, err := f.WriteString("{torn line\n"); err != nil {
		t.Fatalf("failed to write garbage: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	if _, err := b.Send(Howl{From: "scout", Message: "after"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	got, err := b.Listen(Filter{})
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the 2 valid howls, got %d", len(got))
	}
	if got[0].Message != "before" || got[1].Message != "after" {
		t.Errorf("unexpected howls: %+v", got)
	}
}

func TestSubscribeRouting(t *testing.T) {
	b := newTestBridge(t)

	var packHeard, oracleHeard []string
	b.Subscribe("pack", func(h Howl) { packHeard = append(packHeard, h.Message) })
	b.Subscribe("oracle", func(h Howl) { oracleHeard = append(oracleHeard, h.Message) })
	b.Subscribe("alpha", func(Howl) { panic("bad subscriber") })

	if _, err := b.Whisper("scout", "alpha", "direct line"); err != nil {
		t.Fatalf("whisper failed: %v", err)
	}
	if _, err := b.Resonance("alpha", "gather"); err != nil {
		t.Fatalf("resonance failed: %v", err)
	}

	// The direct howl reaches the pack channel too; the resonance
	// reaches every channel, panicking subscriber included.
	if len(packHeard) != 2 {
		t.Errorf("pack channel heard %d howls, expected 2", len(packHeard))
	}
	if len(oracleHeard) != 1 || !strings.Contains(oracleHeard[0], "gather") {
		t.Errorf("oracle channel heard %v", oracleHeard)
	}
}

func TestBridgeReopenSeesHistory(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBridge(dir)
	if err != nil {
		t.Fatalf("failed to create bridge: %v", err)
	}
	sent, err := b.Send(Howl{From: "scout", Message: "first snow", Tags: []string{"season"}})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	again, err := NewBridge(dir)
	if err != nil {
		t.Fatalf("failed to reopen bridge: %v", err)
	}
	got, err := again.Listen(Filter{})
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 howl after reopen, got %d", len(got))
	}
	if got[0].ID != sent.ID || got[0].Message != sent.Message || got[0].Frequency != sent.Frequency {
		t.Errorf("howl did not survive the round trip: %+v vs %+v", got[0], sent)
	}
}
