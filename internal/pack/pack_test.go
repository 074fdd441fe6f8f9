package pack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
	"github.com/DerithAI/WOLF-AI/types"
)

func newTestPack(t *testing.T) (*Pack, *howl.Bridge) {
	t.Helper()
	dir := t.TempDir()
	bridge, err := howl.NewBridge(dir)
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	p, err := New(dir, bridge)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, bridge
}

func howlsFrom(t *testing.T, bridge *howl.Bridge, from string) []howl.Howl {
	t.Helper()
	out, err := bridge.Listen(howl.Filter{From: from})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	return out
}

func TestFormInstallsFoundingRoster(t *testing.T) {
	p, _ := newTestPack(t)

	if err := p.Form(); err != nil {
		t.Fatalf("Form: %v", err)
	}
	if p.Status() != PackFormed {
		t.Fatalf("status = %s, want formed", p.Status())
	}
	if p.FormedAt() == nil {
		t.Fatal("FormedAt not set")
	}
	wolves := p.Wolves()
	if len(wolves) != 5 {
		t.Fatalf("roster size = %d, want 5", len(wolves))
	}
	wantOrder := []string{"alpha", "scout", "hunter", "oracle", "shadow"}
	for i, name := range wantOrder {
		if wolves[i].Name != name {
			t.Errorf("wolves[%d] = %s, want %s", i, wolves[i].Name, name)
		}
		if wolves[i].Status != WolfDormant {
			t.Errorf("%s status = %s, want dormant", name, wolves[i].Status)
		}
	}
	if w, _ := p.Wolf("alpha"); w.Role != "leader" || w.Model != "claude-opus" {
		t.Errorf("alpha = %+v, want leader on claude-opus", w)
	}
}

func TestAwakenFormsActivatesAndAnnounces(t *testing.T) {
	p, bridge := newTestPack(t)

	if err := p.Awaken(); err != nil {
		t.Fatalf("Awaken: %v", err)
	}
	if p.Status() != PackActive {
		t.Fatalf("status = %s, want active", p.Status())
	}
	for _, w := range p.Wolves() {
		if w.Status != WolfActive {
			t.Errorf("%s status = %s, want active", w.Name, w.Status)
		}
		if w.AwakenedAt == nil {
			t.Errorf("%s has no awakened_at", w.Name)
		}
	}

	collective := howlsFrom(t, bridge, "pack")
	if len(collective) != 1 {
		t.Fatalf("collective howls = %d, want 1", len(collective))
	}
	got := collective[0]
	if got.To != "world" || got.Frequency != howl.FreqAuuuu {
		t.Errorf("collective howl routed %s/%s, want world/AUUUU", got.To, got.Frequency)
	}
	if !strings.Contains(got.Message, "PACK AWAKENED") {
		t.Errorf("collective howl = %q", got.Message)
	}
	if got.Metadata["wolves_count"] != "5" {
		t.Errorf("wolves_count = %q, want 5", got.Metadata["wolves_count"])
	}

	scout := howlsFrom(t, bridge, "scout")
	if len(scout) != 1 || !strings.Contains(scout[0].Message, "scout awakens. Role: explorer") {
		t.Errorf("scout announcement = %+v", scout)
	}
}

func TestRestClearsCurrentHunts(t *testing.T) {
	p, bridge := newTestPack(t)
	if err := p.Awaken(); err != nil {
		t.Fatalf("Awaken: %v", err)
	}
	if err := p.AssignHunt("hunter", "track the elk herd"); err != nil {
		t.Fatalf("AssignHunt: %v", err)
	}
	if w, _ := p.Wolf("hunter"); w.CurrentHunt != "track the elk herd" {
		t.Fatalf("hunter current hunt = %q", w.CurrentHunt)
	}

	if err := p.Rest(); err != nil {
		t.Fatalf("Rest: %v", err)
	}
	if p.Status() != PackResting {
		t.Fatalf("status = %s, want resting", p.Status())
	}
	w, _ := p.Wolf("hunter")
	if w.Status != WolfResting || w.CurrentHunt != "" {
		t.Errorf("hunter after rest = %+v", w)
	}

	var restHowl bool
	for _, h := range howlsFrom(t, bridge, "hunter") {
		if strings.Contains(h.Message, "entering rest state") && h.Frequency == howl.FreqLow {
			restHowl = true
		}
	}
	if !restHowl {
		t.Error("no low-frequency rest announcement from hunter")
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	bridge, err := howl.NewBridge(dir)
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	p, err := New(dir, bridge)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Awaken(); err != nil {
		t.Fatalf("Awaken: %v", err)
	}
	if err := p.AssignHunt("scout", "map the northern ridge"); err != nil {
		t.Fatalf("AssignHunt: %v", err)
	}
	if err := p.ActivateResonance(); err != nil {
		t.Fatalf("ActivateResonance: %v", err)
	}
	formed := p.FormedAt()

	reopened, err := New(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status() != PackActive {
		t.Errorf("status = %s, want active", reopened.Status())
	}
	if !reopened.Resonance() {
		t.Error("resonance flag lost on reload")
	}
	if got := reopened.FormedAt(); got == nil || !got.Equal(*formed) {
		t.Errorf("formed_at = %v, want %v", got, formed)
	}
	w, ok := reopened.Wolf("scout")
	if !ok {
		t.Fatal("scout missing after reload")
	}
	if w.CurrentHunt != "map the northern ridge" || w.Role != "explorer" || w.AwakenedAt == nil {
		t.Errorf("scout after reload = %+v", w)
	}
	if reopened.Size() != 5 {
		t.Errorf("roster size = %d, want 5", reopened.Size())
	}
}

func TestKnownGatesStoreAssignees(t *testing.T) {
	p, _ := newTestPack(t)
	if err := p.Form(); err != nil {
		t.Fatalf("Form: %v", err)
	}

	st := store.NewFileHuntStore()
	cfg := map[string]string{"dataFile": filepath.Join(t.TempDir(), "hunts.json")}
	if err := st.Initialize(cfg); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	st.SetAssigneeCheck(p.Known)

	if _, err := st.Add(models.ParseDirective("note:patrol the valley"), "hunter", "", 0, 0); err != nil {
		t.Fatalf("Add with known assignee: %v", err)
	}
	_, err := st.Add(models.ParseDirective("note:patrol the valley"), "ghost", "", 0, 0)
	if !types.IsValidation(err) {
		t.Fatalf("Add with unknown assignee: err = %v, want validation error", err)
	}
}

func TestAddRemoveWolf(t *testing.T) {
	p, _ := newTestPack(t)
	if err := p.Form(); err != nil {
		t.Fatalf("Form: %v", err)
	}

	if err := p.AddWolf(Wolf{Name: "omega", Role: "courier"}); err != nil {
		t.Fatalf("AddWolf: %v", err)
	}
	w, ok := p.Wolf("omega")
	if !ok || w.Status != WolfDormant {
		t.Fatalf("omega = %+v, ok=%v", w, ok)
	}
	if !p.Known("omega") {
		t.Error("omega not known after add")
	}

	if err := p.AddWolf(Wolf{Name: "nameless"}); !types.IsValidation(err) {
		t.Errorf("AddWolf without role: err = %v, want validation error", err)
	}

	if err := p.RemoveWolf("omega"); err != nil {
		t.Fatalf("RemoveWolf: %v", err)
	}
	if p.Known("omega") {
		t.Error("omega still known after removal")
	}
	if err := p.RemoveWolf("omega"); !types.IsValidation(err) {
		t.Errorf("second RemoveWolf: err = %v, want validation error", err)
	}
}

func TestWolvesOrderPutsCustomMembersLast(t *testing.T) {
	p, _ := newTestPack(t)
	if err := p.Form(); err != nil {
		t.Fatalf("Form: %v", err)
	}
	for _, name := range []string{"omega", "beta"} {
		if err := p.AddWolf(Wolf{Name: name, Role: "courier"}); err != nil {
			t.Fatalf("AddWolf(%s): %v", name, err)
		}
	}
	var names []string
	for _, w := range p.Wolves() {
		names = append(names, w.Name)
	}
	want := []string{"alpha", "scout", "hunter", "oracle", "shadow", "beta", "omega"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestResonanceToggle(t *testing.T) {
	p, bridge := newTestPack(t)
	if err := p.Awaken(); err != nil {
		t.Fatalf("Awaken: %v", err)
	}

	if err := p.ActivateResonance(); err != nil {
		t.Fatalf("ActivateResonance: %v", err)
	}
	if !p.Resonance() {
		t.Fatal("resonance not active")
	}
	alpha := howlsFrom(t, bridge, "alpha")
	var called bool
	for _, h := range alpha {
		if h.Frequency == howl.FreqAuuuu && strings.Contains(h.Message, "resonance activated") {
			called = true
		}
	}
	if !called {
		t.Error("alpha did not call the resonance")
	}
	var announced bool
	for _, h := range howlsFrom(t, bridge, "pack") {
		if strings.Contains(h.Message, "RESONANCE ACTIVATED") {
			announced = true
		}
	}
	if !announced {
		t.Error("no collective resonance announcement")
	}

	if err := p.DeactivateResonance(); err != nil {
		t.Fatalf("DeactivateResonance: %v", err)
	}
	if p.Resonance() {
		t.Fatal("resonance still active")
	}
	var calmed bool
	for _, h := range howlsFrom(t, bridge, "pack") {
		if h.Frequency == howl.FreqMedium && strings.Contains(h.Message, "Resonance deactivated") {
			calmed = true
		}
	}
	if !calmed {
		t.Error("no deactivation announcement")
	}
}

func TestLurkIsSilent(t *testing.T) {
	p, bridge := newTestPack(t)
	if err := p.Form(); err != nil {
		t.Fatalf("Form: %v", err)
	}
	before, err := bridge.Listen(howl.Filter{})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	if err := p.Lurk("shadow"); err != nil {
		t.Fatalf("Lurk: %v", err)
	}
	w, _ := p.Wolf("shadow")
	if w.Status != WolfLurking {
		t.Fatalf("shadow status = %s, want lurking", w.Status)
	}

	after, err := bridge.Listen(howl.Filter{})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("lurk howled: %d -> %d messages", len(before), len(after))
	}
}

func TestAssignAndFinishHuntAnnouncements(t *testing.T) {
	p, bridge := newTestPack(t)
	if err := p.Awaken(); err != nil {
		t.Fatalf("Awaken: %v", err)
	}

	if err := p.AssignHunt("hunter", "bring down the stag"); err != nil {
		t.Fatalf("AssignHunt: %v", err)
	}
	if err := p.FinishHunt("hunter", "stag delivered"); err != nil {
		t.Fatalf("FinishHunt: %v", err)
	}

	var began, finished bool
	for _, h := range howlsFrom(t, bridge, "hunter") {
		switch {
		case strings.Contains(h.Message, "Beginning hunt: bring down the stag") && h.Frequency == howl.FreqHigh:
			began = true
		case strings.Contains(h.Message, "Hunt complete: bring down the stag | Result: stag delivered"):
			finished = true
		}
	}
	if !began || !finished {
		t.Errorf("hunt announcements missing: began=%v finished=%v", began, finished)
	}

	count := len(howlsFrom(t, bridge, "hunter"))
	if err := p.FinishHunt("hunter", "again"); err != nil {
		t.Fatalf("idle FinishHunt: %v", err)
	}
	if got := len(howlsFrom(t, bridge, "hunter")); got != count {
		t.Errorf("idle FinishHunt howled: %d -> %d", count, got)
	}

	if err := p.AssignHunt("ghost", "anything"); !types.IsValidation(err) {
		t.Errorf("AssignHunt to unknown wolf: err = %v, want validation error", err)
	}
}

func TestCorruptStateFileIsReported(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, stateFileName), []byte("{torn"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := New(dir, nil); !types.IsStoreIO(err) {
		t.Fatalf("New on corrupt state: err = %v, want store io error", err)
	}
}

func TestFoundingWolfLookup(t *testing.T) {
	w, ok := FoundingWolf("ALPHA")
	if !ok || w.Role != "leader" {
		t.Fatalf("FoundingWolf(ALPHA) = %+v, %v", w, ok)
	}
	if _, ok := FoundingWolf("ghost"); ok {
		t.Fatal("FoundingWolf accepted an unknown name")
	}
}
