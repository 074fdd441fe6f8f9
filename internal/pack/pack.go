package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/types"
)

const stateFileName = "state.json"

// PackStatus is the collective lifecycle state.
type PackStatus string

const (
	PackDormant PackStatus = "dormant"
	PackFormed  PackStatus = "formed"
	PackActive  PackStatus = "active"
	PackResting PackStatus = "resting"
)

// Pack is the wolf roster with persisted state. All methods are safe
// for concurrent use. Roster changes are announced on the bridge when
// one is wired; a failing bridge never fails a roster operation.
type Pack struct {
	mu        sync.Mutex
	statePath string
	bridge    *howl.Bridge

	wolves    map[string]Wolf
	status    PackStatus
	formedAt  *time.Time
	resonance bool
}

// packState is the persisted shape of the pack. Wolf entries carry
// their name as the map key only.
type packState struct {
	Version     string               `json:"version"`
	PackStatus  PackStatus           `json:"pack_status"`
	FormedAt    *time.Time           `json:"formed_at"`
	LastUpdated time.Time            `json:"last_updated"`
	Resonance   bool                 `json:"resonance_active"`
	Wolves      map[string]stateWolf `json:"wolves"`
}

type stateWolf struct {
	Role        string     `json:"role"`
	Status      WolfStatus `json:"status"`
	Model       string     `json:"model"`
	CurrentHunt string     `json:"current_hunt"`
	AwakenedAt  *time.Time `json:"awakened_at"`
}

const stateVersion = "1.0"

// New opens the pack state under dir, creating a dormant empty pack
// when no state file exists yet. bridge may be nil.
func New(dir string, bridge *howl.Bridge) (*Pack, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StoreIOError{Op: "mkdir", Path: dir, Err: err}
	}
	p := &Pack{
		statePath: filepath.Join(dir, stateFileName),
		bridge:    bridge,
		wolves:    make(map[string]Wolf),
		status:    PackDormant,
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

// StatePath returns the location of the persisted pack state.
func (p *Pack) StatePath() string { return p.statePath }

func (p *Pack) load() error {
	data, err := os.ReadFile(p.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &types.StoreIOError{Op: "read", Path: p.statePath, Err: err}
	}
	var st packState
	if err := json.Unmarshal(data, &st); err != nil {
		return &types.StoreIOError{Op: "decode", Path: p.statePath, Err: err}
	}
	p.status = st.PackStatus
	if p.status == "" {
		p.status = PackDormant
	}
	p.formedAt = st.FormedAt
	p.resonance = st.Resonance
	p.wolves = make(map[string]Wolf, len(st.Wolves))
	for name, w := range st.Wolves {
		p.wolves[name] = Wolf{
			Name:        name,
			Role:        w.Role,
			Model:       w.Model,
			Status:      w.Status,
			CurrentHunt: w.CurrentHunt,
			AwakenedAt:  w.AwakenedAt,
		}
	}
	return nil
}

// save persists the current state atomically. Callers hold p.mu.
func (p *Pack) save() error {
	st := packState{
		Version:     stateVersion,
		PackStatus:  p.status,
		FormedAt:    p.formedAt,
		LastUpdated: time.Now().UTC(),
		Resonance:   p.resonance,
		Wolves:      make(map[string]stateWolf, len(p.wolves)),
	}
	for name, w := range p.wolves {
		st.Wolves[name] = stateWolf{
			Role:        w.Role,
			Status:      w.Status,
			Model:       w.Model,
			CurrentHunt: w.CurrentHunt,
			AwakenedAt:  w.AwakenedAt,
		}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return &types.StoreIOError{Op: "encode", Path: p.statePath, Err: err}
	}
	tmp := p.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &types.StoreIOError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, p.statePath); err != nil {
		return &types.StoreIOError{Op: "rename", Path: p.statePath, Err: err}
	}
	return nil
}

// Form installs the founding roster dormant and marks the pack formed.
// Forming again resets the roster.
func (p *Pack) Form() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wolves = map[string]Wolf{
		"alpha":  NewAlpha(),
		"scout":  NewScout(),
		"hunter": NewHunter(),
		"oracle": NewOracle(),
		"shadow": NewShadow(),
	}
	p.status = PackFormed
	now := time.Now().UTC()
	p.formedAt = &now
	return p.save()
}

// Awaken activates every wolf and announces the pack. A dormant pack
// is formed first.
func (p *Pack) Awaken() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.wolves) == 0 {
		p.wolves = map[string]Wolf{
			"alpha":  NewAlpha(),
			"scout":  NewScout(),
			"hunter": NewHunter(),
			"oracle": NewOracle(),
			"shadow": NewShadow(),
		}
		now := time.Now().UTC()
		p.formedAt = &now
	}
	now := time.Now().UTC()
	for name, w := range p.wolves {
		w.Status = WolfActive
		w.AwakenedAt = &now
		p.wolves[name] = w
		p.wolfHowl(w.Name, fmt.Sprintf("%s awakens. Role: %s. Ready to hunt.", w.Name, w.Role), howl.FreqMedium)
	}
	p.status = PackActive
	if err := p.save(); err != nil {
		return err
	}
	p.collectiveHowl("PACK AWAKENED! All wolves active. AUUUUUUUUUUUUUUUUUU!", howl.FreqAuuuu)
	return nil
}

// Rest puts every wolf to rest and clears their current hunts.
func (p *Pack) Rest() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, w := range p.wolves {
		w.Status = WolfResting
		w.CurrentHunt = ""
		p.wolves[name] = w
		p.wolfHowl(w.Name, fmt.Sprintf("%s entering rest state.", w.Name), howl.FreqLow)
	}
	p.status = PackResting
	return p.save()
}

// AddWolf adds or replaces a roster member. A zero status defaults to
// dormant.
func (p *Pack) AddWolf(w Wolf) error {
	if w.Status == "" {
		w.Status = WolfDormant
	}
	if err := models.ValidateStruct(w); err != nil {
		return types.NewValidationError("wolf", err.Error())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wolves[w.Name] = w
	return p.save()
}

// RemoveWolf drops a member from the roster.
func (p *Pack) RemoveWolf(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.wolves[name]; !ok {
		return types.NewValidationError("wolf", fmt.Sprintf("unknown wolf %q", name))
	}
	delete(p.wolves, name)
	return p.save()
}

// Wolf returns a copy of the named member.
func (p *Pack) Wolf(name string) (Wolf, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.wolves[name]
	return w, ok
}

// Wolves lists the roster, founding members first in their customary
// order, the rest alphabetically.
func (p *Pack) Wolves() []Wolf {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Wolf, 0, len(p.wolves))
	seen := make(map[string]bool, len(foundingOrder))
	for _, name := range foundingOrder {
		if w, ok := p.wolves[name]; ok {
			out = append(out, w)
			seen[name] = true
		}
	}
	rest := make([]Wolf, 0, len(p.wolves))
	for name, w := range p.wolves {
		if !seen[name] {
			rest = append(rest, w)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })
	return append(out, rest...)
}

// Known reports roster membership. It is the assignee check wired into
// the hunt store.
func (p *Pack) Known(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.wolves[name]
	return ok
}

// Size returns the roster size.
func (p *Pack) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.wolves)
}

// AssignHunt marks a wolf as hunting the given target.
func (p *Pack) AssignHunt(name, target string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.wolves[name]
	if !ok {
		return types.NewValidationError("wolf", fmt.Sprintf("unknown wolf %q", name))
	}
	w.CurrentHunt = target
	w.Status = WolfActive
	p.wolves[name] = w
	if err := p.save(); err != nil {
		return err
	}
	p.wolfHowl(name, fmt.Sprintf("Beginning hunt: %s", target), howl.FreqHigh)
	return nil
}

// FinishHunt clears a wolf's current hunt. No-op when the wolf was
// idle.
func (p *Pack) FinishHunt(name, result string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.wolves[name]
	if !ok {
		return types.NewValidationError("wolf", fmt.Sprintf("unknown wolf %q", name))
	}
	if w.CurrentHunt == "" {
		return nil
	}
	msg := fmt.Sprintf("Hunt complete: %s", w.CurrentHunt)
	if result != "" {
		msg += fmt.Sprintf(" | Result: %s", result)
	}
	w.CurrentHunt = ""
	p.wolves[name] = w
	if err := p.save(); err != nil {
		return err
	}
	p.wolfHowl(name, msg, howl.FreqMedium)
	return nil
}

// Lurk moves a wolf into stealth. Silent, no howl.
func (p *Pack) Lurk(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.wolves[name]
	if !ok {
		return types.NewValidationError("wolf", fmt.Sprintf("unknown wolf %q", name))
	}
	w.Status = WolfLurking
	p.wolves[name] = w
	return p.save()
}

// ActivateResonance switches on collective mode. The alpha calls it in
// first when present.
func (p *Pack) ActivateResonance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resonance = true
	if _, ok := p.wolves["alpha"]; ok {
		p.wolfHowl("alpha", "AUUUUUUUUUUUUUUUUUU! Pack resonance activated!", howl.FreqAuuuu)
	}
	p.collectiveHowl("RESONANCE ACTIVATED - Pack consciousness unified", howl.FreqAuuuu)
	return p.save()
}

// DeactivateResonance switches collective mode back off.
func (p *Pack) DeactivateResonance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resonance = false
	p.collectiveHowl("Resonance deactivated - Returning to normal operations", howl.FreqMedium)
	return p.save()
}

// Broadcast howls a message from the whole pack.
func (p *Pack) Broadcast(message string, freq howl.Frequency) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if freq == "" {
		freq = howl.FreqMedium
	}
	p.collectiveHowl("[BROADCAST] "+message, freq)
}

// Status returns the collective lifecycle state.
func (p *Pack) Status() PackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// FormedAt returns when the pack was formed, nil when never formed.
func (p *Pack) FormedAt() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.formedAt
}

// Resonance reports whether collective mode is on.
func (p *Pack) Resonance() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resonance
}

// Report is a point-in-time view of the pack.
type Report struct {
	Status    PackStatus `json:"pack_status"`
	FormedAt  *time.Time `json:"formed_at,omitempty"`
	Resonance bool       `json:"resonance_active"`
	Wolves    []Wolf     `json:"wolves"`
}

// Report snapshots the roster. Hunt counts live in the hunt store and
// are composed by callers that have one.
func (p *Pack) Report() Report {
	return Report{
		Status:    p.Status(),
		FormedAt:  p.FormedAt(),
		Resonance: p.Resonance(),
		Wolves:    p.Wolves(),
	}
}

// wolfHowl announces on behalf of one wolf. Callers hold p.mu.
func (p *Pack) wolfHowl(from, message string, freq howl.Frequency) {
	if p.bridge == nil {
		return
	}
	_, _ = p.bridge.Send(howl.Howl{
		From:      from,
		To:        "pack",
		Message:   message,
		Frequency: freq,
	})
}

// collectiveHowl announces on behalf of the whole pack. Callers hold
// p.mu.
func (p *Pack) collectiveHowl(message string, freq howl.Frequency) {
	if p.bridge == nil {
		return
	}
	_, _ = p.bridge.Send(howl.Howl{
		From:      "pack",
		To:        "world",
		Message:   message,
		Frequency: freq,
		Metadata:  map[string]string{"wolves_count": strconv.Itoa(len(p.wolves))},
	})
}
