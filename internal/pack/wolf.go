// Package pack manages the wolf roster: the named personas hunts are
// assigned to, their lifecycle, and the persisted pack state.
package pack

import (
	"strings"
	"time"
)

// WolfStatus is a wolf's lifecycle state.
type WolfStatus string

const (
	WolfDormant WolfStatus = "dormant"
	WolfActive  WolfStatus = "active"
	WolfResting WolfStatus = "resting"
	WolfLurking WolfStatus = "lurking"
)

// Wolf is one pack member. Model names which backend the wolf speaks
// through; the engine itself never interprets it.
type Wolf struct {
	Name        string     `json:"name" validate:"required"`
	Role        string     `json:"role" validate:"required"`
	Model       string     `json:"model,omitempty"`
	Status      WolfStatus `json:"status" validate:"required,oneof=dormant active resting lurking"`
	CurrentHunt string     `json:"current_hunt,omitempty"`
	AwakenedAt  *time.Time `json:"awakened_at,omitempty"`
}

// Founding roster constructors with their customary models.

func NewAlpha() Wolf {
	return Wolf{Name: "alpha", Role: "leader", Model: "claude-opus", Status: WolfDormant}
}

func NewScout() Wolf {
	return Wolf{Name: "scout", Role: "explorer", Model: "claude-sonnet", Status: WolfDormant}
}

func NewHunter() Wolf {
	return Wolf{Name: "hunter", Role: "executor", Model: "ollama/llama3", Status: WolfDormant}
}

func NewOracle() Wolf {
	return Wolf{Name: "oracle", Role: "memory", Model: "gemini", Status: WolfDormant}
}

func NewShadow() Wolf {
	return Wolf{Name: "shadow", Role: "stealth", Model: "deepseek", Status: WolfDormant}
}

// foundingOrder is the canonical listing order of the core members.
var foundingOrder = []string{"alpha", "scout", "hunter", "oracle", "shadow"}

// FoundingWolf returns the named founding member, or false for a name
// outside the core roster.
func FoundingWolf(name string) (Wolf, bool) {
	switch strings.ToLower(name) {
	case "alpha":
		return NewAlpha(), true
	case "scout":
		return NewScout(), true
	case "hunter":
		return NewHunter(), true
	case "oracle":
		return NewOracle(), true
	case "shadow":
		return NewShadow(), true
	}
	return Wolf{}, false
}
