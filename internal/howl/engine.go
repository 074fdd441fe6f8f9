package howl

import (
	"fmt"

	"github.com/DerithAI/WOLF-AI/internal/hunt"
	"github.com/DerithAI/WOLF-AI/models"
)

// Append satisfies the hunt engine's audit sink. Errors are dropped on
// the floor: losing an event must never fail a hunt transition.
func (b *Bridge) Append(e hunt.Event) {
	msg := fmt.Sprintf("hunt %s %s", e.HuntID, e.To)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	_, _ = b.Send(Howl{
		From:      e.Assignee,
		To:        "pack",
		Message:   msg,
		Frequency: eventFrequency(e.To),
		Timestamp: e.At,
		Tags:      []string{"hunt", string(e.To)},
		Metadata: map[string]string{
			"hunt_id":     e.HuntID,
			"from_status": string(e.From),
			"to_status":   string(e.To),
		},
	})
}

func eventFrequency(to models.HuntStatus) Frequency {
	switch to {
	case models.StatusFailed:
		return FreqHigh
	case models.StatusActive:
		return FreqLow
	default:
		return FreqMedium
	}
}
