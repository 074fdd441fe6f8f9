package server

import (
	"time"

	"github.com/DerithAI/WOLF-AI/internal/pack"
	"github.com/DerithAI/WOLF-AI/models"
)

// AddHuntRequest is the payload for POST /api/hunts. Zero retry_limit
// and timeout_seconds fall back to the store defaults.
type AddHuntRequest struct {
	Directive      string `json:"directive" binding:"required"`
	Assignee       string `json:"assignee"`
	Priority       string `json:"priority"`
	RetryLimit     int    `json:"retry_limit"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// RunHuntRequest is the payload for POST /api/hunts/run.
type RunHuntRequest struct {
	Directive string `json:"directive" binding:"required"`
	Assignee  string `json:"assignee"`
}

// HowlRequest is the payload for POST /api/howl. Howls sent through
// the API come from "commander".
type HowlRequest struct {
	Message   string `json:"message" binding:"required"`
	To        string `json:"to"`
	Frequency string `json:"frequency"`
}

// PackStatus is the pack portion of GET /api/status: the roster plus
// a view of what is currently running.
type PackStatus struct {
	pack.Report
	ActiveHunts int           `json:"active_hunts"`
	Hunts       []models.Hunt `json:"hunts"`
}

// StatusResponse is the envelope for GET /api/status.
type StatusResponse struct {
	Status    string     `json:"status"`
	Pack      PackStatus `json:"pack"`
	Timestamp time.Time  `json:"timestamp"`
}
