package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
	"github.com/DerithAI/WOLF-AI/types"
)

// fail writes the JSON error envelope with a status derived from the
// error taxonomy: validation 400, unknown id 404, already-terminal
// 409, anything else 500.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case types.IsValidation(err):
		status = http.StatusBadRequest
	case types.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyTerminal):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"status": "error", "error": err.Error()})
}

func (s *Server) handleStatus(c *gin.Context) {
	active, err := s.store.List(func(h models.Hunt) bool { return h.Status == models.StatusActive }, nil)
	if err != nil {
		fail(c, err)
		return
	}
	preview := active
	if len(preview) > 5 {
		preview = preview[:5]
	}
	c.JSON(http.StatusOK, StatusResponse{
		Status: "ok",
		Pack: PackStatus{
			Report:      s.pack.Report(),
			ActiveHunts: len(active),
			Hunts:       preview,
		},
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleAwaken(c *gin.Context) {
	if err := s.pack.Awaken(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Pack awakened!",
		"pack":    s.pack.Report(),
	})
}

func (s *Server) handleAddHunt(c *gin.Context) {
	var req AddHuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, types.NewValidationError("body", err.Error()))
		return
	}
	priority := models.HuntPriority(req.Priority)
	created, err := s.store.Add(models.ParseDirective(req.Directive), req.Assignee, priority, req.RetryLimit, req.TimeoutSeconds)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "hunt": created})
}

func (s *Server) handleListHunts(c *gin.Context) {
	var filter func(models.Hunt) bool
	if raw := c.Query("status"); raw != "" {
		want, err := models.ParseStatus(raw)
		if err != nil {
			fail(c, types.NewValidationError("status", err.Error()))
			return
		}
		filter = func(h models.Hunt) bool { return h.Status == want }
	}
	hunts, err := s.store.List(filter, nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(hunts), "hunts": hunts})
}

func (s *Server) handleGetHunt(c *gin.Context) {
	h, err := s.store.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "hunt": h})
}

func (s *Server) handleCancelHunt(c *gin.Context) {
	h, err := s.store.Cancel(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "hunt": h})
}

func (s *Server) handleRunNow(c *gin.Context) {
	var req RunHuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, types.NewValidationError("body", err.Error()))
		return
	}
	h, err := s.runner.RunNow(c.Request.Context(), models.ParseDirective(req.Directive), req.Assignee)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "hunt": h})
}

func (s *Server) handleSendHowl(c *gin.Context) {
	var req HowlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, types.NewValidationError("body", err.Error()))
		return
	}
	freq := howl.FreqMedium
	if req.Frequency != "" {
		parsed, err := howl.ParseFrequency(req.Frequency)
		if err != nil {
			fail(c, types.NewValidationError("frequency", err.Error()))
			return
		}
		freq = parsed
	}
	sent, err := s.bridge.Send(howl.Howl{
		From:      "commander",
		To:        req.To,
		Message:   req.Message,
		Frequency: freq,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "howl": sent})
}

func (s *Server) handleListHowls(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			fail(c, types.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = parsed
	}
	howls, err := s.bridge.Listen(howl.Filter{Limit: limit})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(howls), "howls": howls})
}
