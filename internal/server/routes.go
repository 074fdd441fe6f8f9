package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API endpoints.
func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "WOLF-AI Command Center", "api": "/api"})
	})

	api := s.engine.Group("/api")
	api.Use(requireAPIKey(s.cfg.APIKey))

	api.GET("/status", s.handleStatus)
	api.POST("/awaken", s.handleAwaken)

	api.POST("/hunts", s.handleAddHunt)
	api.GET("/hunts", s.handleListHunts)
	api.GET("/hunts/:id", s.handleGetHunt)
	api.POST("/hunts/:id/cancel", s.handleCancelHunt)
	api.POST("/hunts/run", s.handleRunNow)

	api.POST("/howl", s.handleSendHowl)
	api.GET("/howls", s.handleListHowls)
}
