package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetCounts(c *gin.Context) {
	promptID := c.Param("id")
	prompt, err := s.rotation.GetPrompt(promptID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if prompt == nil {
		s.respondNotFound(c)
		return
	}
	counts, err := s.ratings.GetCounts(promptID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	response := gin.H{"counts": counts}
	if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
		value, ok, err := s.ratings.GetUserVote(promptID, userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if ok {
			response["user_vote"] = value
		}
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleCastVote(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id"`
		Value  int    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	outcome, err := s.ratings.CastVote(c.Param("id"), req.UserID, req.Value)
	if err != nil {
		s.respondError(c, err)
		return
	}
	counts, err := s.ratings.GetCounts(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "counts": counts})
}
