package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"truth-or-dare/internal/db"
)

type submissionResponse struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Text          string     `json:"text"`
	SubmitterID   string     `json:"submitter_id"`
	OriginGuildID string     `json:"origin_guild_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	ResolverID    string     `json:"resolver_id,omitempty"`
}

func toSubmissionResponse(sub *db.Submission) submissionResponse {
	return submissionResponse{
		ID:            sub.ID,
		Category:      string(sub.Category),
		Text:          sub.Text,
		SubmitterID:   sub.SubmitterID,
		OriginGuildID: sub.OriginGuildID,
		Status:        string(sub.Status),
		CreatedAt:     sub.CreatedAt,
		ResolvedAt:    sub.ResolvedAt,
		ResolverID:    sub.ResolverID,
	}
}

// handleCreateSubmission runs the similarity gate before accepting: when
// near-duplicates exist the submission is held back with the ranked matches
// so the submitter can compare, and confirm=true pushes it through anyway.
func (s *Server) handleCreateSubmission(c *gin.Context) {
	var req struct {
		Category      string `json:"category"`
		Text          string `json:"text"`
		SubmitterID   string `json:"submitter_id"`
		OriginGuildID string `json:"origin_guild_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := db.ParseCategory(req.Category)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if c.Query("confirm") != "true" {
		matches, err := s.similarity.FindSimilar(req.Text, category, s.cfg.SimilarityThreshold, s.cfg.SimilarityLimit)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if len(matches) > 0 {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "similar prompts already exist",
				"matches": toMatchResponses(matches),
			})
			return
		}
	}

	sub, err := s.submissions.Create(category, req.Text, req.SubmitterID, req.OriginGuildID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubmissionResponse(sub))
}

func (s *Server) handleListPending(c *gin.Context) {
	pending, err := s.submissions.ListPending()
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]submissionResponse, 0, len(pending))
	for i := range pending {
		out = append(out, toSubmissionResponse(&pending[i]))
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}

func (s *Server) handleGetSubmission(c *gin.Context) {
	sub, err := s.submissions.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if sub == nil {
		s.respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, toSubmissionResponse(sub))
}

func (s *Server) handleRecordModerationMessage(c *gin.Context) {
	var req struct {
		ChannelID string `json:"channel_id"`
		MessageID string `json:"message_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	changed, err := s.submissions.RecordModerationMessage(c.Param("id"), req.ChannelID, req.MessageID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// handleApprove creates the prompt first and resolves the submission second,
// so a failed prompt creation leaves the submission pending and retryable.
// When a racing moderator wins the resolve, the freshly created prompt is
// rolled back and the loser is told the submission was already processed.
func (s *Server) handleApprove(c *gin.Context) {
	var req struct {
		ResolverID string `json:"resolver_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sub, err := s.submissions.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if sub == nil {
		s.respondNotFound(c)
		return
	}
	if sub.Status != db.SubmissionPending {
		s.respondAlreadyProcessed(c)
		return
	}

	prompt, err := s.rotation.AddPrompt(sub.Category, sub.Text, sub.SubmitterID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.submissions.Resolve(sub.ID, db.SubmissionApproved, req.ResolverID, prompt.ID, ""); err != nil {
		if _, delErr := s.rotation.DeletePrompt(prompt.ID); delErr != nil {
			s.log.WithError(delErr).WithField("prompt", prompt.ID).
				Error("failed to roll back prompt after unresolved approval")
		}
		s.respondError(c, err)
		return
	}

	sub, err = s.submissions.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submission": toSubmissionResponse(sub),
		"prompt":     toPromptResponse(prompt),
	})
}

func (s *Server) handleReject(c *gin.Context) {
	var req struct {
		ResolverID string `json:"resolver_id"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.submissions.Resolve(c.Param("id"), db.SubmissionRejected, req.ResolverID, "", req.Reason); err != nil {
		s.respondError(c, err)
		return
	}
	sub, err := s.submissions.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": toSubmissionResponse(sub)})
}
