package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"truth-or-dare/internal/db"
	"truth-or-dare/internal/similarity"
)

type promptResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Position  int       `json:"position"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPromptResponse(p *db.Prompt) promptResponse {
	return promptResponse{
		ID:        p.ID,
		Category:  string(p.Category),
		Position:  p.Position,
		Text:      p.Text,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type matchResponse struct {
	Prompt promptResponse `json:"prompt"`
	Score  float64        `json:"score"`
}

func toMatchResponses(matches []similarity.Match) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for i := range matches {
		out = append(out, matchResponse{
			Prompt: toPromptResponse(&matches[i].Prompt),
			Score:  matches[i].Score,
		})
	}
	return out
}

func (s *Server) handleListPrompts(c *gin.Context) {
	var category *db.Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		parsed, err := db.ParseCategory(raw)
		if err != nil {
			s.respondError(c, err)
			return
		}
		category = &parsed
	}
	prompts, err := s.rotation.ListPrompts(category)
	if err != nil {
		s.respondError(c, err)
		return
	}

	page, perPage := parsePagination(c, 50, 200)
	items, info := paginate(prompts, page, perPage)
	out := make([]promptResponse, 0, len(items))
	for i := range items {
		out = append(out, toPromptResponse(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"prompts": out, "pagination": info})
}

func (s *Server) handleCreatePrompt(c *gin.Context) {
	var req struct {
		Category  string `json:"category"`
		Text      string `json:"text"`
		CreatedBy string `json:"created_by"`
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
	prompt, err := s.rotation.AddPrompt(category, req.Text, req.CreatedBy)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPromptResponse(prompt))
}

func (s *Server) handleNextPrompt(c *gin.Context) {
	category, err := db.ParseCategory(c.Query("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	prompt, err := s.rotation.NextPrompt(category)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if prompt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no prompts in category"})
		return
	}
	c.JSON(http.StatusOK, toPromptResponse(prompt))
}

func (s *Server) handleFindSimilar(c *gin.Context) {
	category, err := db.ParseCategory(c.Query("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	text := c.Query("text")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	matches, err := s.similarity.FindSimilar(text, category, s.cfg.SimilarityThreshold, s.cfg.SimilarityLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": toMatchResponses(matches)})
}

func (s *Server) handleGetPrompt(c *gin.Context) {
	prompt, err := s.rotation.GetPrompt(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if prompt == nil {
		s.respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, toPromptResponse(prompt))
}

func (s *Server) handleEditPrompt(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	changed, err := s.rotation.EditPrompt(c.Param("id"), req.Text)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !changed {
		s.respondNotFound(c)
		return
	}
	prompt, err := s.rotation.GetPrompt(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPromptResponse(prompt))
}

func (s *Server) handleDeletePrompt(c *gin.Context) {
	changed, err := s.rotation.DeletePrompt(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !changed {
		s.respondNotFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}
