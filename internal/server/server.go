// Package server exposes the moderation/admin HTTP API over the core
// services. The chat transport is a separate process entirely; it talks to
// the same store through these endpoints and implements the outbound
// notifier.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"truth-or-dare/internal/config"
	"truth-or-dare/internal/rating"
	"truth-or-dare/internal/rotation"
	"truth-or-dare/internal/similarity"
	"truth-or-dare/internal/submission"
)

type Server struct {
	cfg         config.Config
	log         *logrus.Logger
	rotation    *rotation.Service
	similarity  *similarity.Service
	submissions *submission.Service
	ratings     *rating.Service
}

func New(conn *gorm.DB, cfg config.Config, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		cfg:         cfg,
		log:         log,
		rotation:    rotation.NewService(conn),
		similarity:  similarity.NewService(conn),
		submissions: submission.NewService(conn, newLogNotifier(log), log),
		ratings:     rating.NewService(conn, time.Duration(cfg.RatingCacheTTLSeconds)*time.Second),
	}
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/prompts", s.handleListPrompts)
	api.POST("/prompts", s.handleCreatePrompt)
	api.GET("/prompts/next", s.handleNextPrompt)
	api.GET("/prompts/similar", s.handleFindSimilar)
	api.GET("/prompts/:id", s.handleGetPrompt)
	api.PUT("/prompts/:id", s.handleEditPrompt)
	api.DELETE("/prompts/:id", s.handleDeletePrompt)
	api.GET("/prompts/:id/ratings", s.handleGetCounts)
	api.POST("/prompts/:id/ratings", s.handleCastVote)

	api.POST("/submissions", s.handleCreateSubmission)
	api.GET("/submissions/pending", s.handleListPending)
	api.GET("/submissions/:id", s.handleGetSubmission)
	api.PUT("/submissions/:id/message", s.handleRecordModerationMessage)
	api.POST("/submissions/:id/approve", s.handleApprove)
	api.POST("/submissions/:id/reject", s.handleReject)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
