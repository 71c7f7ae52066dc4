package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"truth-or-dare/internal/errs"
)

// respondError maps the core error taxonomy onto HTTP statuses. Anything
// unclassified is a store failure: logged here, opaque to the client.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case stderrors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case stderrors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already processed"})
	case stderrors.Is(err, errs.ErrIDExhausted):
		s.log.WithError(err).Error("id generation exhausted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (s *Server) respondAlreadyProcessed(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{"error": "already processed"})
}
