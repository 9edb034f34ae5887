package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/middleware"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
	"github.com/greatchat/onboarding/backend/service"
)

// WorkspaceProvider resolves a user's workspace, creating it on first use.
type WorkspaceProvider interface {
	Get(owner string) *service.Workspace
}

func currentWorkspace(c *gin.Context, p WorkspaceProvider) *service.Workspace {
	return p.Get(middleware.GetEmail(c))
}

// respondError maps service errors onto status codes. Anything unexpected is
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  verr.Error(),
			"title":  verr.Title,
			"fields": verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrScopeClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session workspace closed, please retry"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		logger.Error(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindOptionalJSON binds a JSON body when one was sent, chunked or not. An
// empty body leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) error {
	body := c.Request.Body
	if body == nil || body == http.NoBody || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	logger.Warn(c.Request.Context(), "route not found", "path", c.Request.URL.Path)
	c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
}
