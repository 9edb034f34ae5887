package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/middleware"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type ApprovalHandler struct {
	workspaces WorkspaceProvider
}

func NewApprovalHandler(workspaces WorkspaceProvider) *ApprovalHandler {
	return &ApprovalHandler{workspaces: workspaces}
}

type DecisionRequest struct {
	Remarks string `json:"remarks"`
}

// List returns applications grouped for review
func (h *ApprovalHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, currentWorkspace(c, h.workspaces).Approvals.Board())
}

// Approve approves a pending application; remarks are optional
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.decide(c, (*service.ApprovalService).Approve)
}

// Reject rejects a pending application; remarks are required
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.decide(c, (*service.ApprovalService).Reject)
}

type decision func(s *service.ApprovalService, ctx context.Context, id, remarks string) (model.Application, error)

func (h *ApprovalHandler) decide(c *gin.Context, fn decision) {
	var req DecisionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	app, err := fn(currentWorkspace(c, h.workspaces).Approvals, c.Request.Context(), c.Param("id"), req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"reviewedBy":  middleware.GetEmail(c),
	})
}
