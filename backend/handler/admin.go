package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/middleware"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type AdminHandler struct {
	workspaces WorkspaceProvider
}

func NewAdminHandler(workspaces WorkspaceProvider) *AdminHandler {
	return &AdminHandler{workspaces: workspaces}
}

// AdminPage is the manual payments screen.
type AdminPage struct {
	Businesses []model.Business             `json:"businesses"`
	Payments   []model.ManualPayment        `json:"payments"`
	Summary    service.ManualPaymentSummary `json:"summary"`
}

func adminPage(ws *service.Workspace) AdminPage {
	ap := ws.AdminPayments
	return AdminPage{
		Businesses: ap.Businesses(),
		Payments:   ap.List(),
		Summary:    ap.Summary(),
	}
}

// ListPayments returns the manual payments screen
func (h *AdminHandler) ListPayments(c *gin.Context) {
	c.JSON(http.StatusOK, adminPage(currentWorkspace(c, h.workspaces)))
}

// AddPayment records a post-dated cheque. An unknown business is ignored
// and answered with added=false.
func (h *AdminHandler) AddPayment(c *gin.Context) {
	var req service.ManualPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	p, added, err := currentWorkspace(c, h.workspaces).AdminPayments.AddPayment(c.Request.Context(), req, middleware.GetEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, gin.H{"added": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true, "payment": p})
}
