package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type PaymentHandler struct {
	workspaces WorkspaceProvider
}

func NewPaymentHandler(workspaces WorkspaceProvider) *PaymentHandler {
	return &PaymentHandler{workspaces: workspaces}
}

// PaymentsPage is the payments screen.
type PaymentsPage struct {
	Header       service.Header        `json:"header"`
	Progress     service.Progress      `json:"progress"`
	Payments     []model.Payment       `json:"payments"`
	Totals       service.PaymentTotals `json:"totals"`
	Subscription model.Subscription    `json:"subscription"`
}

func paymentsPage(ws *service.Workspace) PaymentsPage {
	ps := ws.Payments
	return PaymentsPage{
		Header:       ps.Header(),
		Progress:     ps.Progress(),
		Payments:     ps.List(),
		Totals:       ps.Totals(),
		Subscription: ps.Subscription(),
	}
}

// List returns the payments screen
func (h *PaymentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, paymentsPage(currentWorkspace(c, h.workspaces)))
}

// PayNow starts the simulated gateway. The payment settles asynchronously;
// poll the payments list or the notifications to see it complete.
func (h *PaymentHandler) PayNow(c *gin.Context) {
	id := c.Param("id")
	if err := currentWorkspace(c, h.workspaces).Payments.PayNow(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "processing"})
}
