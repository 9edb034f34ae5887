package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type RegistrationHandler struct {
	workspaces WorkspaceProvider
}

func NewRegistrationHandler(workspaces WorkspaceProvider) *RegistrationHandler {
	return &RegistrationHandler{workspaces: workspaces}
}

type ToggleRequest struct {
	Field   string `json:"field" binding:"required"`
	Option  string `json:"option" binding:"required"`
	Checked bool   `json:"checked"`
}

type PlanRequest struct {
	Plan string `json:"plan"`
}

// RegistrationPage is the registration screen: the onboarding stepper with
// the wizard state.
type RegistrationPage struct {
	Progress service.Progress    `json:"progress"`
	Wizard   service.WizardState `json:"wizard"`
}

func registrationPage(ws *service.Workspace) RegistrationPage {
	return RegistrationPage{
		Progress: service.NewProgress(model.OnboardingSteps(), model.StepRegistration, nil),
		Wizard:   ws.Wizard.Snapshot(),
	}
}

// Get returns the wizard state
func (h *RegistrationHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, currentWorkspace(c, h.workspaces).Wizard.Snapshot())
}

// SetFields updates text fields, e.g. {"businessName":"Acme"}
func (h *RegistrationHandler) SetFields(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	state, err := currentWorkspace(c, h.workspaces).Wizard.SetFields(fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Toggle checks or unchecks one industry or platform option
func (h *RegistrationHandler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	state, err := currentWorkspace(c, h.workspaces).Wizard.Toggle(req.Field, req.Option, req.Checked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SelectPlan chooses trial or annual
func (h *RegistrationHandler) SelectPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	state, err := currentWorkspace(c, h.workspaces).Wizard.SelectPlan(model.SubscriptionPlan(req.Plan))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *RegistrationHandler) Next(c *gin.Context) {
	state, err := currentWorkspace(c, h.workspaces).Wizard.Next(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *RegistrationHandler) Previous(c *gin.Context) {
	c.JSON(http.StatusOK, currentWorkspace(c, h.workspaces).Wizard.Previous())
}

// SaveDraft stores the form under the user's draft slot
func (h *RegistrationHandler) SaveDraft(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	if err := ws.Wizard.SaveDraft(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Wizard.Snapshot())
}

// LoadDraft restores the saved draft. With no saved draft the form is left
// as it is and loaded is false.
func (h *RegistrationHandler) LoadDraft(c *gin.Context) {
	ws := currentWorkspace(c, h.workspaces)
	loaded, err := ws.Wizard.LoadDraft(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loaded": loaded,
		"wizard": ws.Wizard.Snapshot(),
	})
}

// Submit validates and files the registration
func (h *RegistrationHandler) Submit(c *gin.Context) {
	state, err := currentWorkspace(c, h.workspaces).Wizard.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wizard":   state,
		"redirect": "/",
	})
}
