package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type ContractHandler struct {
	workspaces WorkspaceProvider
}

func NewContractHandler(workspaces WorkspaceProvider) *ContractHandler {
	return &ContractHandler{workspaces: workspaces}
}

type GenerateContractRequest struct {
	BusinessName string `json:"businessName"`
}

// ContractsPage is the contract management screen.
type ContractsPage struct {
	Header    service.Header        `json:"header"`
	Progress  service.Progress      `json:"progress"`
	Contracts []model.Contract      `json:"contracts"`
	Stats     service.ContractStats `json:"stats"`
}

func contractsPage(ws *service.Workspace) ContractsPage {
	cs := ws.Contracts
	return ContractsPage{
		Header:    cs.Header(),
		Progress:  cs.Progress(),
		Contracts: cs.List(),
		Stats:     cs.Stats(),
	}
}

// List returns the contracts screen
func (h *ContractHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, contractsPage(currentWorkspace(c, h.workspaces)))
}

// Generate creates a new pending agreement. The body is optional.
func (h *ContractHandler) Generate(c *gin.Context) {
	var req GenerateContractRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract := currentWorkspace(c, h.workspaces).Contracts.Generate(c.Request.Context(), req.BusinessName)
	c.JSON(http.StatusCreated, contract)
}

// Sign signs a pending or approved contract
func (h *ContractHandler) Sign(c *gin.Context) {
	contract, err := currentWorkspace(c, h.workspaces).Contracts.Sign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// Template renders the agreement preview for ?businessName=
func (h *ContractHandler) Template(c *gin.Context) {
	text := currentWorkspace(c, h.workspaces).Contracts.Template(c.Query("businessName"))
	c.JSON(http.StatusOK, gin.H{"template": text})
}
