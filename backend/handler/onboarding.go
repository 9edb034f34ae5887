package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

type OnboardingHandler struct {
	workspaces WorkspaceProvider
}

func NewOnboardingHandler(workspaces WorkspaceProvider) *OnboardingHandler {
	return &OnboardingHandler{workspaces: workspaces}
}

// ParsePending parses a comma separated list of step ids to mark pending,
// e.g. "3,4".
func ParsePending(raw string) (map[int]model.StepStatus, error) {
	if raw == "" {
		return nil, nil
	}
	overrides := make(map[int]model.StepStatus)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		overrides[id] = model.StepPending
	}
	return overrides, nil
}

// Progress computes the stepper. Without ?current= the user's own current
// step is used.
func (h *OnboardingHandler) Progress(c *gin.Context) {
	overrides, err := ParsePending(c.Query("pending"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pending must be a list of step ids"})
		return
	}

	steps := model.OnboardingSteps()
	var current int
	if raw := c.Query("current"); raw != "" {
		current, err = strconv.Atoi(raw)
		if err != nil || !service.StepInRange(steps, current) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("current must be a step id from 1 to %d", len(steps))})
			return
		}
	} else {
		current = currentWorkspace(c, h.workspaces).CurrentStep()
	}

	p := service.NewProgress(steps, current, overrides)
	next, navigable := p.NextPath()
	c.JSON(http.StatusOK, gin.H{
		"progress":      p,
		"nextPath":      next,
		"nextNavigable": navigable,
	})
}

// Notifications drains the user's pending notifications
func (h *OnboardingHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": currentWorkspace(c, h.workspaces).Notifications.Drain(),
	})
}
