package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/middleware"
	"github.com/greatchat/onboarding/backend/service"
)

// PageHandler serves a JSON snapshot of each screen. The browser front end
// renders them.
type PageHandler struct {
	workspaces WorkspaceProvider
}

func NewPageHandler(workspaces WorkspaceProvider) *PageHandler {
	return &PageHandler{workspaces: workspaces}
}

// screens maps page paths to their snapshot builders.
var screens = map[string]func(ws *service.Workspace) any{
	"/":           func(ws *service.Workspace) any { return ws.Dashboard() },
	"/register":   func(ws *service.Workspace) any { return registrationPage(ws) },
	"/documents":  func(ws *service.Workspace) any { return documentsPage(ws) },
	"/approval":   func(ws *service.Workspace) any { return ws.Approvals.Board() },
	"/contracts":  func(ws *service.Workspace) any { return contractsPage(ws) },
	"/payments":   func(ws *service.Workspace) any { return paymentsPage(ws) },
	"/admin":      func(ws *service.Workspace) any { return adminPage(ws) },
	"/activation": func(ws *service.Workspace) any { return ws.Activation() },
	"/activity":   func(ws *service.Workspace) any { return gin.H{"activity": ws.Activity()} },
}

// ProtectedPages lists the page paths that require a session.
func ProtectedPages() []string {
	return []string{"/", "/register", "/documents", "/approval", "/contracts", "/payments", "/admin", "/activation", "/activity"}
}

// Screen answers any registered page path with its snapshot.
func (h *PageHandler) Screen(c *gin.Context) {
	build, ok := screens[c.FullPath()]
	if !ok {
		NotFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page": c.FullPath(),
		"user": middleware.GetEmail(c),
		"data": build(currentWorkspace(c, h.workspaces)),
	})
}

// PublicPage describes a page reachable without signing in.
func PublicPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": name})
	}
}
