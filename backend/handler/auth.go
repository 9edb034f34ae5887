package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/middleware"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
	"github.com/greatchat/onboarding/backend/service"
)

type AuthHandler struct {
	config     *config.Config
	sessions   *service.SessionService
	workspaces *service.WorkspaceRegistry
}

func NewAuthHandler(cfg *config.Config, sessions *service.SessionService, workspaces *service.WorkspaceRegistry) *AuthHandler {
	return &AuthHandler{config: cfg, sessions: sessions, workspaces: workspaces}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt string     `json:"expires_at"`
	User      model.User `json:"user"`
	Redirect  string     `json:"redirect"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issueToken(c, user)
}

// Signup creates the account and signs it in
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.sessions.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issueToken(c, user)
}

func (h *AuthHandler) issueToken(c *gin.Context, user model.User) {
	token, expiresAt, err := middleware.GenerateToken(user.Email, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.workspaces.Get(user.Email)

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      user,
		Redirect:  "/",
	})
}

// Logout clears the session flags and closes the user's workspace. Pending
// timers of that workspace are cancelled.
func (h *AuthHandler) Logout(c *gin.Context) {
	email := middleware.GetEmail(c)
	if err := h.sessions.Logout(c.Request.Context(), email); err != nil {
		respondError(c, err)
		return
	}
	h.workspaces.Close(email)

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": middleware.LoginPath})
}

// GetCurrentUser returns the current user info
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok, err := h.sessions.Init(c.Request.Context(), middleware.GetEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ForgotPassword queues a reset mail. The answer is immediate; the mail goes
// out after the configured delay.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := logger.WithUser(c.Request.Context(), req.Email)
	if err := h.sessions.RequestPasswordReset(ctx, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": h.sessions.ResetStatus(req.Email)})
}

// ForgotPasswordStatus reports whether the reset mail for ?email= went out.
func (h *AuthHandler) ForgotPasswordStatus(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	status := h.sessions.ResetStatus(email)
	if status == model.ResetNone {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reset requested"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
