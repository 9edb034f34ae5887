package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/middleware"
	"github.com/greatchat/onboarding/backend/service"
)

// NewRouter wires every route and middleware.
func NewRouter(cfg *config.Config, sessions *service.SessionService, workspaces *service.WorkspaceRegistry) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger("/health"))
	router.Use(corsMiddleware())
	router.Use(cacheMiddleware())

	// The limiter runs after auth so signed-in users are counted per email.
	var limited gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.Server.RateLimit > 0 {
		limited = middleware.RateLimit(cfg.Server.RateLimit, time.Minute)
	}

	authHandler := NewAuthHandler(cfg, sessions, workspaces)
	pageHandler := NewPageHandler(workspaces)
	registrationHandler := NewRegistrationHandler(workspaces)
	documentHandler := NewDocumentHandler(workspaces)
	contractHandler := NewContractHandler(workspaces)
	paymentHandler := NewPaymentHandler(workspaces)
	approvalHandler := NewApprovalHandler(workspaces)
	adminHandler := NewAdminHandler(workspaces)
	onboardingHandler := NewOnboardingHandler(workspaces)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"timestamp":  time.Now().Format(time.RFC3339),
			"workspaces": workspaces.Count(),
		})
	})

	// Public pages
	router.GET("/login", PublicPage("login"))
	router.GET("/signup", PublicPage("signup"))
	router.GET("/forgot-password", PublicPage("forgot-password"))

	authRequired := middleware.AuthMiddleware(&cfg.Auth, sessions)

	// Protected pages
	pages := router.Group("/", authRequired, limited)
	for _, path := range ProtectedPages() {
		pages.GET(path, pageHandler.Screen)
	}

	// Public routes
	api := router.Group("/api", limited)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.GET("/auth/forgot-password/status", authHandler.ForgotPasswordStatus)
	}

	// Protected routes
	protected := router.Group("/api", authRequired, limited)
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/registration", registrationHandler.Get)
		protected.PATCH("/registration/fields", registrationHandler.SetFields)
		protected.POST("/registration/toggle", registrationHandler.Toggle)
		protected.POST("/registration/plan", registrationHandler.SelectPlan)
		protected.POST("/registration/next", registrationHandler.Next)
		protected.POST("/registration/previous", registrationHandler.Previous)
		protected.POST("/registration/draft", registrationHandler.SaveDraft)
		protected.POST("/registration/draft/load", registrationHandler.LoadDraft)
		protected.POST("/registration/submit", registrationHandler.Submit)

		protected.GET("/documents", documentHandler.List)
		protected.POST("/documents/upload", documentHandler.Upload)
		protected.DELETE("/documents/:id", documentHandler.Delete)
		protected.GET("/documents/:id/url", documentHandler.DownloadURL)
		protected.POST("/documents/submit", documentHandler.Submit)

		protected.GET("/contracts", contractHandler.List)
		protected.POST("/contracts/generate", contractHandler.Generate)
		protected.POST("/contracts/:id/sign", contractHandler.Sign)
		protected.GET("/contracts/template", contractHandler.Template)

		protected.GET("/payments", paymentHandler.List)
		protected.POST("/payments/:id/pay", paymentHandler.PayNow)

		protected.GET("/applications", approvalHandler.List)
		protected.POST("/applications/:id/approve", approvalHandler.Approve)
		protected.POST("/applications/:id/reject", approvalHandler.Reject)

		protected.GET("/admin/payments", adminHandler.ListPayments)
		protected.POST("/admin/payments", adminHandler.AddPayment)

		protected.GET("/onboarding/progress", onboardingHandler.Progress)
		protected.GET("/notifications", onboardingHandler.Notifications)
	}

	// Unknown pages still need a session; unknown API paths answer 404 as is.
	router.NoRoute(func(c *gin.Context) {
		if middleware.IsAPIRequest(c) {
			c.Next()
			return
		}
		authRequired(c)
	}, NotFound)

	return router
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// cacheMiddleware keeps API answers and screen snapshots out of caches
func cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != "/health" {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}
