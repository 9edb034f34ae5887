package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testAuth = &config.AuthConfig{
	JWTSecret:        "test-secret-key",
	TokenExpireHours: 24,
}

type sessionSet map[string]bool

func (s sessionSet) Authenticated(_ context.Context, email string) bool {
	return s[email]
}

func newAuthRouter(sessions SessionChecker) *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware(testAuth, sessions))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email": GetEmail(c),
			"user":  logger.UserFrom(c.Request.Context()),
		})
	}
	router.GET("/api/test", handler)
	router.GET("/documents", handler)
	return router
}

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("owner@example.com", testAuth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("Expected non-empty token")
	}

	expectedExpiry := time.Now().Add(24 * time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("Expiry time %v is not within expected range of %v", expiresAt, expectedExpiry)
	}

	claims, err := ParseToken(token, testAuth)
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.Email != "owner@example.com" {
		t.Errorf("Expected email claim 'owner@example.com', got '%s'", claims.Email)
	}
}

func TestAuthMiddleware(t *testing.T) {
	token, _, err := GenerateToken("owner@example.com", testAuth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"invalid format", token, http.StatusUnauthorized},
		{"invalid token", "Bearer invalid.token.here", http.StatusUnauthorized},
	}

	router := newAuthRouter(sessionSet{"owner@example.com": true})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareSetsUser(t *testing.T) {
	token, _, _ := GenerateToken("owner@example.com", testAuth)
	router := newAuthRouter(nil)

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	want := `{"email":"owner@example.com","user":"owner@example.com"}`
	if w.Body.String() != want {
		t.Errorf("Expected body %s, got %s", want, w.Body.String())
	}
}

func TestAuthMiddlewareCookie(t *testing.T) {
	token, _, _ := GenerateToken("owner@example.com", testAuth)
	router := newAuthRouter(sessionSet{"owner@example.com": true})

	req := httptest.NewRequest("GET", "/documents", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with token cookie, got %d", w.Code)
	}
}

func TestAuthMiddlewarePageRedirect(t *testing.T) {
	router := newAuthRouter(nil)

	req := httptest.NewRequest("GET", "/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Expected redirect to %s, got %s", LoginPath, loc)
	}
}

func TestAuthMiddlewareClosedSession(t *testing.T) {
	token, _, _ := GenerateToken("owner@example.com", testAuth)
	router := newAuthRouter(sessionSet{})

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 after logout, got %d", w.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	claims := Claims{
		Email: "owner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(testAuth.JWTSecret))

	router := newAuthRouter(nil)

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d for expired token, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddlewareRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Email: "owner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, _ := token.SignedString([]byte(testAuth.JWTSecret))

	if _, err := ParseToken(tokenString, testAuth); err == nil {
		t.Error("Expected HS512 token to be rejected")
	}
}

func TestGetEmail(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetEmail(c) != "" {
		t.Error("Expected empty string for unset email")
	}

	c.Set("email", "owner@example.com")
	if GetEmail(c) != "owner@example.com" {
		t.Errorf("Expected 'owner@example.com', got '%s'", GetEmail(c))
	}
}
