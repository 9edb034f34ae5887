package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// TokenCookie carries the session token for page requests made by a browser.
const TokenCookie = "token"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

const emailKey = "email"

// Claims represents the JWT claims
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionChecker reports whether a signed-in session is still live. A token
// outliving its session (after logout) is rejected.
type SessionChecker interface {
	Authenticated(ctx context.Context, email string) bool
}

// GenerateToken generates a new JWT token for a user
func GenerateToken(email string, cfg *config.AuthConfig) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken validates a token string and returns its claims
func ParseToken(tokenString string, cfg *config.AuthConfig) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// tokenFromRequest reads "Authorization: Bearer <token>", falling back to the
// token cookie.
func tokenFromRequest(c *gin.Context) (string, string) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "Invalid authorization header format"
		}
		return parts[1], ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "Authorization header required"
}

// IsAPIRequest reports whether the request targets the JSON API rather than a
// page route.
func IsAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func deny(c *gin.Context, msg string) {
	if IsAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// AuthMiddleware validates the session token. API requests without a valid
// session get 401; page requests are redirected to the login page.
func AuthMiddleware(cfg *config.AuthConfig, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := tokenFromRequest(c)
		if problem != "" {
			deny(c, problem)
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil || claims.Email == "" {
			deny(c, "Invalid or expired token")
			return
		}

		ctx := logger.WithUser(c.Request.Context(), claims.Email)
		if sessions != nil && !sessions.Authenticated(ctx, claims.Email) {
			logger.Info(ctx, "token presented for closed session")
			deny(c, "Session has ended, please sign in again")
			return
		}

		c.Set(emailKey, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetEmail gets the signed-in user's email from context
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(emailKey); exists {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}
