package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
)

// claimsKey is the gin context key the validated admin claims are stored under.
const claimsKey = "claims"

// AuthMiddleware extracts and validates the admin bearer token. Admin
// endpoints fail closed: missing, malformed, expired, or badly signed
// tokens all yield 401.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := parseToken(parts[1], secret)
		if err != nil {
			observability.Logger().Warn("token validation failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// parseToken validates an HS256 token and returns its admin claims.
func parseToken(token, secret string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequireAdmin checks that the validated claims carry the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get(claimsKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			c.Abort()
			return
		}

		adminClaims, ok := claims.(*models.AdminClaims)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid claims type"})
			c.Abort()
			return
		}

		if adminClaims.Role != models.AdminRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminClaims returns the validated claims for the current request, when present.
func AdminClaims(c *gin.Context) (*models.AdminClaims, bool) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	adminClaims, ok := claims.(*models.AdminClaims)
	return adminClaims, ok
}
