package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	userIDKey = "user_id"
	claimsKey = "token_claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that rejects requests without a
// valid token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "authentication credentials were not provided"})
			return
		}
		if !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !authenticate(c, validator, authHeader) {
				return
			}
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, authHeader string) bool {
	// "Token <jwt>" is what the web client sends; "Bearer" is accepted as well.
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "invalid authorization header format"})
		return false
	}

	claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": err.Error()})
		return false
	}

	// Store user info in context
	c.Set(userIDKey, claims.UserID)
	c.Set(claimsKey, claims)
	return true
}

// CurrentUserID returns the authenticated user's id, or 0 for anonymous
// requests.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

// CurrentClaims returns the validated token claims, if any.
func CurrentClaims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}
