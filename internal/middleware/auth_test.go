package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/types"
)

type stubValidator map[string]uint

func (s stubValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	if id, ok := s[token]; ok {
		return &types.TokenClaims{UserID: id}, nil
	}
	return nil, errors.New("invalid token")
}

func whoAmI(c *gin.Context) {
	_, hasClaims := CurrentClaims(c)
	c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "claims": hasClaims})
}

func TestAuthMiddleware(t *testing.T) {
	validator := stubValidator{"good": 42}
	r := gin.New()
	r.GET("/private", AuthMiddleware(validator), whoAmI)
	r.GET("/public", OptionalAuth(validator), whoAmI)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"token scheme", "/private", "Token good", http.StatusOK, `{"claims":true,"user_id":42}`},
		{"bearer scheme", "/private", "Bearer good", http.StatusOK, `{"claims":true,"user_id":42}`},
		{"missing header", "/private", "", http.StatusUnauthorized, ""},
		{"unknown scheme", "/private", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "/private", "Token bad", http.StatusUnauthorized, ""},
		{"anonymous allowed", "/public", "", http.StatusOK, `{"claims":false,"user_id":0}`},
		{"optional with token", "/public", "Token good", http.StatusOK, `{"claims":true,"user_id":42}`},
		{"optional with bad token", "/public", "Token bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}
