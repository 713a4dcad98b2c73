package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"SchoolAPI/internal/app_errors"
	"SchoolAPI/pkg/logger"
)

type AuthService interface {
	TokenClaims(ctx context.Context, token string) (username string, roles []string, err error)
}

type AuthMiddlewareProvider struct {
	log     logger.Log
	service AuthService
}

func NewAuthMiddlewareProvider(log logger.Log, s AuthService) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:     log,
		service: s,
	}
}

// AuthMiddleware validates the bearer token before any handler logic runs.
// A missing, malformed, expired or otherwise invalid token aborts with 401.
// On success the caller's name and role claims are attached to the context,
// no database lookup happens here.
func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	username, roles, err := h.service.TokenClaims(c.Request.Context(), token)
	if err != nil {
		h.log.Info("rejected token", "error", err.Error())
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrInvalidToken.Error()})
		return
	}

	c.Set(ClientNameCtx, username)
	c.Set(ClientRolesCtx, roles)
	c.Next()
}
