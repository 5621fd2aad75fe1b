package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "fileshare/internal/pkg/jwt"
	"fileshare/internal/pkg/response"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxName   = "name"
)

// JWTAuth guards protected routes. It expects "Authorization: Bearer
// <token>", verifies the token and attaches the resolved claims to the
// gin context. Tokens are self-contained, so the guard never consults
// the user store.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "invalid credential")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, jwtsvc.ErrTokenExpired):
				response.AbortError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "session expired, please re-authenticate")
			case errors.Is(err, jwtsvc.ErrTokenMalformed):
				response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid credential")
			default:
				response.AbortError(c, http.StatusInternalServerError, "INTERNAL", "failed to verify credential")
			}
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxName, claims.Name)

		c.Next()
	}
}

// UserID returns the authenticated user id from the context, or 0 when
// the guard did not run.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}
