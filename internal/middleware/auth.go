package middleware

import (
	"net/http"

	"compustore-be/internal/auth"
	"compustore-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// Authenticate parses the bearer token when present and stores the caller's
// identity on the request context. Requests without a valid token pass
// through anonymous; route guards decide whether that is acceptable.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		ctx := utils.SetUserContext(c.Request.Context(), claims.UserID, claims.Email, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects the request with 403 unless the caller carries one of
// the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := utils.GetUserRoleFromContext(c.Request.Context())

		for _, want := range roles {
			if role == want {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "not authorized",
			"kind":    "NotAuthorized",
		})
	}
}
