package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminChecker reports admins collection membership.
type AdminChecker interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// AdminOnlyMiddleware must run after FirebaseAuthMiddleware. It rejects
// callers that are not listed in the admins collection.
func AdminOnlyMiddleware(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UID(c)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		ok, err := checker.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			zap.L().Error("admin membership check failed", zap.String("uid", uid), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify admin access"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
