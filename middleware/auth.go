package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUID is the gin context key holding the verified Firebase uid.
const ContextUID = "uid"

// TokenVerifier is the part of *auth.Client that checks ID tokens.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tok, tok != ""
}

// FirebaseAuthMiddleware verifies the Firebase ID token in the Authorization
// header and stores its uid under ContextUID. With optional set, requests
// without a header pass through anonymously; a header that fails
// verification is still rejected.
func FirebaseAuthMiddleware(verifier TokenVerifier, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			if optional && c.GetHeader("Authorization") == "" {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			zap.L().Debug("ID token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUID, token.UID)
		c.Next()
	}
}

// UID returns the verified uid, or "" for anonymous requests.
func UID(c *gin.Context) string {
	return c.GetString(ContextUID)
}
