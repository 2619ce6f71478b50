package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	actorKey = "actor"
	ownerKey = "owner_id"
)

// Auth validates the bearer token and stashes the actor identity and owner
// scope in the request context. Every status change is attributed to the
// actor in the audit trail, so requests without a valid identity are
// rejected before reaching any handler.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenStr), claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		actor, _ := claims["sub"].(string)
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}
		c.Set(actorKey, actor)
		if owner, _ := claims["owner_id"].(string); owner != "" {
			c.Set(ownerKey, owner)
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor identity, or "".
func GetActor(c *gin.Context) string {
	if v, ok := c.Get(actorKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetOwnerID returns the authenticated owner scope, or "".
func GetOwnerID(c *gin.Context) string {
	if v, ok := c.Get(ownerKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
