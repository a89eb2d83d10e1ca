package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireKinds returns a gin middleware that validates the Bearer JWT on the
// request and rejects principals whose kind is not in kinds. The principal is
// injected into the request context for downstream handlers.
func RequireKinds(secret string, kinds ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	return func(c *gin.Context) {
		p, err := ParseFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[p.Kind]; !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}
