package middleware

import (
	"net/http"
	"strings"

	"github.com/careerai/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AdminAllowlist admits only callers whose email appears in the configured
// admin list. Comparison is case-insensitive. Runs after JWTAuth, so a
// missing identity here is an unauthorized request, not a forbidden one.
func AdminAllowlist(allowed []string) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, a := range allowed {
		a = strings.TrimSpace(strings.ToLower(a))
		if a != "" {
			allow[a] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("email")
		email, _ := v.(string)
		email = strings.ToLower(strings.TrimSpace(email))

		if !ok || email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "unauthorized",
			})
			return
		}

		if _, ok := allow[email]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		c.Next()
	}
}
