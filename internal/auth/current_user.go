package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pvedi/crm-backend/internal/users"
)

const userIDKey = "user_id"

// WithUser resolves the current user from the X-User-Token header and
// stores their id in the request context. There is no login flow: an
// absent, malformed or unresolvable token simply leaves the request
// anonymous and handlers fall back to the default author.
func WithUser(repo *users.Repo, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("X-User-Token"))
		if token == "" {
			c.Next()
			return
		}

		id, err := VerifyUserToken(token, secret)
		if err != nil {
			c.Next()
			return
		}

		if _, err := repo.GetByID(c.Request.Context(), id); err != nil {
			// unknown user or lookup failure; stay anonymous
			c.Next()
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// CurrentUserID returns the resolved user id, or "" for anonymous
// requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
