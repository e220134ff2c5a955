package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvedi/crm-backend/internal/testutil"
	"github.com/pvedi/crm-backend/internal/users"
)

func newAuthRouter(t *testing.T, secret string) (*gin.Engine, *users.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := users.NewRepo(testutil.NewDB(t))

	r := gin.New()
	r.Use(WithUser(repo, secret))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})
	return r, repo
}

func whoami(r http.Handler, token string) string {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("X-User-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestWithUser_ResolvesToken(t *testing.T) {
	r, repo := newAuthRouter(t, "s3cret")

	jo, err := repo.Create(context.Background(), "jo", "jo@example.com")
	require.NoError(t, err)

	assert.Equal(t, jo.ID, whoami(r, SignUserID(jo.ID, "s3cret")))
}

func TestWithUser_AnonymousPaths(t *testing.T) {
	r, repo := newAuthRouter(t, "s3cret")

	jo, err := repo.Create(context.Background(), "jo", "jo@example.com")
	require.NoError(t, err)

	// no token at all
	assert.Empty(t, whoami(r, ""))
	// garbage token
	assert.Empty(t, whoami(r, "not-a-token"))
	// valid format, wrong secret
	assert.Empty(t, whoami(r, SignUserID(jo.ID, "other")))
	// well-signed token for a user that does not exist
	assert.Empty(t, whoami(r, SignUserID("ghost", "s3cret")))
}
