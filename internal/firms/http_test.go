package firms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvedi/crm-backend/internal/contacts"
	"github.com/pvedi/crm-backend/internal/notes"
	"github.com/pvedi/crm-backend/internal/projects"
	"github.com/pvedi/crm-backend/internal/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testutil.NewDB(t)
	repo := NewRepo(conn)

	r := gin.New()
	Register(r, repo, contacts.NewRepo(conn), projects.NewRepo(conn), notes.NewRepo(conn))
	return r, repo
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_RedirectsToDetail(t *testing.T) {
	r, repo := newTestRouter(t)

	w := postForm(r, "/firm/add", url.Values{
		"name":     {"Acme"},
		"industry": {"Manufacturing"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/firm/"))

	id := strings.TrimPrefix(location, "/firm/")
	f, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", f.Name)
	assert.Equal(t, "Manufacturing", f.Industry)
}

func TestCreate_MissingNameBlocked(t *testing.T) {
	r, repo := newTestRouter(t)

	w := postForm(r, "/firm/add", url.Values{"industry": {"Tech"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDetail_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/firm/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetail_EmptyFirm(t *testing.T) {
	r, repo := newTestRouter(t)

	f, err := repo.Create(context.Background(), Input{Name: "Acme"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/firm/"+f.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK       bool              `json:"ok"`
		Firm     Firm              `json:"firm"`
		Contacts []json.RawMessage `json:"contacts"`
		Projects []json.RawMessage `json:"projects"`
		Notes    []json.RawMessage `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Acme", body.Firm.Name)
	assert.Empty(t, body.Contacts)
	assert.Empty(t, body.Projects)
	assert.Empty(t, body.Notes)
}

func TestList(t *testing.T) {
	r, repo := newTestRouter(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, Input{Name: "Zeta"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, Input{Name: "Acme"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/firms", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Firms []Firm `json:"firms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Firms, 2)
	assert.Equal(t, "Acme", body.Firms[0].Name)
}

func TestEdit_FullOverwrite(t *testing.T) {
	r, repo := newTestRouter(t)
	ctx := context.Background()

	f, err := repo.Create(ctx, Input{Name: "Acme", Phone: "555"})
	require.NoError(t, err)

	w := postForm(r, "/firm/"+f.ID+"/edit", url.Values{"name": {"Acme Corp"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/firm/"+f.ID, w.Header().Get("Location"))

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Empty(t, got.Phone)
}

func TestEdit_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/firm/nope/edit", url.Values{"name": {"X"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
