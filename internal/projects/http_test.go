package projects

import (
	"context"
	"database/sql"
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
	"github.com/pvedi/crm-backend/internal/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repo, *sql.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testutil.NewDB(t)
	repo := NewRepo(conn)
	firmID := seedFirm(t, conn, "Acme")

	r := gin.New()
	Register(r, repo, contacts.NewRepo(conn), notes.NewRepo(conn))
	return r, repo, conn, firmID
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_RedirectsToFirm(t *testing.T) {
	r, repo, conn, firmID := newTestRouter(t)
	jo := seedContact(t, conn, firmID, "Jo", "Lee")

	w := postForm(r, "/project/add/"+firmID, url.Values{
		"name":        {"P1"},
		"start_date":  {"2026-02-01"},
		"contact_ids": {jo, "bogus"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/firm/"+firmID, w.Header().Get("Location"))

	got, err := repo.ListByFirm(context.Background(), firmID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].Name)
	assert.Equal(t, "Active", got[0].Status)
	require.NotNil(t, got[0].StartDate)
	assert.Equal(t, "2026-02-01", got[0].StartDate.Format("2006-01-02"))

	linked, err := repo.Contacts(context.Background(), got[0].ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, jo, linked[0].ID)
}

func TestCreate_MalformedDateBlocked(t *testing.T) {
	r, repo, _, firmID := newTestRouter(t)

	w := postForm(r, "/project/add/"+firmID, url.Values{
		"name":       {"P1"},
		"start_date": {"02/01/2026"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	got, err := repo.ListByFirm(context.Background(), firmID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate_MissingNameBlocked(t *testing.T) {
	r, _, _, firmID := newTestRouter(t)

	w := postForm(r, "/project/add/"+firmID, url.Values{"description": {"x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_UnknownFirmHTTP(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := postForm(r, "/project/add/missing", url.Values{"name": {"P1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetail_NotFound(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/project/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEdit_ReplacesContactsFromForm(t *testing.T) {
	r, repo, conn, firmID := newTestRouter(t)
	ctx := context.Background()
	jo := seedContact(t, conn, firmID, "Jo", "Lee")

	p, err := repo.Create(ctx, firmID, Input{Name: "P1", ContactIDs: []string{jo}})
	require.NoError(t, err)

	// submitting no contact ids clears the association set
	w := postForm(r, "/project/"+p.ID+"/edit", url.Values{
		"name":   {"P1"},
		"status": {"Completed"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/project/"+p.ID, w.Header().Get("Location"))

	linked, err := repo.Contacts(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", got.Status)
}

func TestAddForm_ListsFirmContacts(t *testing.T) {
	r, _, conn, firmID := newTestRouter(t)
	seedContact(t, conn, firmID, "Jo", "Lee")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/project/add/"+firmID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lee")
}
