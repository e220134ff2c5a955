package projects

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pvedi/crm-backend/internal/contacts"
	"github.com/pvedi/crm-backend/internal/notes"
)

const dateLayout = "2006-01-02"

type Handler struct {
	repo     *Repo
	contacts *contacts.Repo
	notes    *notes.Repo
}

func Register(r gin.IRouter, repo *Repo, contactRepo *contacts.Repo, noteRepo *notes.Repo) {
	h := &Handler{repo: repo, contacts: contactRepo, notes: noteRepo}

	r.GET("/project/add/:firm_id", h.addForm)
	r.POST("/project/add/:firm_id", h.create)
	r.GET("/project/:id", h.detail)
	r.GET("/project/:id/edit", h.editForm)
	r.POST("/project/:id/edit", h.update)
}

func (h *Handler) detail(c *gin.Context) {
	id := c.Param("id")

	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	linked, err := h.repo.Contacts(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	projectNotes, err := h.notes.ListForEntity(c.Request.Context(), notes.EntityRef{Kind: notes.KindProject, ID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"project":  p,
		"contacts": linked,
		"notes":    projectNotes,
	})
}

// addForm returns the create-form context: the firm and its contacts,
// which the form offers as link candidates.
func (h *Handler) addForm(c *gin.Context) {
	firmID := c.Param("firm_id")

	firm, err := h.contacts.FirmRef(c.Request.Context(), firmID)
	if err != nil {
		if errors.Is(err, contacts.ErrFirmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "firm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	firmContacts, err := h.contacts.ListByFirm(c.Request.Context(), firmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "firm": firm, "contacts": firmContacts, "project": nil})
}

func (h *Handler) create(c *gin.Context) {
	firmID := c.Param("firm_id")

	in, ok := bindInput(c)
	if !ok {
		return
	}

	_, err := h.repo.Create(c.Request.Context(), firmID, in)
	if err != nil {
		if errors.Is(err, ErrFirmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "firm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/firm/"+firmID)
}

func (h *Handler) editForm(c *gin.Context) {
	p, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	firmContacts, err := h.contacts.ListByFirm(c.Request.Context(), p.FirmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	linked, err := h.repo.Contacts(c.Request.Context(), p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"project":  p,
		"contacts": firmContacts,
		"linked":   linked,
	})
}

func (h *Handler) update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	p, err := h.repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/project/"+p.ID)
}

// bindInput reads the submitted form fields. Name is required, dates must
// be YYYY-MM-DD or empty, and a bad date is a validation error rather than
// a server error.
func bindInput(c *gin.Context) (Input, bool) {
	in := Input{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Status:      strings.TrimSpace(c.PostForm("status")),
		ContactIDs:  c.PostFormArray("contact_ids"),
	}
	if in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name is required"})
		return Input{}, false
	}

	var ok bool
	if in.StartDate, ok = bindDate(c, "start_date"); !ok {
		return Input{}, false
	}
	if in.EndDate, ok = bindDate(c, "end_date"); !ok {
		return Input{}, false
	}

	return in, true
}

func bindDate(c *gin.Context, field string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, true
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": field + " must be YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}
