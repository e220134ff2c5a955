package firms

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pvedi/crm-backend/internal/contacts"
	"github.com/pvedi/crm-backend/internal/notes"
	"github.com/pvedi/crm-backend/internal/projects"
)

type Handler struct {
	repo     *Repo
	contacts *contacts.Repo
	projects *projects.Repo
	notes    *notes.Repo
}

func Register(r gin.IRouter, repo *Repo, contactRepo *contacts.Repo, projectRepo *projects.Repo, noteRepo *notes.Repo) {
	h := &Handler{repo: repo, contacts: contactRepo, projects: projectRepo, notes: noteRepo}

	r.GET("/firms", h.list)
	r.GET("/firm/add", h.addForm)
	r.POST("/firm/add", h.create)
	r.GET("/firm/:id", h.detail)
	r.GET("/firm/:id/edit", h.editForm)
	r.POST("/firm/:id/edit", h.update)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "firms": items})
}

func (h *Handler) detail(c *gin.Context) {
	id := c.Param("id")

	f, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "firm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	firmContacts, err := h.contacts.ListByFirm(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	firmProjects, err := h.projects.ListByFirm(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	firmNotes, err := h.notes.ListForEntity(c.Request.Context(), notes.EntityRef{Kind: notes.KindFirm, ID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"firm":     f,
		"contacts": firmContacts,
		"projects": firmProjects,
		"notes":    firmNotes,
	})
}

// addForm returns the (empty) create-form context for the view layer.
func (h *Handler) addForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "firm": nil})
}

func (h *Handler) create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	f, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/firm/"+f.ID)
}

func (h *Handler) editForm(c *gin.Context) {
	f, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "firm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "firm": f})
}

func (h *Handler) update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	f, err := h.repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "firm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/firm/"+f.ID)
}

// bindInput reads the submitted form fields. Name is the only required
// field; a missing name blocks the write with a visible message.
func bindInput(c *gin.Context) (Input, bool) {
	in := Input{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Industry: strings.TrimSpace(c.PostForm("industry")),
		Website:  strings.TrimSpace(c.PostForm("website")),
		Phone:    strings.TrimSpace(c.PostForm("phone")),
		Address:  strings.TrimSpace(c.PostForm("address")),
	}
	if in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name is required"})
		return Input{}, false
	}
	return in, true
}
