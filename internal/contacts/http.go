package contacts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pvedi/crm-backend/internal/notes"
)

type Handler struct {
	repo  *Repo
	notes *notes.Repo
}

func Register(r gin.IRouter, repo *Repo, noteRepo *notes.Repo) {
	h := &Handler{repo: repo, notes: noteRepo}

	r.GET("/contact/add/:firm_id", h.addForm)
	r.POST("/contact/add/:firm_id", h.create)
	r.GET("/contact/:id", h.detail)
	r.GET("/contact/:id/edit", h.editForm)
	r.POST("/contact/:id/edit", h.update)
}

func (h *Handler) detail(c *gin.Context) {
	id := c.Param("id")

	contact, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	contactNotes, err := h.notes.ListForEntity(c.Request.Context(), notes.EntityRef{Kind: notes.KindContact, ID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"contact":   contact,
		"full_name": contact.FullName(),
		"notes":     contactNotes,
	})
}

func (h *Handler) addForm(c *gin.Context) {
	firm, err := h.repo.FirmRef(c.Request.Context(), c.Param("firm_id"))
	if err != nil {
		if errors.Is(err, ErrFirmNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "firm not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "firm": firm, "contact": nil})
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
	contact, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	firm, err := h.repo.FirmRef(c.Request.Context(), contact.FirmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "contact": contact, "firm": firm})
}

func (h *Handler) update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	contact, err := h.repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Redirect(http.StatusSeeOther, "/contact/"+contact.ID)
}

// bindInput reads the submitted form fields. First and last name are
// required; anything else is optional.
func bindInput(c *gin.Context) (Input, bool) {
	in := Input{
		FirstName: strings.TrimSpace(c.PostForm("first_name")),
		LastName:  strings.TrimSpace(c.PostForm("last_name")),
		Email:     strings.TrimSpace(c.PostForm("email")),
		Phone:     strings.TrimSpace(c.PostForm("phone")),
		Position:  strings.TrimSpace(c.PostForm("position")),
	}
	if in.FirstName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "first name is required"})
		return Input{}, false
	}
	if in.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "last name is required"})
		return Input{}, false
	}
	return in, true
}
