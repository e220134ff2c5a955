package notes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pvedi/crm-backend/internal/auth"
	"github.com/pvedi/crm-backend/internal/users"
)

type Handler struct {
	repo  *Repo
	users *users.Repo
}

func Register(r gin.IRouter, repo *Repo, userRepo *users.Repo) {
	h := &Handler{repo: repo, users: userRepo}

	r.POST("/note/add", h.create)
}

func (h *Handler) create(c *gin.Context) {
	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "note content is required"})
		return
	}

	kind, err := ParseEntityKind(strings.TrimSpace(c.PostForm("entity_type")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "entity_type must be firm, contact or project"})
		return
	}

	ref := EntityRef{Kind: kind, ID: strings.TrimSpace(c.PostForm("entity_id"))}

	userID, err := h.authorID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if _, err := h.repo.Create(c.Request.Context(), userID, content, ref); err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "entity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	// Back to the page the note was posted from.
	location := c.GetHeader("Referer")
	if location == "" {
		location = "/" + string(ref.Kind) + "/" + ref.ID
	}
	c.Redirect(http.StatusSeeOther, location)
}

// authorID resolves the note author: the authenticated user when a valid
// token was presented, otherwise the lazily-created default user.
func (h *Handler) authorID(c *gin.Context) (string, error) {
	if id := auth.CurrentUserID(c); id != "" {
		return id, nil
	}

	u, err := h.users.EnsureDefault(c.Request.Context())
	if err != nil {
		return "", err
	}
	return u.ID, nil
}
