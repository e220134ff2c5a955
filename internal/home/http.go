// Package home serves the homepage: global search across firms, contacts
// and projects plus the filterable recent-activity feed.
package home

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pvedi/crm-backend/internal/contacts"
	"github.com/pvedi/crm-backend/internal/firms"
	"github.com/pvedi/crm-backend/internal/notes"
	"github.com/pvedi/crm-backend/internal/projects"
)

const (
	feedLimit       = 20
	recentFirmLimit = 5
)

type Handler struct {
	firms    *firms.Repo
	contacts *contacts.Repo
	projects *projects.Repo
	notes    *notes.Repo
}

func Register(r gin.IRouter, firmRepo *firms.Repo, contactRepo *contacts.Repo, projectRepo *projects.Repo, noteRepo *notes.Repo) {
	h := &Handler{firms: firmRepo, contacts: contactRepo, projects: projectRepo, notes: noteRepo}

	r.GET("/", h.index)
}

// feedItem decorates a note with its derived entity type for the feed.
type feedItem struct {
	notes.Note
	EntityType string `json:"entity_type"`
}

func (h *Handler) index(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("search"))
	filter := c.DefaultQuery("filter", "all")

	// Search is not "browse all": an empty query yields empty lists.
	matchedFirms := []firms.Firm{}
	matchedContacts := []contacts.Contact{}
	matchedProjects := []projects.Project{}
	if query != "" {
		var err error
		if matchedFirms, err = h.firms.Search(ctx, query); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		if matchedContacts, err = h.contacts.Search(ctx, query); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		if matchedProjects, err = h.projects.Search(ctx, query); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	recent, err := h.notes.Recent(ctx, feedKind(filter), feedLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	feed := make([]feedItem, 0, len(recent))
	for _, n := range recent {
		feed = append(feed, feedItem{Note: n, EntityType: n.EntityType()})
	}

	recentFirms, err := h.firms.Recent(ctx, recentFirmLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"search":       query,
		"firms":        matchedFirms,
		"contacts":     matchedContacts,
		"projects":     matchedProjects,
		"filter":       filter,
		"recent_notes": feed,
		"recent_firms": recentFirms,
	})
}

// feedKind maps the filter query value to an entity kind. Anything outside
// the recognized set behaves like "all".
func feedKind(filter string) *notes.EntityKind {
	var k notes.EntityKind
	switch filter {
	case "firms":
		k = notes.KindFirm
	case "contacts":
		k = notes.KindContact
	case "projects":
		k = notes.KindProject
	default:
		return nil
	}
	return &k
}
