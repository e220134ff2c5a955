package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	httpapi "github.com/pvedi/crm-backend/internal/api/http"
	"github.com/pvedi/crm-backend/internal/api/http/middleware"
	"github.com/pvedi/crm-backend/internal/auth"
	"github.com/pvedi/crm-backend/internal/contacts"
	"github.com/pvedi/crm-backend/internal/firms"
	"github.com/pvedi/crm-backend/internal/home"
	"github.com/pvedi/crm-backend/internal/notes"
	"github.com/pvedi/crm-backend/internal/projects"
	"github.com/pvedi/crm-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	SecretKey   string
	DB          *sql.DB
	Logger      zerolog.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	firmRepo := firms.NewRepo(dep.DB)
	contactRepo := contacts.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)
	noteRepo := notes.NewRepo(dep.DB)

	r.Use(auth.WithUser(userRepo, dep.SecretKey))

	home.Register(r, firmRepo, contactRepo, projectRepo, noteRepo)
	firms.Register(r, firmRepo, contactRepo, projectRepo, noteRepo)
	contacts.Register(r, contactRepo, noteRepo)
	projects.Register(r, projectRepo, contactRepo, noteRepo)
	notes.Register(r, noteRepo, userRepo)

	return r
}
