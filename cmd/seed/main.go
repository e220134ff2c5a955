// Command seed loads a small set of sample CRM data for development.
// It is idempotent at the dataset level: a database that already has users
// is left untouched.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/pvedi/crm-backend/config"
	"github.com/pvedi/crm-backend/internal/contacts"
	"github.com/pvedi/crm-backend/internal/db"
	"github.com/pvedi/crm-backend/internal/firms"
	"github.com/pvedi/crm-backend/internal/notes"
	"github.com/pvedi/crm-backend/internal/projects"
	"github.com/pvedi/crm-backend/internal/users"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		logger.Fatal().Err(err).Msg("create schema")
	}

	var userCount int
	if err := conn.QueryRowContext(ctx, `select count(*) from users;`).Scan(&userCount); err != nil {
		logger.Fatal().Err(err).Msg("count users")
	}
	if userCount > 0 {
		logger.Info().Msg("database already contains data, skipping seed")
		return
	}

	userRepo := users.NewRepo(conn)
	firmRepo := firms.NewRepo(conn)
	contactRepo := contacts.NewRepo(conn)
	projectRepo := projects.NewRepo(conn)
	noteRepo := notes.NewRepo(conn)

	admin, err := userRepo.Create(ctx, "admin", "admin@pvedi.com")
	if err != nil {
		logger.Fatal().Err(err).Msg("create user")
	}
	john, err := userRepo.Create(ctx, "john", "john@pvedi.com")
	if err != nil {
		logger.Fatal().Err(err).Msg("create user")
	}

	tech, err := firmRepo.Create(ctx, firms.Input{
		Name:     "Tech Innovations Inc.",
		Industry: "Technology",
		Website:  "https://techinnovations.example.com",
		Phone:    "+1-555-0101",
		Address:  "123 Silicon Valley, CA 94025",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create firm")
	}
	consulting, err := firmRepo.Create(ctx, firms.Input{
		Name:     "Global Consulting Group",
		Industry: "Consulting",
		Website:  "https://globalconsulting.example.com",
		Phone:    "+1-555-0202",
		Address:  "456 Wall Street, NY 10005",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create firm")
	}
	energy, err := firmRepo.Create(ctx, firms.Input{
		Name:     "Green Energy Solutions",
		Industry: "Energy",
		Website:  "https://greenenergy.example.com",
		Phone:    "+1-555-0303",
		Address:  "789 Renewable Ave, Austin, TX 78701",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create firm")
	}

	alice, err := contactRepo.Create(ctx, tech.ID, contacts.Input{
		FirstName: "Alice", LastName: "Johnson",
		Email: "alice.johnson@techinnovations.example.com", Phone: "+1-555-1001", Position: "CTO",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create contact")
	}
	bob, err := contactRepo.Create(ctx, tech.ID, contacts.Input{
		FirstName: "Bob", LastName: "Smith",
		Email: "bob.smith@techinnovations.example.com", Phone: "+1-555-1002", Position: "Product Manager",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create contact")
	}
	carol, err := contactRepo.Create(ctx, consulting.ID, contacts.Input{
		FirstName: "Carol", LastName: "Davis",
		Email: "carol.davis@globalconsulting.example.com", Phone: "+1-555-2001", Position: "Senior Partner",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create contact")
	}
	david, err := contactRepo.Create(ctx, energy.ID, contacts.Input{
		FirstName: "David", LastName: "Wilson",
		Email: "david.wilson@greenenergy.example.com", Phone: "+1-555-3001", Position: "CEO",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create contact")
	}

	mobile, err := projectRepo.Create(ctx, tech.ID, projects.Input{
		Name:        "Mobile App Development",
		Description: "Developing a new mobile application for iOS and Android",
		Status:      "Active",
		ContactIDs:  []string{alice.ID, bob.ID},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create project")
	}
	if _, err := projectRepo.Create(ctx, consulting.ID, projects.Input{
		Name:        "Digital Transformation",
		Description: "Complete digital transformation strategy and implementation",
		Status:      "Active",
		ContactIDs:  []string{carol.ID},
	}); err != nil {
		logger.Fatal().Err(err).Msg("create project")
	}
	solar, err := projectRepo.Create(ctx, energy.ID, projects.Input{
		Name:        "Solar Panel Installation",
		Description: "Installation of solar panels for commercial building",
		Status:      "Completed",
		ContactIDs:  []string{david.ID},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create project")
	}

	seedNotes := []struct {
		user    string
		content string
		ref     notes.EntityRef
	}{
		{admin.ID, "Initial meeting went well. They are interested in our proposal.", notes.EntityRef{Kind: notes.KindFirm, ID: tech.ID}},
		{john.ID, "Discussed project timeline and deliverables.", notes.EntityRef{Kind: notes.KindProject, ID: mobile.ID}},
		{admin.ID, "Follow-up call scheduled for next week.", notes.EntityRef{Kind: notes.KindContact, ID: alice.ID}},
		{admin.ID, "Contract signed. Project kickoff meeting scheduled.", notes.EntityRef{Kind: notes.KindFirm, ID: consulting.ID}},
		{john.ID, "Project completed successfully. Client very satisfied.", notes.EntityRef{Kind: notes.KindProject, ID: solar.ID}},
	}
	for _, n := range seedNotes {
		if _, err := noteRepo.Create(ctx, n.user, n.content, n.ref); err != nil {
			logger.Fatal().Err(err).Msg("create note")
		}
	}

	logger.Info().Msg("sample data seeded")
}
