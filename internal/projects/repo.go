package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pvedi/crm-backend/internal/contacts"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrFirmNotFound = errors.New("firm not found")
)

// DefaultStatus is used when a form submits no status value.
const DefaultStatus = "Active"

type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	FirmID      string     `json:"firm_id"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Input carries the editable fields of a project plus the full set of
// contact ids to link. Updates replace the association set, they do not
// merge into it.
type Input struct {
	Name        string
	Description string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	ContactIDs  []string
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const projectCols = `id, name, coalesce(description,''), status, firm_id, start_date, end_date, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }, p *Project) error {
	var start, end sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.FirmID, &start, &end, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	if start.Valid {
		t := start.Time
		p.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		p.EndDate = &t
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, firmID string, in Input) (*Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	if in.Status == "" {
		in.Status = DefaultStatus
	}

	var exists int
	err := r.db.QueryRowContext(ctx, `select 1 from firms where id = $1;`, firmID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFirmNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	p := Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		FirmID:      firmID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
insert into projects (id, name, description, status, firm_id, start_date, end_date, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err = tx.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Status, p.FirmID, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := linkContacts(ctx, tx, p.ID, in.ContactIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (*Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	if in.Status == "" {
		in.Status = DefaultStatus
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
update projects
set name = $2, description = $3, status = $4, start_date = $5, end_date = $6, updated_at = $7
where id = $1;
`
	res, err := tx.ExecContext(ctx, q,
		id, in.Name, in.Description, in.Status, in.StartDate, in.EndDate, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	// Replace the association set: clear, then relink.
	if _, err := tx.ExecContext(ctx, `delete from project_contacts where project_id = $1;`, id); err != nil {
		return nil, err
	}
	if err := linkContacts(ctx, tx, id, in.ContactIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// linkContacts inserts one association row per resolvable contact id.
// Ids that match no contact are skipped, duplicates collapse to one row.
func linkContacts(ctx context.Context, tx *sql.Tx, projectID string, contactIDs []string) error {
	seen := make(map[string]bool, len(contactIDs))
	for _, cid := range contactIDs {
		if cid == "" || seen[cid] {
			continue
		}
		seen[cid] = true

		const q = `
insert into project_contacts (project_id, contact_id)
select $1, id from contacts where id = $2;
`
		if _, err := tx.ExecContext(ctx, q, projectID, cid); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Project, error) {
	q := `select ` + projectCols + ` from projects where id = $1;`

	var p Project
	if err := scanProject(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Contacts returns the contacts linked to the project.
func (r *Repo) Contacts(ctx context.Context, id string) ([]contacts.Contact, error) {
	const q = `
select c.id, c.first_name, c.last_name, coalesce(c.email,''), coalesce(c.phone,''), coalesce(c.position,''), c.firm_id, c.created_at, c.updated_at
from contacts c
join project_contacts pc on pc.contact_id = c.id
where pc.project_id = $1
order by c.last_name, c.first_name;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contacts.Contact, 0, 8)
	for rows.Next() {
		var c contacts.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Position, &c.FirmID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListByFirm returns a firm's projects, newest first.
func (r *Repo) ListByFirm(ctx context.Context, firmID string) ([]Project, error) {
	q := `select ` + projectCols + ` from projects where firm_id = $1 order by created_at desc;`
	return r.queryProjects(ctx, q, firmID)
}

// Search matches the query as a case-insensitive substring of the project
// name or description.
func (r *Repo) Search(ctx context.Context, query string) ([]Project, error) {
	q := `select ` + projectCols + ` from projects
where lower(name) like lower($1) or lower(description) like lower($1);`
	return r.queryProjects(ctx, q, "%"+query+"%")
}

func (r *Repo) queryProjects(ctx context.Context, q string, args ...any) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
