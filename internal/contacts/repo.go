package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("contact not found")
	ErrFirmNotFound = errors.New("firm not found")
)

type Contact struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position,omitempty"`
	FirmID    string    `json:"firm_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName is derived from the stored name parts.
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// FirmRef is the slice of the owning firm the contact views need.
type FirmRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Input carries the editable fields of a contact. The owning firm is fixed
// at creation and not editable.
type Input struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const contactCols = `id, first_name, last_name, coalesce(email,''), coalesce(phone,''), coalesce(position,''), firm_id, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }, c *Contact) error {
	return row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Position, &c.FirmID, &c.CreatedAt, &c.UpdatedAt)
}

// FirmRef resolves the owning firm for form context, without depending on
// the firms package.
func (r *Repo) FirmRef(ctx context.Context, firmID string) (*FirmRef, error) {
	var f FirmRef
	err := r.db.QueryRowContext(ctx, `select id, name from firms where id = $1;`, firmID).
		Scan(&f.ID, &f.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFirmNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repo) Create(ctx context.Context, firmID string, in Input) (*Contact, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("first and last name required")
	}
	if _, err := r.FirmRef(ctx, firmID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := Contact{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Position:  in.Position,
		FirmID:    firmID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const q = `
insert into contacts (id, first_name, last_name, email, phone, position, firm_id, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Position, c.FirmID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (*Contact, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("first and last name required")
	}

	const q = `
update contacts
set first_name = $2, last_name = $3, email = $4, phone = $5, position = $6, updated_at = $7
where id = $1;
`
	res, err := r.db.ExecContext(ctx, q,
		id, in.FirstName, in.LastName, in.Email, in.Phone, in.Position, time.Now().UTC())
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
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Contact, error) {
	q := `select ` + contactCols + ` from contacts where id = $1;`

	var c Contact
	if err := scanContact(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByFirm returns a firm's contacts ordered by last then first name.
func (r *Repo) ListByFirm(ctx context.Context, firmID string) ([]Contact, error) {
	q := `select ` + contactCols + ` from contacts where firm_id = $1 order by last_name, first_name;`
	return r.queryContacts(ctx, q, firmID)
}

// Search matches the query as a case-insensitive substring of the first
// name, last name or email.
func (r *Repo) Search(ctx context.Context, query string) ([]Contact, error) {
	q := `select ` + contactCols + ` from contacts
where lower(first_name) like lower($1)
   or lower(last_name) like lower($1)
   or lower(email) like lower($1);`
	return r.queryContacts(ctx, q, "%"+query+"%")
}

func (r *Repo) queryContacts(ctx context.Context, q string, args ...any) ([]Contact, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Contact, 0, 16)
	for rows.Next() {
		var c Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
