package firms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("firm not found")

type Firm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	Website   string    `json:"website,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the editable fields of a firm. Updates overwrite all of
// them, they are not a partial patch.
type Input struct {
	Name     string
	Industry string
	Website  string
	Phone    string
	Address  string
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const firmCols = `id, name, coalesce(industry,''), coalesce(website,''), coalesce(phone,''), coalesce(address,''), created_at, updated_at`

func scanFirm(row interface{ Scan(...any) error }, f *Firm) error {
	return row.Scan(&f.ID, &f.Name, &f.Industry, &f.Website, &f.Phone, &f.Address, &f.CreatedAt, &f.UpdatedAt)
}

func (r *Repo) Create(ctx context.Context, in Input) (*Firm, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}

	now := time.Now().UTC()
	f := Firm{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Industry:  in.Industry,
		Website:   in.Website,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const q = `
insert into firms (id, name, industry, website, phone, address, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.db.ExecContext(ctx, q,
		f.ID, f.Name, f.Industry, f.Website, f.Phone, f.Address, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (*Firm, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}

	const q = `
update firms
set name = $2, industry = $3, website = $4, phone = $5, address = $6, updated_at = $7
where id = $1;
`
	res, err := r.db.ExecContext(ctx, q,
		id, in.Name, in.Industry, in.Website, in.Phone, in.Address, time.Now().UTC())
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

func (r *Repo) GetByID(ctx context.Context, id string) (*Firm, error) {
	q := `select ` + firmCols + ` from firms where id = $1;`

	var f Firm
	if err := scanFirm(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns all firms ordered by name.
func (r *Repo) List(ctx context.Context) ([]Firm, error) {
	q := `select ` + firmCols + ` from firms order by name;`
	return r.queryFirms(ctx, q)
}

// Recent returns the n most recently created firms.
func (r *Repo) Recent(ctx context.Context, n int) ([]Firm, error) {
	q := `select ` + firmCols + ` from firms order by created_at desc limit $1;`
	return r.queryFirms(ctx, q, n)
}

// Search matches the query as a case-insensitive substring of the firm
// name or industry.
func (r *Repo) Search(ctx context.Context, query string) ([]Firm, error) {
	q := `select ` + firmCols + ` from firms
where lower(name) like lower($1) or lower(industry) like lower($1);`
	return r.queryFirms(ctx, q, "%"+query+"%")
}

// Delete removes the firm. Contacts, projects and notes beneath it go with
// it via the schema's cascade rules.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `delete from firms where id = $1;`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) queryFirms(ctx context.Context, q string, args ...any) ([]Firm, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Firm, 0, 16)
	for rows.Next() {
		var f Firm
		if err := scanFirm(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
