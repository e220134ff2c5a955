package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidEntity means the entity kind is not firm/contact/project.
	ErrInvalidEntity = errors.New("invalid entity kind")
	// ErrEntityNotFound means the referenced entity row does not exist.
	ErrEntityNotFound = errors.New("entity not found")
)

// EntityKind identifies which kind of record a note is attached to.
type EntityKind string

const (
	KindFirm    EntityKind = "firm"
	KindContact EntityKind = "contact"
	KindProject EntityKind = "project"
)

// ParseEntityKind maps a form value to an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case KindFirm, KindContact, KindProject:
		return EntityKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntity, s)
}

// EntityRef names the single record a note belongs to. Using a kind+id
// pair instead of three optional foreign keys keeps "scoped to more than
// one entity" unrepresentable at the API boundary.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	FirmID    string    `json:"firm_id,omitempty"`
	ContactID string    `json:"contact_id,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EntityType reports which kind of record the note is attached to, reading
// the foreign keys in priority order firm > contact > project. Rows
// predating the write-time checks may have none set and report "Unknown".
func (n *Note) EntityType() string {
	switch {
	case n.FirmID != "":
		return "Firm"
	case n.ContactID != "":
		return "Contact"
	case n.ProjectID != "":
		return "Project"
	}
	return "Unknown"
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// parentTable maps an entity kind to the table its id must resolve in.
func parentTable(kind EntityKind) (string, error) {
	switch kind {
	case KindFirm:
		return "firms", nil
	case KindContact:
		return "contacts", nil
	case KindProject:
		return "projects", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntity, kind)
}

// Create inserts a note attached to the referenced entity. The reference
// is checked before the write: a bad kind or a dangling id is rejected
// instead of producing an unreachable note.
func (r *Repo) Create(ctx context.Context, userID, content string, ref EntityRef) (*Note, error) {
	if content == "" {
		return nil, fmt.Errorf("content required")
	}

	table, err := parentTable(ref.Kind)
	if err != nil {
		return nil, err
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `select 1 from `+table+` where id = $1;`, ref.ID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", ErrEntityNotFound, ref.Kind, ref.ID)
		}
		return nil, err
	}

	n := Note{
		ID:        uuid.NewString(),
		Content:   content,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	switch ref.Kind {
	case KindFirm:
		n.FirmID = ref.ID
	case KindContact:
		n.ContactID = ref.ID
	case KindProject:
		n.ProjectID = ref.ID
	}

	const q = `
insert into notes (id, content, user_id, firm_id, contact_id, project_id, created_at)
values ($1, $2, $3, nullif($4,''), nullif($5,''), nullif($6,''), $7);
`
	_, err = r.db.ExecContext(ctx, q,
		n.ID, n.Content, n.UserID, n.FirmID, n.ContactID, n.ProjectID, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListForEntity returns the notes attached to one entity, newest first.
func (r *Repo) ListForEntity(ctx context.Context, ref EntityRef) ([]Note, error) {
	var col string
	switch ref.Kind {
	case KindFirm:
		col = "firm_id"
	case KindContact:
		col = "contact_id"
	case KindProject:
		col = "project_id"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntity, ref.Kind)
	}

	q := `select ` + noteCols + ` from notes where ` + col + ` = $1 order by created_at desc;`
	return r.queryNotes(ctx, q, ref.ID)
}

// Recent returns the limit most recent notes. A non-nil kind restricts the
// feed to notes scoped to that entity kind.
func (r *Repo) Recent(ctx context.Context, kind *EntityKind, limit int) ([]Note, error) {
	q := `select ` + noteCols + ` from notes`
	if kind != nil {
		switch *kind {
		case KindFirm:
			q += ` where firm_id is not null`
		case KindContact:
			q += ` where contact_id is not null`
		case KindProject:
			q += ` where project_id is not null`
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidEntity, *kind)
		}
	}
	q += ` order by created_at desc limit $1;`
	return r.queryNotes(ctx, q, limit)
}

const noteCols = `id, content, user_id, coalesce(firm_id,''), coalesce(contact_id,''), coalesce(project_id,''), created_at`

func (r *Repo) queryNotes(ctx context.Context, q string, args ...any) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0, 16)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Content, &n.UserID, &n.FirmID, &n.ContactID, &n.ProjectID, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
