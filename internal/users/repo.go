package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `
select id, username, email, created_at
from users
where id = $1;
`
	var u User
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureDefault returns the oldest user, creating the fallback "admin"
// author the first time anything needs one.
func (r *Repo) EnsureDefault(ctx context.Context) (*User, error) {
	const q = `
select id, username, email, created_at
from users
order by created_at
limit 1;
`
	var u User
	err := r.db.QueryRowContext(ctx, q).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return r.Create(ctx, "admin", "admin@example.com")
}

func (r *Repo) Create(ctx context.Context, username, email string) (*User, error) {
	u := User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	const q = `
insert into users (id, username, email, created_at)
values ($1, $2, $3, $4);
`
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.Username, u.Email, u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
