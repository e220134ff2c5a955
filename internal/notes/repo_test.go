package notes

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvedi/crm-backend/internal/testutil"
)

type fixture struct {
	conn      *sql.DB
	repo      *Repo
	userID    string
	firmID    string
	contactID string
	projectID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	now := time.Now().UTC()

	f := &fixture{
		conn:      conn,
		repo:      NewRepo(conn),
		userID:    uuid.NewString(),
		firmID:    uuid.NewString(),
		contactID: uuid.NewString(),
		projectID: uuid.NewString(),
	}

	_, err := conn.Exec(`insert into users (id, username, email, created_at) values ($1, 'admin', 'admin@example.com', $2);`, f.userID, now)
	require.NoError(t, err)
	_, err = conn.Exec(`insert into firms (id, name, created_at, updated_at) values ($1, 'Acme', $2, $2);`, f.firmID, now)
	require.NoError(t, err)
	_, err = conn.Exec(`insert into contacts (id, first_name, last_name, firm_id, created_at, updated_at) values ($1, 'Jo', 'Lee', $2, $3, $3);`, f.contactID, f.firmID, now)
	require.NoError(t, err)
	_, err = conn.Exec(`insert into projects (id, name, status, firm_id, created_at, updated_at) values ($1, 'P1', 'Active', $2, $3, $3);`, f.projectID, f.firmID, now)
	require.NoError(t, err)

	return f
}

// newEmptyUserFixture seeds the entities but no users, for exercising the
// lazy default-author path.
func newEmptyUserFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	now := time.Now().UTC()

	f := &fixture{
		conn:   conn,
		repo:   NewRepo(conn),
		firmID: uuid.NewString(),
	}

	_, err := conn.Exec(`insert into firms (id, name, created_at, updated_at) values ($1, 'Acme', $2, $2);`, f.firmID, now)
	require.NoError(t, err)

	return f
}

func TestEntityType_Priority(t *testing.T) {
	assert.Equal(t, "Firm", (&Note{FirmID: "f"}).EntityType())
	assert.Equal(t, "Contact", (&Note{ContactID: "c"}).EntityType())
	assert.Equal(t, "Project", (&Note{ProjectID: "p"}).EntityType())
	assert.Equal(t, "Unknown", (&Note{}).EntityType())

	// firm wins over contact wins over project if several are ever set
	assert.Equal(t, "Firm", (&Note{FirmID: "f", ContactID: "c", ProjectID: "p"}).EntityType())
	assert.Equal(t, "Contact", (&Note{ContactID: "c", ProjectID: "p"}).EntityType())
}

func TestParseEntityKind(t *testing.T) {
	for _, s := range []string{"firm", "contact", "project"} {
		k, err := ParseEntityKind(s)
		require.NoError(t, err)
		assert.Equal(t, EntityKind(s), k)
	}

	_, err := ParseEntityKind("invoice")
	assert.ErrorIs(t, err, ErrInvalidEntity)

	_, err = ParseEntityKind("")
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestCreate_SetsExactlyOneForeignKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.repo.Create(ctx, f.userID, "hi", EntityRef{Kind: KindProject, ID: f.projectID})
	require.NoError(t, err)
	assert.Empty(t, n.FirmID)
	assert.Empty(t, n.ContactID)
	assert.Equal(t, f.projectID, n.ProjectID)
	assert.Equal(t, "Project", n.EntityType())

	got, err := f.repo.ListForEntity(ctx, EntityRef{Kind: KindProject, ID: f.projectID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Content)
}

func TestCreate_RejectsBadReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.Create(ctx, f.userID, "hi", EntityRef{Kind: "invoice", ID: f.firmID})
	assert.ErrorIs(t, err, ErrInvalidEntity)

	_, err = f.repo.Create(ctx, f.userID, "hi", EntityRef{Kind: KindFirm, ID: "dangling"})
	assert.ErrorIs(t, err, ErrEntityNotFound)

	_, err = f.repo.Create(ctx, f.userID, "", EntityRef{Kind: KindFirm, ID: f.firmID})
	assert.Error(t, err)

	// nothing was written
	var count int
	require.NoError(t, f.conn.QueryRow(`select count(*) from notes`).Scan(&count))
	assert.Zero(t, count)
}

func TestListForEntity_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := f.repo.Create(ctx, f.userID, fmt.Sprintf("note %d", i), EntityRef{Kind: KindFirm, ID: f.firmID})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	got, err := f.repo.ListForEntity(ctx, EntityRef{Kind: KindFirm, ID: f.firmID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "note 3", got[0].Content)
	assert.Equal(t, "note 1", got[2].Content)
}

func TestRecent_FilterAndCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	refs := []EntityRef{
		{Kind: KindFirm, ID: f.firmID},
		{Kind: KindContact, ID: f.contactID},
		{Kind: KindProject, ID: f.projectID},
	}
	for i := 0; i < 25; i++ {
		_, err := f.repo.Create(ctx, f.userID, fmt.Sprintf("note %d", i), refs[i%3])
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	all, err := f.repo.Recent(ctx, nil, 20)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, "note 24", all[0].Content)

	contactKind := KindContact
	onlyContacts, err := f.repo.Recent(ctx, &contactKind, 20)
	require.NoError(t, err)
	require.NotEmpty(t, onlyContacts)
	for _, n := range onlyContacts {
		assert.Equal(t, f.contactID, n.ContactID)
		assert.Empty(t, n.FirmID)
		assert.Empty(t, n.ProjectID)
	}
}

func TestRecent_UnknownKindRejected(t *testing.T) {
	f := newFixture(t)

	bogus := EntityKind("invoice")
	_, err := f.repo.Recent(context.Background(), &bogus, 20)
	assert.ErrorIs(t, err, ErrInvalidEntity)
}
