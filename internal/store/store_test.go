package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	st, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)

	// A fresh connection would get its own empty in-memory database
	st.SetMaxOpenConns(1)

	t.Cleanup(func() { st.Close() })
	return st
}

func newTestProject(t *testing.T, st *Store, name string) *models.Project {
	p := &models.Project{ID: uuid.NewString(), Name: name}
	require.NoError(t, st.InsertProject(context.Background(), p))
	return p
}

func TestInsertProjectStampsTimestamps(t *testing.T) {
	st := newTestStore(t)

	p := newTestProject(t, st, "notes")
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())

	got, err := st.GetProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Name)
	assert.False(t, got.IsActive)
}

func TestInsertDuplicateProjectIsConstraintError(t *testing.T) {
	st := newTestStore(t)

	p := newTestProject(t, st, "notes")
	err := st.InsertProject(context.Background(), &models.Project{ID: p.ID, Name: "other"})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestGetProjectNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveProjectNoneIsNotAnError(t *testing.T) {
	st := newTestStore(t)

	p, err := st.ActiveProject(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestListProjectsEmpty(t *testing.T) {
	st := newTestStore(t)

	projects, err := st.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdateProjectBumpsUpdatedAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")

	require.NoError(t, st.UpdateProject(ctx, p.ID, "renamed", "desc"))

	got, err := st.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
}

func TestUpdateProjectNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.UpdateProject(context.Background(), "missing", "x", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	value, err := st.Setting(ctx, "last_project_id")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, st.SetSetting(ctx, "last_project_id", "p1"))
	require.NoError(t, st.SetSetting(ctx, "last_project_id", "p2"))

	value, err = st.Setting(ctx, "last_project_id")
	require.NoError(t, err)
	assert.Equal(t, "p2", value)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")

	failErr := assert.AnError
	err := st.WithTx(ctx, func(tx *sql.Tx) error {
		if err := st.ClearActiveProjects(ctx, tx); err != nil {
			return err
		}
		if err := st.ActivateProject(ctx, tx, p.ID); err != nil {
			return err
		}
		return failErr
	})
	assert.ErrorIs(t, err, failErr)

	got, err := st.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "activation should have rolled back")
}
