package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T, st *Store, projectID, name string, folderID *string) *models.File {
	f := &models.File{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		FolderID:  folderID,
		Name:      name,
		Path:      name,
		Language:  "sparkdown",
	}
	require.NoError(t, st.InsertFile(context.Background(), f))
	return f
}

func TestUpdateFileContentStampsStrictlyNewerTimestamps(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")
	f := newTestFile(t, st, p.ID, "a.sparkdown", nil)

	require.NoError(t, st.UpdateFileContent(ctx, f.ID, "first"))
	first, err := st.GetFile(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.After(f.UpdatedAt))
	assert.True(t, first.LastModified.After(f.LastModified))

	require.NoError(t, st.UpdateFileContent(ctx, f.ID, "second"))
	second, err := st.GetFile(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", second.Content)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpdateFileContentNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.UpdateFileContent(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilesInFolderSeparatesRootFromNested(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")

	folder := &models.Folder{ID: uuid.NewString(), ProjectID: p.ID, Name: "drafts", Path: "drafts"}
	require.NoError(t, st.InsertFolder(ctx, folder))

	root := newTestFile(t, st, p.ID, "root.sparkdown", nil)
	nested := newTestFile(t, st, p.ID, "nested.sparkdown", &folder.ID)

	rootFiles, err := st.ListFilesInFolder(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Len(t, rootFiles, 1)
	assert.Equal(t, root.ID, rootFiles[0].ID)

	nestedFiles, err := st.ListFilesInFolder(ctx, p.ID, &folder.ID)
	require.NoError(t, err)
	require.Len(t, nestedFiles, 1)
	assert.Equal(t, nested.ID, nestedFiles[0].ID)

	all, err := st.ListFiles(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteFileIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")
	f := newTestFile(t, st, p.ID, "a.sparkdown", nil)

	require.NoError(t, st.DeleteFile(ctx, f.ID))
	require.NoError(t, st.DeleteFile(ctx, f.ID))

	_, err := st.GetFile(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTabLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")
	f := newTestFile(t, st, p.ID, "a.sparkdown", nil)

	tab := &models.Tab{ID: uuid.NewString(), FileID: f.ID}
	require.NoError(t, st.InsertTab(ctx, tab))
	assert.False(t, tab.CreatedAt.IsZero())
	assert.False(t, tab.LastAccessed.IsZero())

	active, err := st.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	err = st.WithTx(ctx, func(tx *sql.Tx) error {
		if err := st.ClearActiveTabs(ctx, tx); err != nil {
			return err
		}
		return st.ActivateTab(ctx, tx, tab.ID)
	})
	require.NoError(t, err)

	active, err = st.ActiveTab(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, tab.ID, active.ID)
	assert.True(t, active.LastAccessed.After(tab.LastAccessed))

	// Deleting twice is fine
	require.NoError(t, st.DeleteTab(ctx, tab.ID))
	require.NoError(t, st.DeleteTab(ctx, tab.ID))

	tabs, err := st.ListTabs(ctx)
	require.NoError(t, err)
	assert.Empty(t, tabs)
}

func TestSetTabDirty(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")
	f := newTestFile(t, st, p.ID, "a.sparkdown", nil)

	tab := &models.Tab{ID: uuid.NewString(), FileID: f.ID}
	require.NoError(t, st.InsertTab(ctx, tab))

	require.NoError(t, st.SetTabDirty(ctx, tab.ID, true))
	got, err := st.GetTab(ctx, tab.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDirty)

	require.NoError(t, st.SetTabDirty(ctx, tab.ID, false))
	got, err = st.GetTab(ctx, tab.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDirty)

	err = st.SetTabDirty(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTabsForFile(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")
	a := newTestFile(t, st, p.ID, "a.sparkdown", nil)
	b := newTestFile(t, st, p.ID, "b.sparkdown", nil)

	require.NoError(t, st.InsertTab(ctx, &models.Tab{ID: uuid.NewString(), FileID: a.ID}))
	require.NoError(t, st.InsertTab(ctx, &models.Tab{ID: uuid.NewString(), FileID: a.ID}))
	require.NoError(t, st.InsertTab(ctx, &models.Tab{ID: uuid.NewString(), FileID: b.ID}))

	require.NoError(t, st.DeleteTabsForFile(ctx, a.ID))

	tabs, err := st.ListTabs(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, b.ID, tabs[0].FileID)
}
