package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFoldersByProjectAndParent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")

	root := &models.Folder{ID: uuid.NewString(), ProjectID: p.ID, Name: "b-root", Path: "b-root"}
	require.NoError(t, st.InsertFolder(ctx, root))
	sibling := &models.Folder{ID: uuid.NewString(), ProjectID: p.ID, Name: "a-root", Path: "a-root"}
	require.NoError(t, st.InsertFolder(ctx, sibling))
	child := &models.Folder{ID: uuid.NewString(), ProjectID: p.ID, ParentID: &root.ID, Name: "child", Path: "b-root/child"}
	require.NoError(t, st.InsertFolder(ctx, child))

	all, err := st.ListFolders(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Name order
	assert.Equal(t, "a-root", all[0].Name)

	children, err := st.ListChildFolders(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	none, err := st.ListChildFolders(ctx, child.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetFolderNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetFolder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFolderIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := newTestProject(t, st, "notes")
	f := &models.Folder{ID: uuid.NewString(), ProjectID: p.ID, Name: "drafts", Path: "drafts"}
	require.NoError(t, st.InsertFolder(ctx, f))

	require.NoError(t, st.DeleteFolder(ctx, f.ID))
	require.NoError(t, st.DeleteFolder(ctx, f.ID))
}
