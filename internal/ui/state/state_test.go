package state

import (
	"testing"

	"github.com/sparktown/sparkdown/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tab(id, fileID string) models.Tab {
	return models.Tab{ID: id, FileID: fileID}
}

func TestNewStartsLoading(t *testing.T) {
	st := New()
	assert.True(t, st.IsLoading)
	assert.NotNil(t, st.Unsaved)
}

func TestUnknownMessageLeavesStateUnchanged(t *testing.T) {
	st := New()
	next := Apply(st, struct{}{})
	assert.Equal(t, st, next)
}

func TestDataRefreshedReplacesCollectionsAndStopsLoading(t *testing.T) {
	st := New()
	active := models.Project{ID: "p1", Name: "notes", IsActive: true}
	next := Apply(st, DataRefreshedMsg{
		Projects:      []models.Project{active},
		ActiveProject: &active,
		Files:         []models.File{{ID: "f1", Name: "a.sparkdown"}},
		Tabs:          []models.Tab{tab("t1", "f1")},
	})
	assert.False(t, next.IsLoading)
	assert.Len(t, next.Projects, 1)
	assert.Len(t, next.Files, 1)
	require.NotNil(t, next.ActiveProject)
	assert.Equal(t, "p1", next.ActiveProject.ID)
}

func TestErrMsgRecordsBannerTextAndStopsLoading(t *testing.T) {
	st := New()
	next := Apply(st, ErrMsg{Err: assert.AnError})
	assert.Equal(t, assert.AnError.Error(), next.Err)
	assert.False(t, next.IsLoading)
}

func TestTabOpenedAppendsAndActivates(t *testing.T) {
	st := New()
	st.Tabs = []models.Tab{tab("t1", "f1")}

	next := Apply(st, TabOpenedMsg{Tab: tab("t2", "f2")})
	require.Len(t, next.Tabs, 2)
	require.NotNil(t, next.ActiveTab)
	assert.Equal(t, "t2", next.ActiveTab.ID)

	// Previous state is untouched
	assert.Len(t, st.Tabs, 1)
}

func TestTabClosedReselectsFirstRemaining(t *testing.T) {
	st := New()
	st.Tabs = []models.Tab{tab("t1", "f1"), tab("t2", "f2"), tab("t3", "f3")}
	activ := st.Tabs[1]
	st.ActiveTab = &activ

	next := Apply(st, TabClosedMsg{TabID: "t2"})
	require.Len(t, next.Tabs, 2)
	require.NotNil(t, next.ActiveTab)
	assert.Equal(t, "t1", next.ActiveTab.ID)
}

func TestTabClosedKeepsActiveWhenOtherTabCloses(t *testing.T) {
	st := New()
	st.Tabs = []models.Tab{tab("t1", "f1"), tab("t2", "f2")}
	activ := st.Tabs[0]
	st.ActiveTab = &activ

	next := Apply(st, TabClosedMsg{TabID: "t2"})
	require.NotNil(t, next.ActiveTab)
	assert.Equal(t, "t1", next.ActiveTab.ID)
}

func TestTabClosedLastTabClearsActive(t *testing.T) {
	st := New()
	st.Tabs = []models.Tab{tab("t1", "f1")}
	activ := st.Tabs[0]
	st.ActiveTab = &activ

	next := Apply(st, TabClosedMsg{TabID: "t1"})
	assert.Empty(t, next.Tabs)
	assert.Nil(t, next.ActiveTab)
}

func TestFileEditedMarksDirtyAndRewritesContent(t *testing.T) {
	st := New()
	st.Files = []models.File{{ID: "f1", Content: "old"}}

	next := Apply(st, FileEditedMsg{FileID: "f1", Content: "new"})
	assert.Equal(t, "new", next.Files[0].Content)
	assert.True(t, next.IsDirty("f1"))

	// The original slice and set are not aliased
	assert.Equal(t, "old", st.Files[0].Content)
	assert.False(t, st.IsDirty("f1"))
}

func TestFileSavedClearsDirty(t *testing.T) {
	st := New()
	st = Apply(st, FileEditedMsg{FileID: "f1", Content: "x"})
	require.True(t, st.IsDirty("f1"))

	next := Apply(st, FileSavedMsg{FileID: "f1"})
	assert.False(t, next.IsDirty("f1"))
}

func TestCommandBarToggleAndSet(t *testing.T) {
	st := New()

	st = Apply(st, ToggleCommandBarMsg{})
	assert.True(t, st.CommandBarOpen)
	st = Apply(st, ToggleCommandBarMsg{})
	assert.False(t, st.CommandBarOpen)

	st = Apply(st, SetCommandBarMsg{Open: true})
	assert.True(t, st.CommandBarOpen)
	st = Apply(st, SetCommandBarMsg{Open: false})
	assert.False(t, st.CommandBarOpen)
}
