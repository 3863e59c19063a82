package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/sparktown/sparkdown/internal/ui/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBar(t *testing.T) *CommandBarView {
	t.Helper()

	st := state.New()
	st.Files = []models.File{
		{ID: "f1", Name: "welcome.sparkdown", Path: "welcome.sparkdown"},
		{ID: "f2", Name: "journal.sparkdown", Path: "journal.sparkdown"},
	}

	v := NewCommandBarView()
	v.SetSize(80, 24)
	v.Open(st)
	return v
}

func typeQuery(v *CommandBarView, query string) {
	for _, r := range query {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestCommandBarTypingReachesFilterInput(t *testing.T) {
	v := openTestBar(t)

	// "sparkdown" and "journal" both contain letters that double as
	// list-navigation aliases elsewhere in the app
	typeQuery(v, "sparkdown")
	assert.Equal(t, "sparkdown", v.input.Value())

	v.input.Reset()
	typeQuery(v, "journal")
	assert.Equal(t, "journal", v.input.Value())

	matches := v.filtered()
	require.Len(t, matches, 1)
	assert.Equal(t, "Open journal.sparkdown", matches[0].title)
}

func TestCommandBarArrowKeysMoveCursor(t *testing.T) {
	v := openTestBar(t)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.cursor)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, v.cursor)
}

func TestCommandBarEnterEmitsSelectedCommand(t *testing.T) {
	v := openTestBar(t)

	typeQuery(v, "welcome")
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, FileOpenRequested{FileID: "f1"}, cmd())
}

func TestCommandBarEscCloses(t *testing.T) {
	v := openTestBar(t)

	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, state.SetCommandBarMsg{Open: false}, cmd())
}
