package ui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/sparktown/sparkdown/internal/service"
	"github.com/sparktown/sparkdown/internal/store"
	"github.com/sparktown/sparkdown/internal/ui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain executes a command tree, discarding the produced messages
func drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(c)
		}
	}
}

func TestProjectChosenLogsFailedSettingWrite(t *testing.T) {
	st, err := store.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	st.SetMaxOpenConns(1)
	// Every write from here on fails
	require.NoError(t, st.Close())

	var logBuf bytes.Buffer
	log := zerolog.New(&logBuf)

	svc := service.New(st, zerolog.Nop())
	app := NewApp(svc, log, time.Second)

	_, cmd := app.Update(views.ProjectChosen{Project: models.Project{ID: "p1", Name: "notes"}})
	require.NotNil(t, cmd)
	drain(cmd)

	assert.Contains(t, logBuf.String(), "persist last project id")
	assert.Contains(t, logBuf.String(), "p1")
}
