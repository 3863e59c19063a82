package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sparktown/sparkdown/internal/service"
	"github.com/sparktown/sparkdown/internal/ui/keys"
	"github.com/sparktown/sparkdown/internal/ui/state"
	"github.com/sparktown/sparkdown/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewWorkspace
)

// autosaveTickMsg fires after the debounce delay; a stale generation
// means another keystroke arrived and reset the timer.
type autosaveTickMsg struct {
	gen    int
	fileID string
}

// App is the root model. It owns the application state, advances it
// through the reducer, and routes everything else to the views.
type App struct {
	svc *service.Service
	ops state.Ops
	st  state.AppState
	log zerolog.Logger

	currentView View
	picking     bool // user explicitly asked for the project picker

	projectList *views.ProjectListView
	workspace   *views.WorkspaceView
	commandBar  *views.CommandBarView

	keys   keys.KeyMap
	width  int
	height int

	autosaveDelay time.Duration
	autosaveGen   int
}

// NewApp creates a new application
func NewApp(svc *service.Service, log zerolog.Logger, autosaveDelay time.Duration) *App {
	return &App{
		svc:           svc,
		ops:           state.NewOps(svc),
		st:            state.New(),
		log:           log,
		currentView:   ViewProjects,
		projectList:   views.NewProjectListView(),
		workspace:     views.NewWorkspaceView(),
		commandBar:    views.NewCommandBarView(),
		keys:          keys.DefaultKeyMap(),
		autosaveDelay: autosaveDelay,
	}
}

func (a *App) Init() tea.Cmd {
	return a.ops.Initialize()
}

// apply advances the shared state through the reducer
func (a *App) apply(msg tea.Msg) {
	a.st = state.Apply(a.st, msg)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.projectList.SetSize(msg.Width, msg.Height)
		a.workspace.SetSize(msg.Width, msg.Height)
		a.commandBar.SetSize(msg.Width, msg.Height)
		return a, nil

	case state.DataRefreshedMsg:
		a.apply(msg)
		a.projectList.SetProjects(a.st.Projects)
		if a.st.ActiveProject == nil {
			a.currentView = ViewProjects
		} else if !a.picking {
			a.currentView = ViewWorkspace
		}
		return a, nil

	case state.LoadingMsg, state.ErrMsg, state.TabOpenedMsg, state.TabClosedMsg,
		state.ActiveTabSetMsg, state.FileSavedMsg:
		a.apply(msg)
		return a, nil

	case state.ToggleCommandBarMsg, state.SetCommandBarMsg:
		wasOpen := a.st.CommandBarOpen
		a.apply(msg)
		if a.st.CommandBarOpen && !wasOpen {
			return a, a.commandBar.Open(a.st)
		}
		return a, nil

	case views.ProjectChosen:
		a.picking = false
		a.currentView = ViewWorkspace
		project := msg.Project
		persist := func() tea.Msg {
			if err := a.svc.SetSetting(context.Background(), "last_project_id", project.ID); err != nil {
				a.log.Error().Err(err).Str("project_id", project.ID).Msg("persist last project id")
			}
			return nil
		}
		return a, tea.Batch(a.ops.SetActiveProject(project.ID), persist)

	case views.ProjectCreateSubmitted:
		a.picking = false
		return a, a.ops.CreateProject(msg.Name, msg.Description)

	case views.FileOpenRequested:
		a.apply(state.SetCommandBarMsg{Open: false})
		return a, a.ops.OpenFile(a.st.Tabs, msg.FileID)

	case views.TabSelectRequested:
		return a, a.ops.SelectTab(msg.TabID)

	case views.TabCloseRequested:
		return a, a.ops.CloseTab(msg.TabID)

	case views.EditorChanged:
		a.apply(state.FileEditedMsg{FileID: msg.FileID, Content: msg.Content})
		a.autosaveGen++
		gen := a.autosaveGen
		fileID := msg.FileID
		return a, tea.Tick(a.autosaveDelay, func(time.Time) tea.Msg {
			return autosaveTickMsg{gen: gen, fileID: fileID}
		})

	case autosaveTickMsg:
		// Only the newest pending timer saves; earlier ones were
		// superseded by further keystrokes.
		if msg.gen != a.autosaveGen || !a.st.IsDirty(msg.fileID) {
			return a, nil
		}
		return a, a.ops.SaveFile(a.st.Files, msg.fileID)

	case views.SaveRequested:
		a.apply(state.SetCommandBarMsg{Open: false})
		return a, a.ops.SaveFile(a.st.Files, msg.FileID)

	case views.FileCreateSubmitted:
		if a.st.ActiveProject == nil {
			return a, nil
		}
		return a, a.ops.CreateFile(a.st.ActiveProject.ID, msg.Name, msg.FolderID)

	case views.FolderCreateSubmitted:
		if a.st.ActiveProject == nil {
			return a, nil
		}
		return a, a.ops.CreateFolder(a.st.ActiveProject.ID, msg.Name, msg.ParentID)

	case views.CommandNewFileRequested:
		a.apply(state.SetCommandBarMsg{Open: false})
		return a, a.workspace.BeginCreateFile()

	case views.CommandNewFolderRequested:
		a.apply(state.SetCommandBarMsg{Open: false})
		return a, a.workspace.BeginCreateFolder()

	case views.SwitchProjectRequested:
		a.apply(state.SetCommandBarMsg{Open: false})
		a.picking = true
		a.currentView = ViewProjects
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.CommandBar):
			return a.Update(state.ToggleCommandBarMsg{})

		case key.Matches(msg, a.keys.Save):
			if a.st.ActiveTab != nil && a.currentView == ViewWorkspace && !a.st.CommandBarOpen {
				return a, a.ops.SaveFile(a.st.Files, a.st.ActiveTab.FileID)
			}

		case key.Matches(msg, a.keys.Projects):
			if !a.st.CommandBarOpen {
				a.picking = true
				a.currentView = ViewProjects
				return a, nil
			}
		}
	}

	if a.st.CommandBarOpen {
		return a, a.commandBar.Update(msg)
	}

	switch a.currentView {
	case ViewWorkspace:
		return a, a.workspace.Update(a.st, msg)
	default:
		return a, a.projectList.Update(msg)
	}
}

func (a *App) View() string {
	if a.st.CommandBarOpen {
		return a.commandBar.View()
	}

	switch a.currentView {
	case ViewWorkspace:
		return a.workspace.View(a.st)
	default:
		return a.projectList.View()
	}
}
