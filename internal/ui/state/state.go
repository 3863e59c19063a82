// Package state holds the single source of truth for the view layer:
// an immutable state value advanced by a pure reducer over a closed
// set of messages. Asynchronous effects (see ops.go) never mutate
// state directly; they resolve to messages fed back through Apply.
package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sparktown/sparkdown/internal/models"
)

// AppState is the renderable application state
type AppState struct {
	Projects      []models.Project
	ActiveProject *models.Project

	Folders []models.Folder
	Files   []models.File

	Tabs      []models.Tab
	ActiveTab *models.Tab

	IsLoading      bool
	Err            string
	CommandBarOpen bool

	// Unsaved holds the ids of files with in-memory edits not yet
	// written to the store
	Unsaved map[string]struct{}
}

// New returns the initial application state
func New() AppState {
	return AppState{
		IsLoading: true,
		Unsaved:   map[string]struct{}{},
	}
}

// IsDirty reports whether a file has unsaved edits
func (st AppState) IsDirty(fileID string) bool {
	_, ok := st.Unsaved[fileID]
	return ok
}

// Messages accepted by Apply. Anything else leaves state unchanged.
type (
	// LoadingMsg flips the loading flag
	LoadingMsg struct{ On bool }

	// ErrMsg records an operation failure for the error banner
	ErrMsg struct{ Err error }

	// DataRefreshedMsg replaces every persisted collection wholesale
	DataRefreshedMsg struct {
		Projects      []models.Project
		ActiveProject *models.Project
		Folders       []models.Folder
		Files         []models.File
		Tabs          []models.Tab
		ActiveTab     *models.Tab
	}

	// TabOpenedMsg appends a freshly created tab and makes it active
	TabOpenedMsg struct{ Tab models.Tab }

	// TabClosedMsg drops a tab; if it was active the first remaining
	// tab in list order becomes active
	TabClosedMsg struct{ TabID string }

	// ActiveTabSetMsg replaces the active tab selection
	ActiveTabSetMsg struct{ Tab *models.Tab }

	// FileEditedMsg rewrites a file's content in memory only and
	// marks it dirty; persistence happens later via SaveFile
	FileEditedMsg struct {
		FileID  string
		Content string
	}

	// FileSavedMsg clears a file's dirty flag
	FileSavedMsg struct{ FileID string }

	// ToggleCommandBarMsg flips the command bar
	ToggleCommandBarMsg struct{}

	// SetCommandBarMsg opens or closes the command bar
	SetCommandBarMsg struct{ Open bool }
)

// Apply is the reducer: a pure transition from (state, message) to the
// next state. Slices and the unsaved set are copied before mutation so
// previous state values stay valid.
func Apply(st AppState, msg tea.Msg) AppState {
	switch msg := msg.(type) {
	case LoadingMsg:
		st.IsLoading = msg.On
		return st

	case ErrMsg:
		st.Err = msg.Err.Error()
		st.IsLoading = false
		return st

	case DataRefreshedMsg:
		st.Projects = msg.Projects
		st.ActiveProject = msg.ActiveProject
		st.Folders = msg.Folders
		st.Files = msg.Files
		st.Tabs = msg.Tabs
		st.ActiveTab = msg.ActiveTab
		st.IsLoading = false
		return st

	case TabOpenedMsg:
		tabs := make([]models.Tab, 0, len(st.Tabs)+1)
		tabs = append(tabs, st.Tabs...)
		tabs = append(tabs, msg.Tab)
		st.Tabs = tabs
		tab := msg.Tab
		st.ActiveTab = &tab
		return st

	case TabClosedMsg:
		tabs := make([]models.Tab, 0, len(st.Tabs))
		for _, t := range st.Tabs {
			if t.ID != msg.TabID {
				tabs = append(tabs, t)
			}
		}
		st.Tabs = tabs
		if st.ActiveTab != nil && st.ActiveTab.ID == msg.TabID {
			if len(tabs) > 0 {
				first := tabs[0]
				st.ActiveTab = &first
			} else {
				st.ActiveTab = nil
			}
		}
		st.Unsaved = without(st.Unsaved, msg.TabID)
		return st

	case ActiveTabSetMsg:
		st.ActiveTab = msg.Tab
		return st

	case FileEditedMsg:
		files := make([]models.File, len(st.Files))
		copy(files, st.Files)
		for i := range files {
			if files[i].ID == msg.FileID {
				files[i].Content = msg.Content
				files[i].LastModified = time.Now()
			}
		}
		st.Files = files
		st.Unsaved = with(st.Unsaved, msg.FileID)
		return st

	case FileSavedMsg:
		st.Unsaved = without(st.Unsaved, msg.FileID)
		return st

	case ToggleCommandBarMsg:
		st.CommandBarOpen = !st.CommandBarOpen
		return st

	case SetCommandBarMsg:
		st.CommandBarOpen = msg.Open
		return st
	}

	return st
}

func with(set map[string]struct{}, id string) map[string]struct{} {
	next := make(map[string]struct{}, len(set)+1)
	for k := range set {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return next
}

func without(set map[string]struct{}, id string) map[string]struct{} {
	next := make(map[string]struct{}, len(set))
	for k := range set {
		if k != id {
			next[k] = struct{}{}
		}
	}
	return next
}
