package state

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/sparktown/sparkdown/internal/service"
)

// Ops produces the asynchronous commands behind every domain
// operation. Each command calls the data service and resolves to a
// message for Apply: the refreshed collections on success, an ErrMsg
// on any failure.
type Ops struct {
	svc *service.Service
}

// NewOps wraps a service for command production
func NewOps(svc *service.Service) Ops {
	return Ops{svc: svc}
}

// Initialize seeds the workspace on first run, restores the last used
// project when no active flag survives, then loads everything
func (o Ops) Initialize() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := o.svc.Initialize(ctx); err != nil {
			return ErrMsg{Err: fmt.Errorf("initialize workspace: %w", err)}
		}

		active, err := o.svc.ActiveProject(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("load active project: %w", err)}
		}
		if active == nil {
			if lastID, err := o.svc.Setting(ctx, "last_project_id"); err == nil && lastID != "" {
				// A stale id is ignored; the picker shows instead
				o.svc.SetActiveProject(ctx, lastID)
			}
		}

		return o.fetch(ctx)
	}
}

// Refresh re-fetches projects, tabs, active selections and the active
// project's folders and files, replacing state wholesale
func (o Ops) Refresh() tea.Cmd {
	return func() tea.Msg {
		return o.fetch(context.Background())
	}
}

func (o Ops) fetch(ctx context.Context) tea.Msg {
	projects, err := o.svc.Projects(ctx)
	if err != nil {
		return ErrMsg{Err: fmt.Errorf("load projects: %w", err)}
	}
	activeProject, err := o.svc.ActiveProject(ctx)
	if err != nil {
		return ErrMsg{Err: fmt.Errorf("load active project: %w", err)}
	}
	tabs, err := o.svc.Tabs(ctx)
	if err != nil {
		return ErrMsg{Err: fmt.Errorf("load tabs: %w", err)}
	}
	activeTab, err := o.svc.ActiveTab(ctx)
	if err != nil {
		return ErrMsg{Err: fmt.Errorf("load active tab: %w", err)}
	}

	msg := DataRefreshedMsg{
		Projects:      projects,
		ActiveProject: activeProject,
		Tabs:          tabs,
		ActiveTab:     activeTab,
	}

	if activeProject != nil {
		folders, err := o.svc.Folders(ctx, activeProject.ID)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("load folders: %w", err)}
		}
		files, err := o.svc.Files(ctx, activeProject.ID)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("load files: %w", err)}
		}
		msg.Folders = folders
		msg.Files = files
	}

	return msg
}

// CreateProject creates a project, activates it and reloads
func (o Ops) CreateProject(name, description string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		project, err := o.svc.CreateProject(ctx, name, description)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("create project: %w", err)}
		}
		if err := o.svc.SetActiveProject(ctx, project.ID); err != nil {
			return ErrMsg{Err: fmt.Errorf("activate project: %w", err)}
		}
		return o.fetch(ctx)
	}
}

// SetActiveProject switches the active project and reloads
func (o Ops) SetActiveProject(projectID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := o.svc.SetActiveProject(ctx, projectID); err != nil {
			return ErrMsg{Err: fmt.Errorf("set active project: %w", err)}
		}
		return o.fetch(ctx)
	}
}

// CreateFolder creates a folder in the active project and reloads
func (o Ops) CreateFolder(projectID, name string, parentID *string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := o.svc.CreateFolder(ctx, projectID, name, parentID); err != nil {
			return ErrMsg{Err: fmt.Errorf("create folder: %w", err)}
		}
		return o.fetch(ctx)
	}
}

// CreateFile creates a file in the active project and reloads
func (o Ops) CreateFile(projectID, name string, folderID *string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := o.svc.CreateFile(ctx, projectID, name, "", folderID, ""); err != nil {
			return ErrMsg{Err: fmt.Errorf("create file: %w", err)}
		}
		return o.fetch(ctx)
	}
}

// OpenFile opens a file in a tab. If a tab already shows the file it
// is activated instead of opening a second one; otherwise a fresh tab
// is created, appended optimistically, and persisted as active.
func (o Ops) OpenFile(tabs []models.Tab, fileID string) tea.Cmd {
	for _, t := range tabs {
		if t.FileID == fileID {
			return o.SelectTab(t.ID)
		}
	}

	return tea.Sequence(
		func() tea.Msg {
			ctx := context.Background()
			tab, err := o.svc.OpenTab(ctx, fileID)
			if err != nil {
				return ErrMsg{Err: fmt.Errorf("open file: %w", err)}
			}
			if err := o.svc.SetActiveTab(ctx, tab.ID); err != nil {
				return ErrMsg{Err: fmt.Errorf("activate tab: %w", err)}
			}
			tab.IsActive = true
			return TabOpenedMsg{Tab: *tab}
		},
		o.Refresh(),
	)
}

// SelectTab activates an already open tab
func (o Ops) SelectTab(tabID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := o.svc.SetActiveTab(ctx, tabID); err != nil {
			return ErrMsg{Err: fmt.Errorf("set active tab: %w", err)}
		}
		tab, err := o.svc.ActiveTab(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("load active tab: %w", err)}
		}
		return ActiveTabSetMsg{Tab: tab}
	}
}

// CloseTab deletes the tab record; the reducer reselects the first
// remaining tab
func (o Ops) CloseTab(tabID string) tea.Cmd {
	return func() tea.Msg {
		if err := o.svc.CloseTab(context.Background(), tabID); err != nil {
			return ErrMsg{Err: fmt.Errorf("close tab: %w", err)}
		}
		return TabClosedMsg{TabID: tabID}
	}
}

// SaveFile persists a file's current in-memory content. A failure
// leaves the file dirty and surfaces a global error.
func (o Ops) SaveFile(files []models.File, fileID string) tea.Cmd {
	return func() tea.Msg {
		var file *models.File
		for i := range files {
			if files[i].ID == fileID {
				file = &files[i]
				break
			}
		}
		if file == nil {
			return ErrMsg{Err: fmt.Errorf("save file: file %s not open", fileID)}
		}

		if err := o.svc.UpdateFileContent(context.Background(), fileID, file.Content); err != nil {
			return ErrMsg{Err: fmt.Errorf("save file: %w", err)}
		}
		return FileSavedMsg{FileID: fileID}
	}
}
