package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sparktown/sparkdown/internal/models"
	"github.com/sparktown/sparkdown/internal/ui/keys"
	"github.com/sparktown/sparkdown/internal/ui/state"
	"github.com/sparktown/sparkdown/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

const sidebarWidth = 30

// Messages emitted by the workspace toward the app
type (
	// FileOpenRequested asks to open a file in a tab
	FileOpenRequested struct{ FileID string }
	// TabSelectRequested asks to activate an open tab
	TabSelectRequested struct{ TabID string }
	// TabCloseRequested asks to close a tab
	TabCloseRequested struct{ TabID string }
	// EditorChanged carries the editor's full text after a keystroke
	EditorChanged struct {
		FileID  string
		Content string
	}
	// SaveRequested asks to persist a file's in-memory content
	SaveRequested struct{ FileID string }
	// FileCreateSubmitted carries a filled-in file creation form
	FileCreateSubmitted struct {
		Name     string
		FolderID *string
	}
	// FolderCreateSubmitted carries a filled-in folder creation form
	FolderCreateSubmitted struct {
		Name     string
		ParentID *string
	}
)

// FocusArea represents which pane has focus
type FocusArea int

const (
	FocusSidebar FocusArea = iota
	FocusEditor
)

// treeRow is one visible line of the derived folder/file tree
type treeRow struct {
	folder *models.Folder
	file   *models.File
	depth  int
}

// WorkspaceView is the main editing surface: file tree, tab strip and
// editor pane. It renders from the shared application state and emits
// request messages instead of touching the data layer.
type WorkspaceView struct {
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	focus    FocusArea
	cursor   int
	expanded map[string]bool

	editor       textarea.Model
	loadedFileID string

	// Creation form state ("" when closed, otherwise "file"/"folder")
	creating  string
	nameInput textinput.Model
}

// NewWorkspaceView creates the workspace
func NewWorkspaceView() *WorkspaceView {
	editor := textarea.New()
	editor.Placeholder = "Start typing..."
	editor.CharLimit = 0
	editor.ShowLineNumbers = true

	nameInput := textinput.New()
	nameInput.CharLimit = 100

	return &WorkspaceView{
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		focus:     FocusSidebar,
		expanded:  map[string]bool{},
		editor:    editor,
		nameInput: nameInput,
	}
}

// SetSize updates the view dimensions
func (v *WorkspaceView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.editor.SetWidth(max(width-sidebarWidth-4, 20))
	v.editor.SetHeight(max(height-5, 3))
}

// BeginCreateFile opens the new-file input (also reachable from the
// command bar)
func (v *WorkspaceView) BeginCreateFile() tea.Cmd {
	return v.beginCreate("file")
}

// BeginCreateFolder opens the new-folder input
func (v *WorkspaceView) BeginCreateFolder() tea.Cmd {
	return v.beginCreate("folder")
}

func (v *WorkspaceView) beginCreate(kind string) tea.Cmd {
	v.creating = kind
	v.nameInput.Reset()
	if kind == "file" {
		v.nameInput.Placeholder = "File name"
	} else {
		v.nameInput.Placeholder = "Folder name"
	}
	v.nameInput.Focus()
	return textinput.Blink
}

// tree derives the visible rows from the flat folder/file tables by
// filtering on parent/folder id, honoring the expanded set.
func (v *WorkspaceView) tree(st state.AppState) []treeRow {
	var rows []treeRow

	var walk func(parentID *string, depth int)
	walk = func(parentID *string, depth int) {
		for i := range st.Folders {
			f := &st.Folders[i]
			if !sameParent(f.ParentID, parentID) {
				continue
			}
			rows = append(rows, treeRow{folder: f, depth: depth})
			if v.expanded[f.ID] {
				id := f.ID
				walk(&id, depth+1)
			}
		}
		for i := range st.Files {
			f := &st.Files[i]
			if !sameParent(f.FolderID, parentID) {
				continue
			}
			rows = append(rows, treeRow{file: f, depth: depth})
		}
	}
	walk(nil, 0)

	return rows
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// syncEditor loads the active file's content into the editor whenever
// the active tab switches to a different file. In-flight edits to the
// same file are left alone.
func (v *WorkspaceView) syncEditor(st state.AppState) {
	if st.ActiveTab == nil {
		v.loadedFileID = ""
		v.editor.Reset()
		return
	}
	if st.ActiveTab.FileID == v.loadedFileID {
		return
	}
	for _, f := range st.Files {
		if f.ID == st.ActiveTab.FileID {
			v.editor.SetValue(f.Content)
			v.loadedFileID = f.ID
			return
		}
	}
}

// Update handles messages against the current application state
func (v *WorkspaceView) Update(st state.AppState, msg tea.Msg) tea.Cmd {
	v.syncEditor(st)

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.focus == FocusEditor {
			return v.updateEditor(st, msg)
		}
		return nil
	}

	if v.creating != "" {
		return v.updateCreating(st, keyMsg)
	}

	switch {
	case key.Matches(keyMsg, v.keys.CloseTab):
		if st.ActiveTab != nil {
			tabID := st.ActiveTab.ID
			return func() tea.Msg { return TabCloseRequested{TabID: tabID} }
		}
		return nil
	case key.Matches(keyMsg, v.keys.NextTab):
		return v.selectNextTab(st)
	}

	if v.focus == FocusEditor {
		if key.Matches(keyMsg, v.keys.Back) {
			v.focus = FocusSidebar
			v.editor.Blur()
			return nil
		}
		return v.updateEditor(st, msg)
	}

	return v.updateSidebar(st, keyMsg)
}

func (v *WorkspaceView) updateSidebar(st state.AppState, msg tea.KeyMsg) tea.Cmd {
	rows := v.tree(st)
	if v.cursor >= len(rows) {
		v.cursor = max(0, len(rows)-1)
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(rows)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Enter):
		if v.cursor < len(rows) {
			row := rows[v.cursor]
			if row.folder != nil {
				v.expanded[row.folder.ID] = !v.expanded[row.folder.ID]
				return nil
			}
			fileID := row.file.ID
			v.focus = FocusEditor
			v.editor.Focus()
			return func() tea.Msg { return FileOpenRequested{FileID: fileID} }
		}
	case key.Matches(msg, v.keys.Tab):
		if st.ActiveTab != nil {
			v.focus = FocusEditor
			return v.editor.Focus()
		}
	case key.Matches(msg, v.keys.New):
		return v.BeginCreateFile()
	case key.Matches(msg, v.keys.NewFolder):
		return v.BeginCreateFolder()
	}

	return nil
}

func (v *WorkspaceView) updateEditor(st state.AppState, msg tea.Msg) tea.Cmd {
	if v.loadedFileID == "" {
		return nil
	}

	before := v.editor.Value()
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	after := v.editor.Value()

	if before == after {
		return cmd
	}

	fileID := v.loadedFileID
	changed := func() tea.Msg {
		return EditorChanged{FileID: fileID, Content: after}
	}
	return tea.Batch(cmd, changed)
}

func (v *WorkspaceView) updateCreating(st state.AppState, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = ""
		return nil

	case key.Matches(msg, v.keys.Enter):
		name := strings.TrimSpace(v.nameInput.Value())
		if name == "" {
			return nil
		}
		kind := v.creating
		v.creating = ""
		parent := v.selectedFolderID(st)
		if kind == "file" {
			return func() tea.Msg { return FileCreateSubmitted{Name: name, FolderID: parent} }
		}
		return func() tea.Msg { return FolderCreateSubmitted{Name: name, ParentID: parent} }
	}

	var cmd tea.Cmd
	v.nameInput, cmd = v.nameInput.Update(msg)
	return cmd
}

// selectedFolderID returns the folder the cursor rests on, so new
// files and folders land where the user is looking. Root otherwise.
func (v *WorkspaceView) selectedFolderID(st state.AppState) *string {
	rows := v.tree(st)
	if v.cursor < len(rows) && rows[v.cursor].folder != nil {
		id := rows[v.cursor].folder.ID
		return &id
	}
	return nil
}

func (v *WorkspaceView) selectNextTab(st state.AppState) tea.Cmd {
	if len(st.Tabs) == 0 || st.ActiveTab == nil {
		return nil
	}
	for i, t := range st.Tabs {
		if t.ID == st.ActiveTab.ID {
			next := st.Tabs[(i+1)%len(st.Tabs)]
			return func() tea.Msg { return TabSelectRequested{TabID: next.ID} }
		}
	}
	return nil
}

// View renders the workspace from the shared state
func (v *WorkspaceView) View(st state.AppState) string {
	v.syncEditor(st)

	if v.creating != "" {
		return v.renderCreateForm()
	}

	sidebar := v.renderSidebar(st)
	editorPane := v.renderEditorPane(st)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, editorPane)

	parts := []string{v.renderTabStrip(st), body, v.renderStatusBar(st)}
	if st.Err != "" {
		parts = append([]string{v.styles.ErrorBanner.Width(v.width).Render(st.Err)}, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *WorkspaceView) renderSidebar(st state.AppState) string {
	s := v.styles
	rows := v.tree(st)

	var b strings.Builder
	if st.ActiveProject != nil {
		b.WriteString(s.Title.Render(st.ActiveProject.Name))
		b.WriteString("\n\n")
	}

	if len(rows) == 0 {
		b.WriteString(s.TitleMuted.Render("No files yet"))
		b.WriteString("\n")
		b.WriteString(s.TitleMuted.Render("n: new file"))
	}

	for i, row := range rows {
		indent := strings.Repeat("  ", row.depth)
		var line string
		switch {
		case row.folder != nil:
			marker := "▸"
			if v.expanded[row.folder.ID] {
				marker = "▾"
			}
			line = indent + marker + " " + row.folder.Name
			if i == v.cursor && v.focus == FocusSidebar {
				line = s.TreeSelected.Render(line)
			} else {
				line = s.TreeFolder.Render(line)
			}
		default:
			name := row.file.Name
			if st.IsDirty(row.file.ID) {
				name += " •"
			}
			line = indent + "  " + name
			if i == v.cursor && v.focus == FocusSidebar {
				line = s.TreeSelected.Render(line)
			} else {
				line = s.TreeItem.Render(line)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return s.Sidebar.Width(sidebarWidth).Height(max(v.height-4, 3)).Render(b.String())
}

func (v *WorkspaceView) renderTabStrip(st state.AppState) string {
	s := v.styles

	if len(st.Tabs) == 0 {
		return s.TitleMuted.Padding(0, 1).Render("no open tabs")
	}

	var tabs []string
	for _, t := range st.Tabs {
		name := "?"
		for _, f := range st.Files {
			if f.ID == t.FileID {
				name = f.Name
				break
			}
		}
		if st.IsDirty(t.FileID) {
			name = s.TabDirty.Render("•") + " " + name
		}
		if st.ActiveTab != nil && t.ID == st.ActiveTab.ID {
			tabs = append(tabs, s.TabActive.Render(name))
		} else {
			tabs = append(tabs, s.TabInactive.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *WorkspaceView) renderEditorPane(st state.AppState) string {
	s := v.styles

	if st.ActiveTab == nil {
		empty := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("No file open"),
			"",
			s.TitleMuted.Render("Open a file from the explorer to start editing"),
		)
		return lipgloss.Place(max(v.width-sidebarWidth-2, 20), max(v.height-4, 3),
			lipgloss.Center, lipgloss.Center, empty)
	}

	return s.EditorPane.Render(v.editor.View())
}

func (v *WorkspaceView) renderStatusBar(st state.AppState) string {
	s := v.styles

	left := ""
	if st.ActiveTab != nil {
		for _, f := range st.Files {
			if f.ID == st.ActiveTab.FileID {
				left = f.Path
				if st.IsDirty(f.ID) {
					left += " (unsaved)"
				}
				break
			}
		}
	}

	right := fmt.Sprintf("%s save • %s commands • %s close tab",
		s.HelpKey.Render("ctrl+s"),
		s.HelpKey.Render("ctrl+k"),
		s.HelpKey.Render("ctrl+w"),
	)

	gap := max(v.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return s.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (v *WorkspaceView) renderCreateForm() string {
	s := v.styles

	title := "New File"
	if v.creating == "folder" {
		title = "New Folder"
	}

	inputWidth := clamp(v.width-10, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		s.InputFocused.Width(inputWidth).Render(v.nameInput.View()),
		"",
		s.TitleMuted.Render("Enter: create • Esc: cancel"),
	)

	return lipgloss.Place(v.width, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
}
