package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sparktown/sparkdown/internal/ui/state"
	"github.com/sparktown/sparkdown/internal/ui/styles"
)

// commandBarKeyMap holds the palette's own bindings. The filter input
// has focus while the bar is open, so only bare navigation keys may be
// intercepted; letter aliases like j/k would eat typed runes.
type commandBarKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

func commandBarKeys() commandBarKeyMap {
	return commandBarKeyMap{
		Up:     key.NewBinding(key.WithKeys("up")),
		Down:   key.NewBinding(key.WithKeys("down")),
		Select: key.NewBinding(key.WithKeys("enter")),
		Close:  key.NewBinding(key.WithKeys("esc")),
	}
}

// Messages emitted by the command bar toward the app
type (
	// CommandNewFileRequested asks the workspace to open its
	// new-file input
	CommandNewFileRequested struct{}
	// CommandNewFolderRequested asks the workspace to open its
	// new-folder input
	CommandNewFolderRequested struct{}
	// SwitchProjectRequested asks to show the project picker
	SwitchProjectRequested struct{}
)

// command is one palette entry
type command struct {
	title    string
	desc     string
	keywords []string
	msg      tea.Msg
}

// CommandBarView is the ctrl+k palette: a filter input over the
// available commands, derived from the current state on every open.
type CommandBarView struct {
	styles *styles.Styles
	keys   commandBarKeyMap

	input    textinput.Model
	cursor   int
	width    int
	height   int
	commands []command
}

// NewCommandBarView creates the command bar
func NewCommandBarView() *CommandBarView {
	input := textinput.New()
	input.Placeholder = "Type a command or file name..."
	input.CharLimit = 100

	return &CommandBarView{
		styles: styles.NewStyles(),
		keys:   commandBarKeys(),
		input:  input,
	}
}

// SetSize updates the view dimensions
func (v *CommandBarView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Open resets the palette and rebuilds the command list from state
func (v *CommandBarView) Open(st state.AppState) tea.Cmd {
	v.input.Reset()
	v.cursor = 0
	v.commands = buildCommands(st)
	v.input.Focus()
	return textinput.Blink
}

func buildCommands(st state.AppState) []command {
	cmds := []command{
		{
			title:    "New File",
			desc:     "Create a new file",
			keywords: []string{"new", "file", "create"},
			msg:      CommandNewFileRequested{},
		},
		{
			title:    "New Folder",
			desc:     "Create a new folder",
			keywords: []string{"new", "folder", "create", "directory"},
			msg:      CommandNewFolderRequested{},
		},
		{
			title:    "Switch Project",
			desc:     "Pick another project",
			keywords: []string{"switch", "project", "open"},
			msg:      SwitchProjectRequested{},
		},
	}

	if st.ActiveTab != nil {
		cmds = append(cmds, command{
			title:    "Save File",
			desc:     "Save the current file",
			keywords: []string{"save", "file", "write"},
			msg:      SaveRequested{FileID: st.ActiveTab.FileID},
		})
	}

	for _, f := range st.Files {
		cmds = append(cmds, command{
			title:    "Open " + f.Name,
			desc:     f.Path,
			keywords: []string{"open", "file", strings.ToLower(f.Name)},
			msg:      FileOpenRequested{FileID: f.ID},
		})
	}

	return cmds
}

// filtered returns the commands matching the current query
func (v *CommandBarView) filtered() []command {
	query := strings.ToLower(strings.TrimSpace(v.input.Value()))
	if query == "" {
		return v.commands
	}

	var out []command
	for _, c := range v.commands {
		if strings.Contains(strings.ToLower(c.title), query) {
			out = append(out, c)
			continue
		}
		for _, k := range c.keywords {
			if strings.Contains(k, query) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Update handles messages while the bar is open
func (v *CommandBarView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(keyMsg, v.keys.Close):
		return func() tea.Msg { return state.SetCommandBarMsg{Open: false} }

	case key.Matches(keyMsg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return nil

	case key.Matches(keyMsg, v.keys.Down):
		if v.cursor < len(v.filtered())-1 {
			v.cursor++
		}
		return nil

	case key.Matches(keyMsg, v.keys.Select):
		matches := v.filtered()
		if v.cursor >= len(matches) {
			return nil
		}
		chosen := matches[v.cursor].msg
		return func() tea.Msg { return chosen }
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.cursor >= len(v.filtered()) {
		v.cursor = 0
	}
	return cmd
}

// View renders the palette overlay
func (v *CommandBarView) View() string {
	s := v.styles

	barWidth := clamp(v.width-10, 30, 70)

	var b strings.Builder
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	matches := v.filtered()
	if len(matches) == 0 {
		b.WriteString(s.TitleMuted.Render("No matching commands"))
	}

	const maxVisible = 8
	start := 0
	if v.cursor >= maxVisible {
		start = v.cursor - maxVisible + 1
	}
	for i := start; i < len(matches) && i < start+maxVisible; i++ {
		c := matches[i]
		line := c.title
		if c.desc != "" {
			line += "  " + s.TitleMuted.Render(c.desc)
		}
		if i == v.cursor {
			b.WriteString(s.ListSelected.Width(barWidth - 4).Render(line))
		} else {
			b.WriteString(s.ListItem.Width(barWidth - 4).Render(line))
		}
		b.WriteString("\n")
	}

	box := s.FilterBar.Width(barWidth).Render(b.String())
	return lipgloss.Place(v.width, v.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}
