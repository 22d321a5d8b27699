package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder().
		Title("kbstudio Help").
		Subtitle("Workflow documents")

	v.Line(styles.InputLabel.Render("Navigation"))
	v.Raw(helpLine("j / k / ↑ / ↓", "Move up/down"))
	v.Raw(helpLine("h / ←", "Collapse / go to parent"))
	v.Raw(helpLine("l / → / Enter", "Expand / toggle"))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Nodes"))
	v.Raw(helpLine("c", "Copy the selected node (or whole workflow)"))
	v.Raw(helpLine("v", "Paste the clipboard into the selected workflow"))
	v.Raw(helpLine("d", "Duplicate the selected node"))
	v.Raw(helpLine("/", "Search nodes"))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Workflows"))
	v.Raw(helpLine("i", "Import a workflow file"))
	v.Raw(helpLine("e", "Edit in $EDITOR"))
	v.Raw(helpLine("n", "Rename"))
	v.Raw(helpLine("x", "Delete"))
	v.Raw(helpLine("r", "Reload"))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("General"))
	v.Raw(helpLine("?", "Toggle help"))
	v.Raw(helpLine("q / Ctrl+C", "Quit"))
	v.BlankLine()

	v.Muted("  Pasted and duplicated nodes get fresh 6-digit IDs when theirs are")
	v.Muted("  already used in the target workflow. Edges and block-output")
	v.Muted("  references are rewritten to match.")
	v.BlankLine()

	v.Raw(styles.HelpDesc.Render("Press "))
	v.Raw(styles.HelpKey.Render("esc"))
	v.Raw(styles.HelpDesc.Render(" or "))
	v.Raw(styles.HelpKey.Render("?"))
	v.Raw(styles.HelpDesc.Render(" to close"))

	return v.String()
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
