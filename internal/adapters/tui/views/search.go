package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/adapters/tui/styles"
	"kbstudio/internal/application/commands"
)

const maxSearchResults = 10

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	CopyID key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to node"),
	),
	CopyID: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy ID"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// SearchModel is the model for the node search view
type SearchModel struct {
	ViewState
	deps    Deps
	input   textinput.Model
	query   string // last query sent to the store
	results []commands.NodeMatch
	cursor  int
}

// NewSearchModel creates a new search view model
func NewSearchModel(deps Deps) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search node IDs and types..."
	input.Focus()

	return &SearchModel{
		deps:  deps,
		input: input,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset resets the search view
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.query = ""
	m.results = nil
	m.cursor = 0
	m.ClearMessage()
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultsMsg:
		// drop answers to queries the user has typed past
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.results = msg.results
		m.cursor = 0
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < min(len(m.results), maxSearchResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if match, ok := m.selected(); ok {
				return m, func() tea.Msg {
					return SearchSelectMsg{Match: match}
				}
			}
			return m, nil

		case key.Matches(msg, SearchKeys.CopyID):
			if match, ok := m.selected(); ok {
				if err := m.deps.Clipboard.WriteText(match.NodeID); err != nil {
					m.SetError(err)
				} else {
					m.SetMessage(fmt.Sprintf("Copied %s", match.NodeID), false)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	switch {
	case query == m.query:
	case len(query) >= 2:
		m.query = query
		return m, tea.Batch(cmd, m.search(query))
	default:
		m.query = query
		m.results = nil
	}
	return m, cmd
}

func (m *SearchModel) selected() (commands.NodeMatch, bool) {
	if m.cursor >= 0 && m.cursor < len(m.results) {
		return m.results[m.cursor], true
	}
	return commands.NodeMatch{}, false
}

func (m *SearchModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := commands.NewSearchNodesCommand(m.deps.Store, query).Execute(m.deps.Context())
		if err != nil {
			return errMsg{err}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

type searchResultsMsg struct {
	query   string
	results []commands.NodeMatch
}

// SearchSelectMsg is sent when a search result is selected
type SearchSelectMsg struct {
	Match commands.NodeMatch
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().Title("Search")
	v.Line(styles.InputFocused.Render(m.input.View())).BlankLine()

	switch {
	case len(m.results) > 0:
		v.Subtitle(fmt.Sprintf("%d results", len(m.results)))
		for i, match := range m.results[:min(len(m.results), maxSearchResults)] {
			v.Line(m.renderResult(match, i == m.cursor))
		}
		if len(m.results) > maxSearchResults {
			v.Muted(fmt.Sprintf("... and %d more", len(m.results)-maxSearchResults))
		}
	case len(m.input.Value()) >= 2:
		v.Muted("No results found")
	default:
		v.Muted("Type at least 2 characters to search")
	}

	return v.BlankLine().
		Toast(m.Message, m.MessageErr).
		Help(SearchKeys.Up, SearchKeys.Select, SearchKeys.CopyID, SearchKeys.Cancel).
		String()
}

func (m *SearchModel) renderResult(match commands.NodeMatch, selected bool) string {
	text := fmt.Sprintf("[%s] %s  %s", match.NodeType, match.NodeID, match.WorkflowName)
	if selected {
		return styles.RowSelected.Render(text)
	}
	return styles.MutedText.Render(fmt.Sprintf("[%s] ", match.NodeType)) +
		fmt.Sprintf("%s  %s", match.NodeID, match.WorkflowName)
}
