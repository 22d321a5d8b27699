package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kbstudio/internal/adapters/tui/styles"
	"kbstudio/internal/application/commands"
	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
)

// Deps are the collaborators shared by the views
type Deps struct {
	Ctx            context.Context // carries the logger
	Store          ports.WorkflowStore
	Clipboard      ports.Clipboard
	Validator      ports.DocumentValidator
	RewriteOptions []domain.RewriteOption
}

// Context returns Ctx, or a background context when unset
func (d Deps) Context() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Copy      key.Binding
	Paste     key.Binding
	Duplicate key.Binding
	Edit      key.Binding
	Rename    key.Binding
	Import    key.Binding
	Delete    key.Binding
	Search    key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "paste"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "duplicate"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Rename: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "rename"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the workflow tree view
type BrowserModel struct {
	ViewState
	deps      Deps
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	cursor    int

	// restored after a reload
	expanded map[string]bool
	focus    *focusTarget
}

type focusTarget struct {
	workflowID string
	id         string
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(deps Deps) *BrowserModel {
	return &BrowserModel{
		deps:     deps,
		expanded: make(map[string]bool),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	summaries, err := commands.NewListWorkflowsCommand(m.deps.Store).Execute(m.deps.Context())
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{domain.NewWorkflowTree(summaries)}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type outlineLoadedMsg struct {
	node    *domain.TreeNode
	outline []*domain.NodeOutline
}

type errMsg struct {
	err error
}

// ActionDoneMsg reports a finished action and reloads the tree
type ActionDoneMsg struct {
	Message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.root = msg.root
		m.refreshFlatNodes()
		var cmds []tea.Cmd
		for _, node := range m.root.Children {
			if m.expanded[node.WorkflowID] {
				node.Expand()
				cmds = append(cmds, m.loadOutline(node))
			}
		}
		m.applyFocus()
		return m, tea.Batch(cmds...)

	case outlineLoadedMsg:
		msg.node.SetOutline(msg.outline)
		m.refreshFlatNodes()
		m.applyFocus()
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case copiedMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case ActionDoneMsg:
		m.SetMessage(msg.Message, false)
		return m, m.Reload()

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.flatNodes)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.SelectedNode(); node != nil {
				if node.IsExpanded {
					m.collapse(node)
				} else if node.Parent != nil && node.Parent.Kind != domain.TreeRoot {
					m.moveTo(node.Parent)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			node := m.SelectedNode()
			if node == nil || !node.HasChildren() {
				return m, nil
			}
			if !node.IsExpanded {
				return m, m.expand(node)
			}
			if key.Matches(msg, BrowserKeys.Enter) {
				m.collapse(node)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.SelectedNode(); node != nil {
				return m, m.copyNode(node)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Paste):
			if node := m.SelectedNode(); node != nil {
				return m, m.paste(node.WorkflowID)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Duplicate):
			if node := m.SelectedNode(); node != nil {
				if top := node.TopLevel(); top != nil {
					return m, m.duplicate(top)
				}
				m.SetMessage("Select a node to duplicate", true)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Edit):
			if node := m.SelectedNode(); node != nil {
				workflowID := node.WorkflowID
				return m, func() tea.Msg { return EditWorkflowMsg{WorkflowID: workflowID} }
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Rename):
			if w := m.selectedWorkflow(); w != nil {
				return m, func() tea.Msg { return SwitchToRenameMsg{Workflow: w} }
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Delete):
			if w := m.selectedWorkflow(); w != nil {
				return m, func() tea.Msg { return SwitchToDeleteMsg{Workflow: w} }
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Import):
			return m, func() tea.Msg { return SwitchToImportMsg{} }

		case key.Matches(msg, BrowserKeys.Search):
			return m, func() tea.Msg { return SwitchToSearchMsg{} }

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	return m, nil
}

func (m *BrowserModel) expand(node *domain.TreeNode) tea.Cmd {
	node.Expand()
	if node.Kind == domain.TreeWorkflow {
		m.expanded[node.WorkflowID] = true
	}
	if !node.Loaded {
		return m.loadOutline(node)
	}
	m.refreshFlatNodes()
	return nil
}

func (m *BrowserModel) collapse(node *domain.TreeNode) {
	node.Collapse()
	if node.Kind == domain.TreeWorkflow {
		delete(m.expanded, node.WorkflowID)
	}
	m.refreshFlatNodes()
}

func (m *BrowserModel) loadOutline(node *domain.TreeNode) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewExportWorkflowCommand(m.deps.Store, node.WorkflowID).Execute(m.deps.Context())
		if err != nil {
			return errMsg{err}
		}
		return outlineLoadedMsg{node: node, outline: domain.Outline(result.Workflow.Document)}
	}
}

func (m *BrowserModel) copyNode(node *domain.TreeNode) tea.Cmd {
	var nodeIDs []string
	if top := node.TopLevel(); top != nil {
		nodeIDs = []string{top.ID}
	}
	return func() tea.Msg {
		result, err := commands.NewCopyNodesCommand(m.deps.Store, m.deps.Clipboard, node.WorkflowID, nodeIDs).Execute(m.deps.Context())
		if err != nil {
			return errMsg{err}
		}
		// nothing changed in the store, so no reload
		return copiedMsg{result.Message}
	}
}

type copiedMsg struct {
	message string
}

func (m *BrowserModel) paste(workflowID string) tea.Cmd {
	return func() tea.Msg {
		cmd := commands.NewPasteWorkflowCommand(m.deps.Store, m.deps.Clipboard, m.deps.Validator, workflowID)
		cmd.RewriteOptions = m.deps.RewriteOptions
		result, err := cmd.Execute(m.deps.Context())
		if err != nil {
			return errMsg{err}
		}
		return ActionDoneMsg{Message: result.Message}
	}
}

func (m *BrowserModel) duplicate(node *domain.TreeNode) tea.Cmd {
	return func() tea.Msg {
		cmd := commands.NewDuplicateNodesCommand(m.deps.Store, node.WorkflowID, []string{node.ID})
		cmd.RewriteOptions = m.deps.RewriteOptions
		result, err := cmd.Execute(m.deps.Context())
		if err != nil {
			return errMsg{err}
		}
		return ActionDoneMsg{Message: result.Message}
	}
}

// SelectedNode returns the row under the cursor
func (m *BrowserModel) SelectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

func (m *BrowserModel) selectedWorkflow() *domain.TreeNode {
	node := m.SelectedNode()
	for node != nil && node.Kind != domain.TreeWorkflow {
		node = node.Parent
	}
	return node
}

func (m *BrowserModel) moveTo(target *domain.TreeNode) {
	for i, n := range m.flatNodes {
		if n == target {
			m.cursor = i
			return
		}
	}
}

// Focus moves the cursor to a node, loading and expanding its workflow
// first when needed
func (m *BrowserModel) Focus(workflowID, nodeID string) tea.Cmd {
	m.focus = &focusTarget{workflowID: workflowID, id: nodeID}
	m.expanded[workflowID] = true
	if m.root == nil {
		return nil
	}
	for _, w := range m.root.Children {
		if w.WorkflowID == workflowID && !w.Loaded {
			w.Expand()
			return m.loadOutline(w)
		}
	}
	m.applyFocus()
	return nil
}

func (m *BrowserModel) applyFocus() {
	if m.focus == nil || m.root == nil {
		return
	}
	target := m.root.Find(m.focus.workflowID, m.focus.id)
	if target == nil {
		return
	}
	target.Reveal()
	m.refreshFlatNodes()
	m.moveTo(target)
	m.focus = nil
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	// Clamp cursor
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		if m.Message != "" {
			return NewViewBuilder().Toast(m.Message, m.MessageErr).String()
		}
		return "Loading..."
	}

	v := NewViewBuilder().
		Title("kbstudio").
		Subtitle("Workflow documents")

	if len(m.flatNodes) == 0 {
		v.Muted("No workflows yet. Press i to import one.")
	}
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.flatNodes[i], i == m.cursor))
	}

	v.BlankLine().
		Toast(m.Message, m.MessageErr).
		Help(BrowserKeys.Up, BrowserKeys.Right, BrowserKeys.Copy, BrowserKeys.Paste,
			BrowserKeys.Duplicate, BrowserKeys.Edit, BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit)

	return v.String()
}

// visibleRange returns the window of flat rows around the cursor that fits
// the terminal height
func (m *BrowserModel) visibleRange() (start, end int) {
	start, end = 0, len(m.flatNodes)
	if limit := m.Height - 10; limit > 0 && end > limit {
		start = max(0, m.cursor-limit/2)
		end = min(len(m.flatNodes), start+limit)
		start = max(0, end-limit)
	}
	return start, end
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth()-1)

	var prefix string
	switch {
	case !node.HasChildren():
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	var text string
	var style lipgloss.Style
	if node.Kind == domain.TreeWorkflow {
		text = node.Name
		style = styles.RowWorkflow
	} else {
		text = fmt.Sprintf("%s [%s]", node.ID, node.Name)
		style = styles.RowNodeID.Foreground(styles.TypeColor(node.Name))
	}

	if selected {
		style = styles.RowSelected
	}
	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), style.Render(text))
}

// Reload reloads the tree from the store, keeping expanded workflows open
func (m *BrowserModel) Reload() tea.Cmd {
	if sel := m.SelectedNode(); sel != nil && m.focus == nil {
		m.focus = &focusTarget{workflowID: sel.WorkflowID, id: sel.ID}
	}
	m.root = nil
	m.flatNodes = nil
	m.cursor = 0
	return m.loadTree
}

// Messages for view switching
type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

type SwitchToImportMsg struct{}

type SwitchToRenameMsg struct {
	Workflow *domain.TreeNode
}

type SwitchToDeleteMsg struct {
	Workflow *domain.TreeNode
}

// EditWorkflowMsg asks the app to open a workflow in the external editor
type EditWorkflowMsg struct {
	WorkflowID string
}
