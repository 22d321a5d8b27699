package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/adapters/tui/styles"
	"kbstudio/internal/application/commands"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	deps Deps
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(deps Deps) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		deps:              deps,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.Target == nil {
		return errMsg{fmt.Errorf("no workflow selected")}
	}

	result, err := commands.NewDeleteWorkflowCommand(m.deps.Store, m.Target.WorkflowID).Execute(m.deps.Context())
	if err != nil {
		return errMsg{err}
	}
	return ActionDoneMsg{Message: result.Message}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().Title("Delete Confirmation")
	v.Line(styles.ErrorMsg.Render("This action cannot be undone!")).BlankLine()
	v.Line(RenderTargetInfo(m.Target, "Delete")).BlankLine()

	if m.Target != nil && len(m.Target.Children) > 0 {
		v.Muted(fmt.Sprintf("  Its %d top-level nodes will be deleted with it.", len(m.Target.Children))).BlankLine()
	}

	return v.Toast(m.Message, m.MessageErr).
		Raw(RenderConfirmPrompt("Are you sure?")).
		String()
}
