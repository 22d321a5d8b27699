package views

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/application/commands"
	"kbstudio/internal/config"
	"kbstudio/internal/domain"
)

// FormModel is a titled input form whose submit runs a store command
type FormModel struct {
	ViewState
	title      string
	submitText string
	form       *InputForm
	submit     func(f *InputForm) tea.Cmd // reads the fields, runs later
}

// Init initializes the form view
func (m *FormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the form view
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit(m.form)
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// View renders the form view
func (m *FormModel) View() string {
	return NewViewBuilder().
		Title(m.title).
		Raw(m.form.Render()).
		Toast(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp(m.submitText)).
		String()
}

// NewRenameModel creates the form that renames a workflow
func NewRenameModel(deps Deps) *RenameModel {
	m := &RenameModel{}
	m.FormModel = FormModel{
		title:      "Rename Workflow",
		submitText: "rename",
		form:       NewInputForm(NewInputField("Name", "Workflow name", 200)),
		submit: func(f *InputForm) tea.Cmd {
			target, name := m.target, f.Value(0)
			return func() tea.Msg {
				if target == nil {
					return errMsg{fmt.Errorf("no workflow selected")}
				}
				result, err := commands.NewRenameWorkflowCommand(deps.Store, target.WorkflowID, name).Execute(deps.Context())
				if err != nil {
					return errMsg{err}
				}
				return ActionDoneMsg{Message: result.Message}
			}
		},
	}
	return m
}

// RenameModel renames the workflow it was opened on
type RenameModel struct {
	FormModel
	target *domain.TreeNode
}

// SetTarget prefills the form with the workflow's current name
func (m *RenameModel) SetTarget(node *domain.TreeNode) {
	m.target = node
	m.ClearMessage()
	m.form.Reset()
	m.form.SetValue(0, node.Name)
}

// NewImportModel creates the form that imports a workflow file
func NewImportModel(deps Deps) *FormModel {
	return &FormModel{
		title:      "Import Workflow",
		submitText: "import",
		form: NewInputForm(
			NewInputField("Name", "Workflow name", 200),
			NewInputField("File", "path/to/workflow.json", 0),
		),
		submit: func(f *InputForm) tea.Cmd {
			name, path := f.Value(0), f.Value(1)
			return func() tea.Msg {
				if path == "" {
					return errMsg{fmt.Errorf("file is required")}
				}
				raw, err := os.ReadFile(config.ExpandHome(path))
				if err != nil {
					return errMsg{err}
				}
				result, err := commands.NewImportWorkflowCommand(deps.Store, deps.Validator, name, raw).Execute(deps.Context())
				if err != nil {
					return errMsg{err}
				}
				return ActionDoneMsg{Message: result.Message}
			}
		},
	}
}

// Reset clears the form
func (m *FormModel) Reset() {
	m.ClearMessage()
	m.form.Reset()
}
