package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/adapters/tui/views"
	"kbstudio/internal/application/commands"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewSearch
	ViewHelp
	ViewDelete
	ViewRename
	ViewImport
)

// App is the main TUI application model
type App struct {
	deps   views.Deps
	editor ports.EditorOpener

	state   ViewState
	browser *views.BrowserModel
	search  *views.SearchModel
	help    *views.HelpModel
	confirm *views.DeleteModel
	rename  *views.RenameModel
	imports *views.FormModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps views.Deps, ed ports.EditorOpener) *App {
	return &App{
		deps:    deps,
		editor:  ed,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(deps),
		search:  views.NewSearchModel(deps),
		help:    views.NewHelpModel(),
		confirm: views.NewDeleteModel(deps),
		rename:  views.NewRenameModel(deps),
		imports: views.NewImportModel(deps),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.rename.SetSize(msg.Width, msg.Height)
		a.imports.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.confirm.SetTarget(msg.Workflow)
		return a, nil

	case views.SwitchToRenameMsg:
		a.state = ViewRename
		a.rename.SetTarget(msg.Workflow)
		return a, a.rename.Init()

	case views.SwitchToImportMsg:
		a.state = ViewImport
		a.imports.Reset()
		return a, a.imports.Init()

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		return a, a.browser.Focus(msg.Match.WorkflowID, msg.Match.NodeID)

	// Results of store actions land in the browser, whatever view ran them
	case views.ActionDoneMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.EditWorkflowMsg:
		return a, a.openEditor(msg.WorkflowID)

	case editorFinishedMsg:
		return a, a.finishEdit(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	case ViewDelete:
		_, cmd = a.confirm.Update(msg)
	case ViewRename:
		_, cmd = a.rename.Update(msg)
	case ViewImport:
		_, cmd = a.imports.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	edit *commands.EditWorkflowCommand
	path string
	err  error
}

// openEditor writes the workflow to a temp file and suspends the TUI while
// the editor runs
func (a *App) openEditor(workflowID string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	edit := commands.NewEditWorkflowCommand(a.deps.Store, a.editor, a.deps.Validator, workflowID)
	path, err := edit.Prepare()
	if err != nil {
		a.browser.SetError(err)
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		os.Remove(path)
		a.browser.SetError(err)
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{edit: edit, path: path, err: err}
	})
}

func (a *App) finishEdit(msg editorFinishedMsg) tea.Cmd {
	a.state = ViewBrowser
	if msg.err != nil {
		os.Remove(msg.path)
		a.browser.SetError(msg.err)
		return nil
	}

	ctx := a.deps.Context()
	result, err := msg.edit.Apply(ctx, msg.path)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("edited workflow rejected")
		a.browser.SetError(err)
		return nil
	}
	if !result.Changed {
		a.browser.SetMessage(result.Message, false)
		return nil
	}
	_, cmd := a.browser.Update(views.ActionDoneMsg{Message: result.Message})
	return cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	case ViewDelete:
		return a.confirm.View()
	case ViewRename:
		return a.rename.View()
	case ViewImport:
		return a.imports.View()
	default:
		return a.browser.View()
	}
}
