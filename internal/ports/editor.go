package ports

import "os/exec"

// EditorOpener opens files in the user's external editor
type EditorOpener interface {
	// OpenFile blocks until the editor exits
	OpenFile(path string) error

	// Command returns the editor process without starting it, for
	// bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
