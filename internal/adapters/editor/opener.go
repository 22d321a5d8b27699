package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"kbstudio/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath, getenv: os.Getenv}
}

// OpenFile opens a file in the user's preferred editor and waits for it to exit
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}
	return nil
}

// Command returns an exec.Cmd for opening a file in the editor. Editor
// settings may carry arguments, as in EDITOR="code --wait".
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := o.editorArgs()
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// editorArgs returns the editor command line to use
func (o *Opener) editorArgs() []string {
	for _, key := range []string{"KBSTUDIO_EDITOR", "VISUAL", "EDITOR"} {
		if fields := strings.Fields(o.getenv(key)); len(fields) > 0 {
			return fields
		}
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(editor); err == nil {
			return []string{path}
		}
	}
	return nil
}
