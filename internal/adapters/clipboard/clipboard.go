package clipboard

import (
	"fmt"
	"sync"

	"kbstudio/internal/ports"

	"github.com/atotto/clipboard"
)

// System reads and writes the operating system clipboard
type System struct{}

// Ensure System implements Clipboard
var _ ports.Clipboard = (*System)(nil)

// NewSystem creates a system clipboard adapter
func NewSystem() *System {
	return &System{}
}

// Available reports whether a clipboard utility was found
func (s *System) Available() bool {
	return !clipboard.Unsupported
}

// ReadText returns the clipboard contents
func (s *System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("no clipboard utility available")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard contents
func (s *System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Buffer is an in-process clipboard, used when text arrives with a request
// and in tests
type Buffer struct {
	mu   sync.Mutex
	text string
}

// Ensure Buffer implements Clipboard
var _ ports.Clipboard = (*Buffer)(nil)

// NewBuffer creates a buffer holding text
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// ReadText returns the buffered text
func (b *Buffer) ReadText() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, nil
}

// WriteText replaces the buffered text
func (b *Buffer) WriteText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	return nil
}
