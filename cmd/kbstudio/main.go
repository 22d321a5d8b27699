package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/adapters/clipboard"
	"kbstudio/internal/adapters/editor"
	"kbstudio/internal/adapters/schema"
	"kbstudio/internal/adapters/sqlite"
	"kbstudio/internal/adapters/tui"
	"kbstudio/internal/adapters/tui/views"
	"kbstudio/internal/config"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	storeFlag := flag.String("store", cfg.StorePath, "path to the workflow database")
	logFile := flag.String("log-file", "", "write logs to this file (the screen belongs to the TUI)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(config.ExpandHome(*logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, logOut)
	if err != nil {
		return err
	}

	store := sqlite.NewStore()
	if err := store.Open(*storeFlag); err != nil {
		return err
	}
	defer store.Close()

	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}

	// Fall back to an in-process clipboard when the system one is missing
	system := clipboard.NewSystem()
	var clip ports.Clipboard = system
	if !system.Available() {
		logger.Warn().Msg("system clipboard unavailable, copies stay inside kbstudio")
		clip = clipboard.NewBuffer("")
	}

	app := tui.NewApp(views.Deps{
		Ctx:            logging.WithLogger(context.Background(), logger),
		Store:          store,
		Clipboard:      clip,
		Validator:      validator,
		RewriteOptions: cfg.RewriteOptions(),
	}, editor.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
