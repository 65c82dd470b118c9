package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"mdjournal/internal/cli"
	"mdjournal/internal/config"
	"mdjournal/internal/journal"
	"mdjournal/internal/logs"
	"mdjournal/internal/tui"
)

func main() {
	// Parse CLI flags
	fileFlag := flag.String("file", "", "Journal file (default ~/daily_log.md)")
	flag.StringVar(fileFlag, "f", "", "Journal file (shorthand)")
	confirmFlag := flag.Bool("confirm-create", false, "Ask before creating a missing journal")
	noPreviewFlag := flag.Bool("no-preview", false, "Disable the markdown preview")
	noBracketsFlag := flag.Bool("no-brackets", false, "Do not auto-close [")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(config.CLIFlags{
		LogFile:       *fileFlag,
		ConfirmCreate: *confirmFlag,
		NoPreview:     *noPreviewFlag,
		NoBrackets:    *noBracketsFlag,
	})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	if configDir, err := config.GetConfigDir(); err == nil {
		if err := logs.Initialize(configDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
		}
	}
	defer logs.Close()

	store := journal.NewFileStore(cfg.LogFile)

	// Check for CLI subcommands
	if args := flag.Args(); len(args) > 0 {
		exitCode := cli.Run(args, cli.Env{
			Store:   store,
			Options: cfg.JournalOptions(),
			Out:     os.Stdout,
			Err:     os.Stderr,
		})
		logs.Close()
		os.Exit(exitCode)
	}

	// TUI mode
	logs.Logger.Printf("Starting editor on %s", cfg.LogFile)
	ctrl := journal.NewController(store, cfg.JournalOptions())
	appModel, err := tui.NewAppModel(ctrl, tui.Settings{PreviewStyle: cfg.PreviewStyle})
	if err != nil {
		logs.Logger.Printf("Mount failed: %v", err)
		fmt.Fprintln(os.Stderr, "Error opening journal:", err)
		logs.Close()
		os.Exit(1)
	}

	p := tea.NewProgram(appModel, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Println("Error running program:", err)
		logs.Close()
		os.Exit(1)
	}
	if m, ok := final.(tui.AppModel); ok && m.Err() != nil {
		fmt.Fprintln(os.Stderr, "Error saving journal:", m.Err())
		logs.Close()
		os.Exit(1)
	}
}
