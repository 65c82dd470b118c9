package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"mdjournal/internal/journal"
)

// Env is what a subcommand needs to run
type Env struct {
	Store   journal.Store
	Options journal.Options
	Now     func() time.Time
	Out     io.Writer
	Err     io.Writer
}

// Run executes the CLI with the given arguments and returns the exit code.
// The first argument is the command name.
func Run(args []string, env Env) int {
	if env.Now == nil {
		env.Now = time.Now
	}

	if len(args) == 0 {
		printUsage(env.Out)
		return 1
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "path":
		fmt.Fprintln(env.Out, env.Store.Path())
		return 0
	case "headings", "ls":
		return runHeadings(env)
	case "today", "t":
		return runToday(env)
	case "add", "a":
		return runAdd(cmdArgs, env)
	case "help", "-h", "--help":
		printUsage(env.Out)
		return 0
	default:
		fmt.Fprintf(env.Err, "Unknown command: %s\n", command)
		printUsage(env.Err)
		return 1
	}
}

// loadText reads the journal. When ok is false the caller should return code.
func loadText(env Env) (text string, code int, ok bool) {
	text, exists, err := env.Store.Load()
	if err != nil {
		fmt.Fprintf(env.Err, "Error reading journal: %v\n", err)
		return "", 1, false
	}
	if !exists {
		fmt.Fprintf(env.Out, "No journal at %s yet.\n", env.Store.Path())
		return "", 0, false
	}
	return text, 0, true
}

func runHeadings(env Env) int {
	text, code, ok := loadText(env)
	if !ok {
		return code
	}

	headings := journal.FindHeadings(text)
	if len(headings) == 0 {
		fmt.Fprintln(env.Out, "No date headings found.")
		return 0
	}

	for _, h := range headings {
		fmt.Fprintf(env.Out, "%s  %-9s  line %d\n", h.Label, h.Date.Format("Monday"), h.Line+1)
	}
	fmt.Fprintf(env.Out, "\n%d day(s)\n", len(headings))
	return 0
}

func runToday(env Env) int {
	text, code, ok := loadText(env)
	if !ok {
		return code
	}

	today := journal.DateLabel(env.Now())
	section, found := journal.Section(text, today)
	if !found {
		fmt.Fprintf(env.Out, "Nothing logged for %s yet.\n", today)
		return 0
	}
	fmt.Fprintln(env.Out, section)
	return 0
}

func runAdd(args []string, env Env) int {
	if len(args) == 0 {
		fmt.Fprintln(env.Err, "Error: entry text required")
		fmt.Fprintln(env.Err, "Usage: mdjournal add \"what happened\"")
		return 1
	}

	entry := strings.Join(args, " ")
	if !strings.HasPrefix(strings.TrimSpace(entry), "-") {
		entry = "- " + entry
	}

	// The prompt needs a terminal; from the command line, adding implies creating.
	opts := env.Options
	opts.ConfirmCreate = false

	ctrl := journal.NewController(env.Store, opts)
	ctrl.SetClock(env.Now)
	if err := ctrl.Initialize(); err != nil {
		fmt.Fprintf(env.Err, "Error reading journal: %v\n", err)
		return 1
	}
	if err := ctrl.InsertText(entry + "\n"); err != nil {
		fmt.Fprintf(env.Err, "Error adding entry: %v\n", err)
		return 1
	}
	if err := ctrl.Quit(); err != nil {
		fmt.Fprintf(env.Err, "Error saving journal: %v\n", err)
		return 1
	}

	fmt.Fprintf(env.Out, "Added under %s: %s\n", ctrl.Today(), entry)
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `mdjournal - Daily markdown journal

Usage: mdjournal [flags] [command] [arguments]

Commands:
  path          Print the journal file path
  headings, ls  List the date headings in the journal
  today, t      Print today's section
  add, a        Append an entry under today's heading
                mdjournal add "fixed the flaky test"
  help          Show this help message

Flags:
  -f, --file <path>   Journal file (default ~/daily_log.md)
      --confirm-create  Ask before creating a missing journal
      --no-preview      Disable the markdown preview (ctrl+n)
      --no-brackets     Do not auto-close [

Running mdjournal without a command opens the editor.`)
}
