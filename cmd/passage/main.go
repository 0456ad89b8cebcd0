package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/internal/logging"
	"github.com/passage-hq/passage/internal/tui"
	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/auth"
	"github.com/passage-hq/passage/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// apiBaseURL returns the backend URL, overridable for staging.
func apiBaseURL() string {
	if u := os.Getenv("PASSAGE_API_URL"); u != "" {
		return u
	}
	return "https://api.gopassage.com"
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("passage " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		case "whoami":
			return runWhoami()
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
	}

	sessionPath, err := session.DefaultPath()
	if err != nil {
		return err
	}
	store := session.NewStore(sessionPath)

	sess := store.Load()
	c := api.New(apiBaseURL(), sess.Token)

	// PASSAGE_DEBUG=1 traces every API call to ~/.passage/debug.log. The TUI
	// owns the terminal, so the trace never goes to stderr.
	if os.Getenv("PASSAGE_DEBUG") != "" {
		home, err := os.UserHomeDir()
		if err == nil {
			logger, f, logErr := logging.NewFileLogger(filepath.Join(home, ".passage", "debug.log"), logging.ParseLevel("debug"))
			if logErr == nil {
				defer f.Close() //nolint:errcheck
				c.SetLogger(logger)
			}
		}
	}

	svc := auth.New(c, store)
	app := tui.NewApp(c, svc, store, version)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Any 401 anywhere drops the program back to sign-in.
	c.OnUnauthorized(sessionExpiryHandler(store, p.Send))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// sessionExpiryHandler builds the client's 401 handler: clear the stored
// session so the next launch doesn't retry a dead token, then tell the
// running program to drop to sign-in.
func sessionExpiryHandler(store *session.Store, send func(tea.Msg)) func() {
	return func() {
		store.Clear() //nolint:errcheck // best-effort; an unreadable file loads as logged out anyway
		send(tui.SessionExpiredMsg{})
	}
}

func runLogout() error {
	sessionPath, err := session.DefaultPath()
	if err != nil {
		return err
	}
	store := session.NewStore(sessionPath)
	if !store.IsValid() {
		fmt.Println("not signed in")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("signed out")
	return nil
}

func runWhoami() error {
	sessionPath, err := session.DefaultPath()
	if err != nil {
		return err
	}
	sess := session.NewStore(sessionPath).Load()
	if !sess.Valid() {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> · %s\n", sess.User.FullName(), sess.User.Email, sess.User.Role)
	return nil
}
