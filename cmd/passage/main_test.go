package main

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/internal/tui"
	"github.com/passage-hq/passage/pkg/domain"
	"github.com/passage-hq/passage/pkg/session"
)

func TestAPIBaseURLDefault(t *testing.T) {
	t.Setenv("PASSAGE_API_URL", "")
	if got := apiBaseURL(); got != "https://api.gopassage.com" {
		t.Errorf("apiBaseURL() = %q, want production default", got)
	}
}

func TestAPIBaseURLOverride(t *testing.T) {
	t.Setenv("PASSAGE_API_URL", "http://localhost:8000")
	if got := apiBaseURL(); got != "http://localhost:8000" {
		t.Errorf("apiBaseURL() = %q, want override", got)
	}
}

func TestSessionExpiryHandlerClearsAndNotifies(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save("tok", &domain.User{FirstName: "Chioma", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	var sent []tea.Msg
	handler := sessionExpiryHandler(store, func(msg tea.Msg) { sent = append(sent, msg) })
	handler()

	if store.IsValid() {
		t.Error("handler must clear the stored session")
	}
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if _, ok := sent[0].(tui.SessionExpiredMsg); !ok {
		t.Errorf("sent %T, want tui.SessionExpiredMsg", sent[0])
	}

	// A second 401 against an already-cleared session stays harmless.
	handler()
	if len(sent) != 2 {
		t.Errorf("second invocation should still notify, got %d messages", len(sent))
	}
}
