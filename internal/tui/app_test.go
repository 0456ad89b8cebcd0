package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/auth"
	"github.com/passage-hq/passage/pkg/domain"
	"github.com/passage-hq/passage/pkg/session"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T) App {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	client := api.New("http://127.0.0.1:1", "")
	svc := auth.New(client, store)
	a := NewApp(client, svc, store, "test")
	a.width = 80
	a.height = 30
	return a
}

func activate(t *testing.T, a App, user *domain.User) App {
	t.Helper()
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{Token: "tok", User: user}})
	return model.(App)
}

var studentUser = &domain.User{FirstName: "Chioma", LastName: "Obi", Email: "chioma@example.com", Role: domain.RoleStudent}
var adminUser = &domain.User{FirstName: "Ngozi", LastName: "Eze", Email: "admin@example.com", Role: domain.RoleAdmin}

func TestAppStartsChecking(t *testing.T) {
	a := newTestApp(t)
	if a.guard != guardChecking {
		t.Fatalf("initial guard = %d, want checking", a.guard)
	}
	out := a.View()
	if !strings.Contains(out, "checking session") {
		t.Error("checking state should render the session check line")
	}
	// No protected or sign-in content may flash before the check resolves.
	for _, forbidden := range []string{"ASSIGNMENTS", "INBOX", "SIGN IN", "PROFILE"} {
		if strings.Contains(out, forbidden) {
			t.Errorf("checking state leaked %q", forbidden)
		}
	}
}

func TestValidSessionActivatesStudent(t *testing.T) {
	a := activate(t, newTestApp(t), studentUser)
	if a.guard != guardActive {
		t.Fatalf("guard = %d, want active", a.guard)
	}
	if a.view != viewHome {
		t.Errorf("view = %d, want home for a student", a.view)
	}
}

func TestValidSessionActivatesAdminOnInbox(t *testing.T) {
	a := activate(t, newTestApp(t), adminUser)
	if a.view != viewInbox {
		t.Errorf("view = %d, want inbox for an admin", a.view)
	}
}

func TestInvalidSessionSignsOut(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{}})
	a = model.(App)
	if a.guard != guardSignedOut {
		t.Fatalf("guard = %d, want signed out", a.guard)
	}
	if !strings.Contains(a.View(), "SIGN IN") {
		t.Error("signed-out state should render the sign-in form")
	}
}

func TestSessionExpiredDropsToSignIn(t *testing.T) {
	a := activate(t, newTestApp(t), studentUser)

	model, _ := a.Update(SessionExpiredMsg{})
	a = model.(App)
	if a.guard != guardSignedOut {
		t.Fatalf("guard = %d, want signed out after expiry", a.guard)
	}
	if a.user != nil {
		t.Error("user must be cleared on expiry")
	}
	if !strings.Contains(a.View(), "session has expired") {
		t.Error("expiry notice missing from the sign-in form")
	}
}

func TestSessionExpiredIgnoredWhenSignedOut(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{}})
	a = model.(App)

	model, _ = a.Update(SessionExpiredMsg{})
	a = model.(App)
	if a.guard != guardSignedOut {
		t.Errorf("guard = %d, want signed out unchanged", a.guard)
	}
	if strings.Contains(a.View(), "session has expired") {
		t.Error("expiry notice must not appear when no one was signed in")
	}
}

func TestSigninSuccessActivates(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{}})
	a = model.(App)

	model, _ = a.Update(signinResultMsg{user: adminUser, route: auth.RouteAdminInbox})
	a = model.(App)
	if a.guard != guardActive {
		t.Fatalf("guard = %d, want active", a.guard)
	}
	if a.view != viewInbox {
		t.Errorf("view = %d, want inbox", a.view)
	}
}

func TestSigninFailureStaysOnForm(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{}})
	a = model.(App)

	model, _ = a.Update(signinResultMsg{err: &auth.Error{Message: "Invalid email or password"}})
	a = model.(App)
	if a.guard != guardSignedOut {
		t.Fatalf("guard = %d, want signed out", a.guard)
	}
	if !strings.Contains(a.View(), "Invalid email or password") {
		t.Error("rejection message missing from the form")
	}
}

func TestStudentTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewAssignments},
		{"3", viewClasses},
		{"4", viewResources},
		{"5", viewProfile},
		{"1", viewHome},
	}

	a := activate(t, newTestApp(t), studentUser)
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			model, _ := a.Update(keyRunes(tc.key))
			a = model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: view = %d, want %d", tc.key, a.view, tc.wantView)
			}
		})
	}
}

func TestAdminHasNoStudentTabs(t *testing.T) {
	a := activate(t, newTestApp(t), adminUser)
	if got := len(a.tabs()); got != 2 {
		t.Fatalf("admin tab count = %d, want 2", got)
	}

	// "3" maps to nothing for an admin.
	model, _ := a.Update(keyRunes("3"))
	a = model.(App)
	if a.view != viewInbox {
		t.Errorf("view = %d, admin must stay on the inbox", a.view)
	}
}

func TestGlobalQuitOnQ(t *testing.T) {
	a := activate(t, newTestApp(t), studentUser)
	_, cmd := a.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q'")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("cmd produced %T, want tea.QuitMsg", msg)
	}
}

func TestQIsTypedWhileEditing(t *testing.T) {
	a := activate(t, newTestApp(t), studentUser)
	model, _ := a.Update(keyRunes("4"))
	a = model.(App)
	model, _ = a.Update(keyRunes("/")) // enter search
	a = model.(App)

	model, cmd := a.Update(keyRunes("q"))
	a = model.(App)
	if cmd != nil {
		t.Fatal("'q' must not quit while a text field has focus")
	}
	if a.resources.searchDraft != "q" {
		t.Errorf("searchDraft = %q, want the typed character", a.resources.searchDraft)
	}
}

func TestLogoutKeyClearsSessionAndSignsOut(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save("tok", studentUser); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	client := api.New("http://127.0.0.1:1", "tok")
	svc := auth.New(client, store)
	a := NewApp(client, svc, store, "test")
	a.width, a.height = 80, 30
	a = activate(t, a, studentUser)

	model, _ := a.Update(keyRunes("L"))
	a = model.(App)
	if a.guard != guardSignedOut {
		t.Fatalf("guard = %d, want signed out after L", a.guard)
	}
	if store.IsValid() {
		t.Error("session file must be cleared by sign out")
	}
}

func TestRegisterFlow(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{}})
	a = model.(App)

	model, _ = a.Update(showRegisterMsg{})
	a = model.(App)
	if !a.registering {
		t.Fatal("expected registration form after showRegisterMsg")
	}
	if !strings.Contains(a.View(), "CREATE ACCOUNT") {
		t.Error("registration form not rendered")
	}

	// Success returns to sign-in with a notice and no active session.
	model, _ = a.Update(registerResultMsg{})
	a = model.(App)
	if a.registering {
		t.Fatal("registration form should close on success")
	}
	if a.guard != guardSignedOut {
		t.Error("register must never sign the new account in")
	}
	if !strings.Contains(a.View(), "Account created") {
		t.Error("sign-in notice missing after registration")
	}
}

func TestRegisterEscReturnsToSignIn(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(sessionCheckedMsg{sess: session.Session{}})
	a = model.(App)
	model, _ = a.Update(showRegisterMsg{})
	a = model.(App)

	model, _ = a.Update(backToSignInMsg{})
	a = model.(App)
	if a.registering {
		t.Error("esc should abandon registration")
	}
	if strings.Contains(a.View(), "Account created") {
		t.Error("no creation notice expected after cancel")
	}
}

func TestProfileSavedRefreshesHeader(t *testing.T) {
	a := activate(t, newTestApp(t), studentUser)

	updated := &domain.User{FirstName: "Chioma", LastName: "Adeyemi", Role: domain.RoleStudent}
	model, _ := a.Update(profileSavedMsg{user: updated})
	a = model.(App)
	if a.user.LastName != "Adeyemi" {
		t.Errorf("header user LastName = %q, want the saved profile", a.user.LastName)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	a := activate(t, newTestApp(t), studentUser)

	model, _ := a.Update(keyRunes("h"))
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("expected help overlay after h")
	}
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.helpOpen {
		t.Error("esc should close the help overlay")
	}
}
