package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/pkg/auth"
	"github.com/passage-hq/passage/pkg/domain"
)

func viewingProfile() profileModel {
	m := newProfileModel(nil)
	m.width, m.height = 80, 24
	m.user = &domain.User{
		FirstName: "Chioma", LastName: "Obi",
		Email: "chioma@example.com", Role: domain.RoleStudent, Course: "IELTS Prep",
	}
	return m
}

func TestProfileEditPrefillsFields(t *testing.T) {
	m := viewingProfile()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if !m.editing() {
		t.Fatal("e should enter edit mode")
	}
	if m.fields != [3]string{"Chioma", "Obi", "IELTS Prep"} {
		t.Errorf("prefilled fields = %v", m.fields)
	}
}

func TestProfileEscCancelsEdit(t *testing.T) {
	m := viewingProfile()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing() {
		t.Fatal("esc should leave edit mode")
	}
	// The cached user is untouched until a save round-trips.
	if m.user.FirstName != "Chioma" {
		t.Errorf("FirstName = %q, cancel must not mutate the user", m.user.FirstName)
	}
}

func TestProfileEmptyFirstNameRejected(t *testing.T) {
	m := viewingProfile()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m.fields[0] = ""

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("blank first name must not submit")
	}
	if m.errMsg == "" {
		t.Error("expected a validation message")
	}
}

func TestProfileSaveIssuesUpdate(t *testing.T) {
	m := viewingProfile()
	m.auth = auth.New(nil, nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m.fields[2] = "Visa Application"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should issue the update")
	}
	if m.state != profileSaving {
		t.Errorf("state = %d, want saving", m.state)
	}
}

func TestProfileSavedReturnsToViewing(t *testing.T) {
	m := viewingProfile()
	m.state = profileSaving

	updated := &domain.User{FirstName: "Chioma", LastName: "Obi", Course: "Visa Application", Role: domain.RoleStudent}
	m, _ = m.Update(profileSavedMsg{user: updated})
	if m.editing() {
		t.Fatal("a saved profile should return to the viewing state")
	}
	if m.user.Course != "Visa Application" {
		t.Errorf("Course = %q, want the saved value", m.user.Course)
	}
	if !strings.Contains(m.View(), "profile saved") {
		t.Error("confirmation message missing")
	}
}

func TestProfileSaveFailureStaysEditing(t *testing.T) {
	m := viewingProfile()
	m.state = profileSaving
	m.fields = [3]string{"Chioma", "Obi", "Visa Application"}

	m, _ = m.Update(profileSavedMsg{err: &auth.Error{Message: "Profile update failed. Try again."}})
	if !m.editing() {
		t.Fatal("a failed save should stay in edit mode")
	}
	if !strings.Contains(m.View(), "Profile update failed") {
		t.Error("failure message missing")
	}
}
