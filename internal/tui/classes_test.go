package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/passage-hq/passage/pkg/domain"
)

func loadedClasses() classesModel {
	m := newClassesModel(nil)
	m.width, m.height = 80, 24
	m, _ = m.Update(classesLoadedMsg{classes: []domain.Class{
		{ID: uuid.New(), Title: "IELTS Speaking drill", Tutor: "Mr. Adeyemi", StartsAt: time.Now().Add(24 * time.Hour), DurationMinutes: 90, MeetingURL: "https://meet.example.com/abc"},
		{ID: uuid.New(), Title: "Visa interview prep", Tutor: "Mrs. Bello", StartsAt: time.Now().Add(48 * time.Hour), DurationMinutes: 60},
	}})
	return m
}

func TestClassesUpcomingToggleReloads(t *testing.T) {
	m := loadedClasses()
	if !m.upcomingOnly {
		t.Fatal("classes default to the upcoming scope")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	if m.upcomingOnly {
		t.Error("u should widen the scope to all classes")
	}
	if cmd == nil {
		t.Fatal("scope change must trigger a reload")
	}
}

func TestClassesCopyWithoutLinkIsNoOp(t *testing.T) {
	m := loadedClasses()
	m.cursor = 1 // no meeting URL
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd != nil {
		t.Error("copy must be a no-op for classes without a link")
	}
}

func TestClassesPreviewShowsTutorAndLength(t *testing.T) {
	m := loadedClasses()
	out := m.View()
	for _, want := range []string{"Mr. Adeyemi", "1h 30m", "meet.example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestClassesActionFeedback(t *testing.T) {
	m := loadedClasses()
	m, _ = m.Update(classActionMsg{verb: "copied"})
	if !strings.Contains(m.View(), "copied ✓") {
		t.Error("copy confirmation missing")
	}

	m, _ = m.Update(classActionMsg{verb: "open", err: errFake})
	if !strings.Contains(m.View(), "could not open") {
		t.Error("failure feedback missing")
	}
}
