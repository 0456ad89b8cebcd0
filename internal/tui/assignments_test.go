package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/passage-hq/passage/pkg/domain"
)

var errFake = errors.New("connection refused")

func loadedAssignments() assignmentsModel {
	m := newAssignmentsModel(nil)
	m.width, m.height = 80, 24
	m, _ = m.Update(assignmentsLoadedMsg{assignments: []domain.Assignment{
		{ID: uuid.New(), Title: "IELTS practice essay", Status: domain.AssignmentPending, DueAt: time.Now().Add(48 * time.Hour)},
		{ID: uuid.New(), Title: "SOP first draft", Status: domain.AssignmentSubmitted},
		{ID: uuid.New(), Title: "Mock speaking test", Status: domain.AssignmentGraded, Grade: "8.0", Feedback: "Fluent, watch pacing."},
	}})
	return m
}

func TestAssignmentsCursorBounds(t *testing.T) {
	m := loadedAssignments()
	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}

	for i := 0; i < 10; i++ {
		m, _ = m.Update(down)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want clamped to last row", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m, _ = m.Update(up)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to first row", m.cursor)
	}
}

func TestAssignmentsFilterCycle(t *testing.T) {
	m := loadedAssignments()
	m.cursor = 2

	want := []string{"pending", "submitted", "graded", ""}
	for _, expected := range want {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
		if statusFilters[m.filterIdx] != expected {
			t.Fatalf("filter = %q, want %q", statusFilters[m.filterIdx], expected)
		}
		if cmd == nil {
			t.Fatal("filter change must trigger a reload")
		}
		if m.cursor != 0 {
			t.Error("filter change must reset the cursor")
		}
		if !m.loading {
			t.Error("filter change should show the loading state")
		}
		m.loading = false
	}
}

func TestAssignmentsDetailShowsGradeAndFeedback(t *testing.T) {
	m := loadedAssignments()
	m.cursor = 2
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatal("enter should open the detail view")
	}

	out := m.View()
	if !strings.Contains(out, "8.0") {
		t.Error("grade missing from the graded detail")
	}
	if !strings.Contains(out, "Fluent, watch pacing.") {
		t.Error("feedback missing from the graded detail")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showDetail {
		t.Error("esc should close the detail view")
	}
}

func TestAssignmentsPendingDetailHasNoGrade(t *testing.T) {
	m := loadedAssignments()
	m.cursor = 0
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if strings.Contains(m.View(), "grade") {
		t.Error("pending assignments have no grade row")
	}
}

func TestAssignmentsDetailClosesWhenReloadEmpties(t *testing.T) {
	m := loadedAssignments()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatal("enter should open the detail view")
	}

	// A refresh can come back empty while the detail is still open.
	m, _ = m.Update(assignmentsLoadedMsg{assignments: nil})
	if m.showDetail {
		t.Error("detail must close when the list empties")
	}
	if !strings.Contains(m.View(), "nothing here") {
		t.Error("empty list state missing after the reload")
	}
}

func TestAssignmentsErrorOffersRetry(t *testing.T) {
	m := newAssignmentsModel(nil)
	m, _ = m.Update(assignmentsLoadedMsg{err: errFake})
	out := m.View()
	if !strings.Contains(out, "Could not load assignments.") {
		t.Error("error state missing")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r should retry the load")
	}
	if !m.loading {
		t.Error("retry should re-enter the loading state")
	}
}
