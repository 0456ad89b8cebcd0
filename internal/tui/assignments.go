package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/domain"
)

type assignmentsLoadedMsg struct {
	assignments []domain.Assignment
	err         error
}

// statusFilters is the cycle for the f key. Empty string means all.
var statusFilters = []string{"", "pending", "submitted", "graded"}

type assignmentsModel struct {
	client *api.Client

	assignments []domain.Assignment
	cursor      int
	filterIdx   int
	showDetail  bool

	loading bool
	err     error

	width  int
	height int
}

func newAssignmentsModel(client *api.Client) assignmentsModel {
	return assignmentsModel{client: client, loading: true}
}

func (m assignmentsModel) Init() tea.Cmd {
	return m.load()
}

func (m assignmentsModel) load() tea.Cmd {
	client := m.client
	status := statusFilters[m.filterIdx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		assignments, err := client.Assignments(ctx, status)
		return assignmentsLoadedMsg{assignments: assignments, err: err}
	}
}

func (m assignmentsModel) Update(msg tea.Msg) (assignmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case assignmentsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.assignments = msg.assignments
			if m.cursor >= len(m.assignments) {
				m.cursor = 0
			}
			if len(m.assignments) == 0 {
				m.showDetail = false
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if !m.showDetail && m.cursor < len(m.assignments)-1 {
				m.cursor++
			}
		case "k", "up":
			if !m.showDetail && m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if len(m.assignments) > 0 {
				m.showDetail = true
			}
		case "esc":
			m.showDetail = false
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
			m.cursor = 0
			m.showDetail = false
			m.loading = true
			return m, m.load()
		case "r":
			m.loading = true
			m.err = nil
			return m, m.load()
		}
	}
	return m, nil
}

func (m assignmentsModel) helpEntries() []string {
	if m.showDetail {
		return []string{helpEntry("esc", "back")}
	}
	return []string{
		helpEntry("j/k", "move"),
		helpEntry("enter", "detail"),
		helpEntry("f", "filter: "+m.filterLabel()),
		helpEntry("r", "refresh"),
	}
}

func (m assignmentsModel) filterLabel() string {
	if statusFilters[m.filterIdx] == "" {
		return "all"
	}
	return statusFilters[m.filterIdx]
}

func (m assignmentsModel) View() string {
	if m.loading {
		return "\n  " + dimStyle.Render("loading assignments…")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("Could not load assignments.") +
			"\n  " + metaStyle.Render(m.err.Error()) +
			"\n\n  " + dimStyle.Render("press r to retry")
	}
	if m.showDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m assignmentsModel) listView() string {
	out := "\n  " + sectionHeaderStyle.Render(fmt.Sprintf("ASSIGNMENTS · %s (%d)", m.filterLabel(), len(m.assignments))) + "\n\n"
	if len(m.assignments) == 0 {
		return out + "  " + metaStyle.Render("nothing here with this filter")
	}

	rows := pageSize(m.height, 4)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(m.assignments) && i < start+rows; i++ {
		asg := m.assignments[i]
		marker := "   "
		titleStyle := normalStyle
		if i == m.cursor {
			marker = accentStyle.Render(" ▸ ")
			titleStyle = selectedStyle
		}
		out += fmt.Sprintf("%s%s %-10s %s  %s\n",
			marker,
			StatusStyle(string(asg.Status)).Render("●"),
			string(asg.Status),
			titleStyle.Render(fmt.Sprintf("%-42s", truncStr(asg.Title, 40))),
			metaStyle.Render("due "+formatRelative(asg.DueAt)),
		)
	}
	return out
}

func (m assignmentsModel) detailView() string {
	asg := m.assignments[m.cursor]

	out := "\n  " + selectedStyle.Render(asg.Title) + "\n"
	out += "  " + metaStyle.Render(asg.Course) + "\n\n"
	out += "  " + dimStyle.Render("status    ") + StatusStyle(string(asg.Status)).Render(string(asg.Status)) + "\n"
	out += "  " + dimStyle.Render("due       ") + normalStyle.Render(formatClock(asg.DueAt)) +
		metaStyle.Render("  ("+formatRelative(asg.DueAt)+")") + "\n"

	if asg.Status == domain.AssignmentGraded {
		grade := asg.Grade
		if grade == "" {
			grade = "—"
		}
		out += "  " + dimStyle.Render("grade     ") + okStyle.Render(grade) + "\n"
		if asg.Feedback != "" {
			out += "\n  " + sectionHeaderStyle.Render("FEEDBACK") + "\n"
			out += "  " + normalStyle.Render(asg.Feedback) + "\n"
		}
	}

	if asg.Description != "" {
		out += "\n  " + sectionHeaderStyle.Render("DESCRIPTION") + "\n"
		out += "  " + normalStyle.Render(asg.Description) + "\n"
	}
	return out
}
