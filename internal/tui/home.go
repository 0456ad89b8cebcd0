package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/domain"
)

// homeDataMsg carries the dashboard overview: the next classes and the most
// recent assignments, fetched together.
type homeDataMsg struct {
	classes     []domain.Class
	assignments []domain.Assignment
	err         error
}

type homeModel struct {
	client *api.Client
	user   *domain.User

	classes     []domain.Class
	assignments []domain.Assignment

	loading bool
	err     error

	width  int
	height int
}

func newHomeModel(client *api.Client) homeModel {
	return homeModel{client: client, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		classes, err := client.Classes(ctx, true)
		if err != nil {
			return homeDataMsg{err: err}
		}
		assignments, err := client.Assignments(ctx, "")
		if err != nil {
			return homeDataMsg{err: err}
		}
		return homeDataMsg{classes: classes, assignments: assignments}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case homeDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.classes = msg.classes
			m.assignments = msg.assignments
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			m.err = nil
			return m, m.load()
		}
	}
	return m, nil
}

func (m homeModel) helpEntries() []string {
	return []string{helpEntry("r", "refresh")}
}

func (m homeModel) View() string {
	if m.loading {
		return "\n  " + dimStyle.Render("loading your dashboard…")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("Could not load the dashboard.") +
			"\n  " + metaStyle.Render(m.err.Error()) +
			"\n\n  " + dimStyle.Render("press r to retry")
	}

	out := "\n"
	if m.user != nil {
		out += "  " + normalStyle.Render("Good to see you, "+m.user.FirstName+".") + "\n\n"
	}

	out += "  " + sectionHeaderStyle.Render("── UPCOMING CLASSES ──────────────────────") + "\n"
	if len(m.classes) == 0 {
		out += "  " + metaStyle.Render("nothing scheduled") + "\n"
	}
	for i, c := range m.classes {
		if i >= 3 {
			out += "  " + metaStyle.Render(fmt.Sprintf("… and %d more on the Classes tab", len(m.classes)-3)) + "\n"
			break
		}
		out += fmt.Sprintf("  %s  %s %s\n",
			accentStyle.Render("▸"),
			normalStyle.Render(truncStr(c.Title, 38)),
			metaStyle.Render(formatClock(c.StartsAt)),
		)
	}

	out += "\n  " + sectionHeaderStyle.Render("── ASSIGNMENTS ───────────────────────────") + "\n"
	if len(m.assignments) == 0 {
		out += "  " + metaStyle.Render("no assignments yet") + "\n"
	}
	for i, asg := range m.assignments {
		if i >= 5 {
			out += "  " + metaStyle.Render(fmt.Sprintf("… and %d more on the Assignments tab", len(m.assignments)-5)) + "\n"
			break
		}
		out += fmt.Sprintf("  %s  %s %s\n",
			StatusStyle(string(asg.Status)).Render("●"),
			normalStyle.Render(truncStr(asg.Title, 38)),
			metaStyle.Render("due "+formatRelative(asg.DueAt)),
		)
	}

	return out
}
