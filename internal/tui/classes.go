package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/internal/browser"
	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/domain"
)

type classesLoadedMsg struct {
	classes []domain.Class
	err     error
}

// classActionMsg reports the outcome of copying or opening a meeting link.
type classActionMsg struct {
	verb string
	err  error
}

type classesModel struct {
	client *api.Client

	classes      []domain.Class
	cursor       int
	upcomingOnly bool
	statusMsg    string

	loading bool
	err     error

	width  int
	height int
}

func newClassesModel(client *api.Client) classesModel {
	return classesModel{client: client, upcomingOnly: true, loading: true}
}

func (m classesModel) Init() tea.Cmd {
	return m.load()
}

func (m classesModel) load() tea.Cmd {
	client := m.client
	upcoming := m.upcomingOnly
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		classes, err := client.Classes(ctx, upcoming)
		return classesLoadedMsg{classes: classes, err: err}
	}
}

func (m classesModel) Update(msg tea.Msg) (classesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case classesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.classes = msg.classes
			if m.cursor >= len(m.classes) {
				m.cursor = 0
			}
		}
		return m, nil

	case classActionMsg:
		if msg.err != nil {
			m.statusMsg = "could not " + msg.verb + " the link"
		} else {
			m.statusMsg = msg.verb + " ✓"
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.classes)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "u":
			m.upcomingOnly = !m.upcomingOnly
			m.cursor = 0
			m.loading = true
			return m, m.load()
		case "c":
			if url := m.selectedURL(); url != "" {
				return m, func() tea.Msg {
					return classActionMsg{verb: "copied", err: clipboard.WriteAll(url)}
				}
			}
		case "o":
			if url := m.selectedURL(); url != "" {
				return m, func() tea.Msg {
					return classActionMsg{verb: "opened", err: browser.Open(url)}
				}
			}
		case "r":
			m.loading = true
			m.err = nil
			return m, m.load()
		}
	}
	return m, nil
}

func (m classesModel) selectedURL() string {
	if m.cursor >= len(m.classes) {
		return ""
	}
	return m.classes[m.cursor].MeetingURL
}

func (m classesModel) helpEntries() []string {
	scope := "upcoming"
	if !m.upcomingOnly {
		scope = "all"
	}
	return []string{
		helpEntry("j/k", "move"),
		helpEntry("u", "showing: "+scope),
		helpEntry("c", "copy link"),
		helpEntry("o", "open link"),
		helpEntry("r", "refresh"),
	}
}

func (m classesModel) View() string {
	if m.loading {
		return "\n  " + dimStyle.Render("loading classes…")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("Could not load classes.") +
			"\n  " + metaStyle.Render(m.err.Error()) +
			"\n\n  " + dimStyle.Render("press r to retry")
	}

	scope := "UPCOMING"
	if !m.upcomingOnly {
		scope = "ALL"
	}
	out := "\n  " + sectionHeaderStyle.Render(fmt.Sprintf("CLASSES · %s (%d)", scope, len(m.classes))) + "\n\n"
	if len(m.classes) == 0 {
		return out + "  " + metaStyle.Render("no classes scheduled")
	}

	rows := pageSize(m.height, 9)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(m.classes) && i < start+rows; i++ {
		c := m.classes[i]
		marker := "   "
		style := normalStyle
		if i == m.cursor {
			marker = accentStyle.Render(" ▸ ")
			style = selectedStyle
		}
		out += fmt.Sprintf("%s%s  %s\n",
			marker,
			style.Render(fmt.Sprintf("%-40s", truncStr(c.Title, 38))),
			metaStyle.Render(formatClock(c.StartsAt)),
		)
	}

	// Selected class preview
	c := m.classes[m.cursor]
	out += "\n  " + sectionHeaderStyle.Render("──────────────────────────────────────────") + "\n"
	out += "  " + dimStyle.Render("tutor     ") + normalStyle.Render(c.Tutor) + "\n"
	out += "  " + dimStyle.Render("length    ") + normalStyle.Render(formatDuration(c.DurationMinutes)) + "\n"
	if c.MeetingURL != "" {
		out += "  " + dimStyle.Render("meeting   ") + accentStyle.Render(truncStr(c.MeetingURL, 50)) + "\n"
	}
	if m.statusMsg != "" {
		out += "  " + okStyle.Render(m.statusMsg) + "\n"
	}
	return out
}
