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

type resourcesLoadedMsg struct {
	resources []domain.Resource
	err       error
}

type resourceActionMsg struct {
	verb string
	err  error
}

// resourceCategories is the cycle for the t key. Empty string means all.
var resourceCategories = []string{"", "visa", "test-prep", "essays", "scholarships", "housing", "general"}

type resourcesModel struct {
	client *api.Client

	resources []domain.Resource
	cursor    int

	categoryIdx int
	search      string // applied filter
	searchDraft string // text being typed
	searching   bool
	statusMsg   string

	loading bool
	err     error

	width  int
	height int
}

func newResourcesModel(client *api.Client) resourcesModel {
	return resourcesModel{client: client, loading: true}
}

func (m resourcesModel) Init() tea.Cmd {
	return m.load()
}

func (m resourcesModel) load() tea.Cmd {
	client := m.client
	category := resourceCategories[m.categoryIdx]
	search := m.search
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resources, err := client.Resources(ctx, category, search)
		return resourcesLoadedMsg{resources: resources, err: err}
	}
}

func (m resourcesModel) Update(msg tea.Msg) (resourcesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case resourcesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.resources = msg.resources
			if m.cursor >= len(m.resources) {
				m.cursor = 0
			}
		}
		return m, nil

	case resourceActionMsg:
		if msg.err != nil {
			m.statusMsg = "could not " + msg.verb + " the link"
		} else {
			m.statusMsg = msg.verb + " ✓"
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.resources)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "/":
			m.searching = true
			m.searchDraft = m.search
		case "t":
			m.categoryIdx = (m.categoryIdx + 1) % len(resourceCategories)
			m.cursor = 0
			m.loading = true
			return m, m.load()
		case "esc":
			if m.search != "" {
				m.search = ""
				m.loading = true
				return m, m.load()
			}
		case "c":
			if url := m.selectedURL(); url != "" {
				return m, func() tea.Msg {
					return resourceActionMsg{verb: "copied", err: clipboard.WriteAll(url)}
				}
			}
		case "o":
			if url := m.selectedURL(); url != "" {
				return m, func() tea.Msg {
					return resourceActionMsg{verb: "opened", err: browser.Open(url)}
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

func (m resourcesModel) updateSearch(msg tea.KeyMsg) (resourcesModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search = m.searchDraft
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "esc":
		m.searching = false
		m.searchDraft = ""
		return m, nil
	default:
		m.searchDraft = editRune(m.searchDraft, msg)
		return m, nil
	}
}

func (m resourcesModel) selectedURL() string {
	if m.cursor >= len(m.resources) {
		return ""
	}
	return m.resources[m.cursor].URL
}

func (m resourcesModel) helpEntries() []string {
	if m.searching {
		return []string{helpEntry("enter", "search"), helpEntry("esc", "cancel")}
	}
	cat := resourceCategories[m.categoryIdx]
	if cat == "" {
		cat = "all"
	}
	entries := []string{
		helpEntry("j/k", "move"),
		helpEntry("/", "search"),
		helpEntry("t", "category: "+cat),
		helpEntry("c", "copy link"),
		helpEntry("o", "open link"),
	}
	if m.search != "" {
		entries = append(entries, helpEntry("esc", "clear search"))
	}
	return entries
}

func (m resourcesModel) View() string {
	if m.searching {
		return "\n  " + searchStyle.Render("search: ") + normalStyle.Render(m.searchDraft) + searchStyle.Render("▏") +
			"\n\n  " + metaStyle.Render("enter to search, esc to cancel")
	}
	if m.loading {
		return "\n  " + dimStyle.Render("loading resources…")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("Could not load resources.") +
			"\n  " + metaStyle.Render(m.err.Error()) +
			"\n\n  " + dimStyle.Render("press r to retry")
	}

	header := fmt.Sprintf("RESOURCES (%d)", len(m.resources))
	if m.search != "" {
		header += " · “" + m.search + "”"
	}
	out := "\n  " + sectionHeaderStyle.Render(header) + "\n\n"
	if len(m.resources) == 0 {
		return out + "  " + metaStyle.Render("nothing matches")
	}

	rows := pageSize(m.height, 8)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(m.resources) && i < start+rows; i++ {
		res := m.resources[i]
		marker := "   "
		style := normalStyle
		if i == m.cursor {
			marker = accentStyle.Render(" ▸ ")
			style = selectedStyle
		}
		out += fmt.Sprintf("%s%s %s\n",
			marker,
			CategoryStyle(res.Category).Render(fmt.Sprintf("%-13s", truncStr(res.Category, 12))),
			style.Render(truncStr(res.Title, 46)),
		)
	}

	// Selected resource preview
	res := m.resources[m.cursor]
	out += "\n  " + sectionHeaderStyle.Render("──────────────────────────────────────────") + "\n"
	if res.Description != "" {
		out += "  " + normalStyle.Render(truncStr(res.Description, 76)) + "\n"
	}
	out += "  " + accentStyle.Render(truncStr(res.URL, 60)) + "\n"
	if m.statusMsg != "" {
		out += "  " + okStyle.Render(m.statusMsg) + "\n"
	}
	return out
}
