package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/domain"
)

const inboxPageLimit = 20

type submissionsLoadedMsg struct {
	page *api.SubmissionPage
	err  error
}

// submissionUpdatedMsg reports a read/unread flip for one submission.
type submissionUpdatedMsg struct {
	id   uuid.UUID
	read bool
	err  error
}

type submissionDeletedMsg struct {
	id  uuid.UUID
	err error
}

type inboxActionMsg struct {
	verb string
	err  error
}

// sortModes is the cycle for the s key.
var sortModes = []api.ListOptions{
	{SortBy: "created_at", SortOrder: "desc"},
	{SortBy: "created_at", SortOrder: "asc"},
	{SortBy: "name", SortOrder: "asc"},
	{SortBy: "name", SortOrder: "desc"},
}

// readFilters is the cycle for the f key. Empty string means all.
var readFilters = []string{"", "unread", "read"}

type inboxModel struct {
	client *api.Client

	submissions []domain.ContactSubmission
	pagination  domain.Pagination
	cursor      int

	skip      int
	sortIdx   int
	filterIdx int

	showDetail bool
	deleting   bool // y/n confirmation in flight
	statusMsg  string

	loading bool
	err     error

	width  int
	height int
}

func newInboxModel(client *api.Client) inboxModel {
	return inboxModel{client: client, loading: true}
}

func (m inboxModel) Init() tea.Cmd {
	return m.load()
}

func (m inboxModel) confirmingDelete() bool {
	return m.deleting
}

func (m inboxModel) load() tea.Cmd {
	client := m.client
	opts := sortModes[m.sortIdx]
	opts.Skip = m.skip
	opts.Limit = inboxPageLimit
	opts.ReadStatus = readFilters[m.filterIdx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		page, err := client.ContactSubmissions(ctx, opts)
		return submissionsLoadedMsg{page: page, err: err}
	}
}

func (m inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case submissionsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.submissions = msg.page.Data
			m.pagination = msg.page.Pagination
			if m.cursor >= len(m.submissions) {
				m.cursor = 0
			}
		}
		return m, nil

	case submissionUpdatedMsg:
		if msg.err != nil {
			m.statusMsg = "could not update the message"
			return m, nil
		}
		for i := range m.submissions {
			if m.submissions[i].ID == msg.id {
				m.submissions[i].Read = msg.read
			}
		}
		return m, nil

	case submissionDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.statusMsg = "could not delete the message"
			return m, nil
		}
		m.showDetail = false
		m.statusMsg = "deleted"
		m.loading = true
		return m, m.load()

	case inboxActionMsg:
		if msg.err != nil {
			m.statusMsg = "could not " + msg.verb
		} else {
			m.statusMsg = msg.verb + " ✓"
		}
		return m, nil

	case tea.KeyMsg:
		if m.deleting {
			return m.updateConfirm(msg)
		}
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			if !m.showDetail && m.cursor < len(m.submissions)-1 {
				m.cursor++
			}
		case "k", "up":
			if !m.showDetail && m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			return m.openDetail()
		case "esc":
			m.showDetail = false
		case "n":
			if m.pagination.HasMore {
				m.skip += inboxPageLimit
				m.cursor = 0
				m.showDetail = false
				m.loading = true
				return m, m.load()
			}
		case "p":
			if m.skip > 0 {
				m.skip -= inboxPageLimit
				if m.skip < 0 {
					m.skip = 0
				}
				m.cursor = 0
				m.showDetail = false
				m.loading = true
				return m, m.load()
			}
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(sortModes)
			m.skip = 0
			m.cursor = 0
			m.loading = true
			return m, m.load()
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(readFilters)
			m.skip = 0
			m.cursor = 0
			m.loading = true
			return m, m.load()
		case "m":
			return m.toggleRead()
		case "d":
			if len(m.submissions) > 0 {
				m.deleting = true
			}
		case "c":
			if sub := m.selected(); sub != nil {
				email := sub.Email
				return m, func() tea.Msg {
					return inboxActionMsg{verb: "copied email", err: clipboard.WriteAll(email)}
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

func (m inboxModel) updateConfirm(msg tea.KeyMsg) (inboxModel, tea.Cmd) {
	switch msg.String() {
	case "y":
		sub := m.selected()
		if sub == nil {
			m.deleting = false
			return m, nil
		}
		client, id := m.client, sub.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return submissionDeletedMsg{id: id, err: client.DeleteSubmission(ctx, id.String())}
		}
	case "n", "esc":
		m.deleting = false
	}
	return m, nil
}

// openDetail shows the selected submission and marks it read on the backend,
// mirroring an admin opening the message.
func (m inboxModel) openDetail() (inboxModel, tea.Cmd) {
	sub := m.selected()
	if sub == nil {
		return m, nil
	}
	m.showDetail = true
	if sub.Read {
		return m, nil
	}
	client, id := m.client, sub.ID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return submissionUpdatedMsg{id: id, read: true, err: client.MarkSubmissionRead(ctx, id.String())}
	}
}

func (m inboxModel) toggleRead() (inboxModel, tea.Cmd) {
	sub := m.selected()
	if sub == nil {
		return m, nil
	}
	client, id, wantRead := m.client, sub.ID, !sub.Read
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var err error
		if wantRead {
			err = client.MarkSubmissionRead(ctx, id.String())
		} else {
			err = client.MarkSubmissionUnread(ctx, id.String())
		}
		return submissionUpdatedMsg{id: id, read: wantRead, err: err}
	}
}

func (m inboxModel) selected() *domain.ContactSubmission {
	if m.cursor >= len(m.submissions) {
		return nil
	}
	return &m.submissions[m.cursor]
}

func (m inboxModel) helpEntries() []string {
	if m.deleting {
		return []string{helpEntry("y", "delete"), helpEntry("n", "keep")}
	}
	if m.showDetail {
		return []string{
			helpEntry("m", "toggle read"),
			helpEntry("d", "delete"),
			helpEntry("c", "copy email"),
			helpEntry("esc", "back"),
		}
	}
	filter := readFilters[m.filterIdx]
	if filter == "" {
		filter = "all"
	}
	return []string{
		helpEntry("j/k", "move"),
		helpEntry("enter", "read"),
		helpEntry("n/p", "page"),
		helpEntry("s", "sort"),
		helpEntry("f", "filter: "+filter),
		helpEntry("d", "delete"),
	}
}

func (m inboxModel) View() string {
	if m.loading {
		return "\n  " + dimStyle.Render("loading inbox…")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("Could not load the inbox.") +
			"\n  " + metaStyle.Render(m.err.Error()) +
			"\n\n  " + dimStyle.Render("press r to retry")
	}
	if m.showDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m inboxModel) listView() string {
	sort := sortModes[m.sortIdx]
	pageNo := m.skip/inboxPageLimit + 1
	header := fmt.Sprintf("INBOX · page %d · %d total · %s %s", pageNo, m.pagination.Total, sort.SortBy, sort.SortOrder)
	out := "\n  " + sectionHeaderStyle.Render(header) + "\n\n"

	if len(m.submissions) == 0 {
		return out + "  " + metaStyle.Render("no messages")
	}

	rows := pageSize(m.height, 5)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(m.submissions) && i < start+rows; i++ {
		sub := m.submissions[i]
		dot := metaStyle.Render("·")
		nameStyle := dimStyle
		if !sub.Read {
			dot = unreadDotStyle.Render("●")
			nameStyle = normalStyle
		}
		marker := "   "
		subjStyle := nameStyle
		if i == m.cursor {
			marker = accentStyle.Render(" ▸ ")
			subjStyle = selectedStyle
		}
		out += fmt.Sprintf("%s%s %s  %s %s\n",
			marker,
			dot,
			nameStyle.Render(fmt.Sprintf("%-20s", truncStr(sub.Name, 19))),
			subjStyle.Render(fmt.Sprintf("%-34s", truncStr(sub.Subject, 32))),
			metaStyle.Render(formatRelative(sub.CreatedAt)),
		)
	}

	if m.pagination.HasMore {
		out += "\n  " + metaStyle.Render("n for the next page") + "\n"
	}
	if m.deleting {
		out += "\n  " + errorStyle.Render("delete the selected message? (y/n)") + "\n"
	} else if m.statusMsg != "" {
		out += "\n  " + okStyle.Render(m.statusMsg) + "\n"
	}
	return out
}

func (m inboxModel) detailView() string {
	sub := m.selected()
	if sub == nil {
		return "\n  " + metaStyle.Render("no message selected")
	}

	out := "\n  " + selectedStyle.Render(sub.Subject) + "\n\n"
	out += "  " + dimStyle.Render("from      ") + normalStyle.Render(sub.Name) +
		metaStyle.Render("  <"+sub.Email+">") + "\n"
	out += "  " + dimStyle.Render("received  ") + normalStyle.Render(formatClock(sub.CreatedAt)) + "\n\n"
	out += "  " + sectionHeaderStyle.Render("──────────────────────────────────────────") + "\n"
	out += "  " + normalStyle.Render(sub.Message) + "\n"

	if m.deleting {
		out += "\n  " + errorStyle.Render("delete this message? (y/n)") + "\n"
	} else if m.statusMsg != "" {
		out += "\n  " + okStyle.Render(m.statusMsg) + "\n"
	}
	return out
}
