package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/auth"
	"github.com/passage-hq/passage/pkg/domain"
)

// profileSavedMsg carries the outcome of a profile update or refresh. The App
// intercepts it first to refresh the cached user shown in the header.
type profileSavedMsg struct {
	user      *domain.User
	refreshed bool
	err       error
}

type profileState int

const (
	profileViewing profileState = iota
	profileEditing
	profileSaving
)

type profileModel struct {
	auth *auth.Service
	user *domain.User

	state     profileState
	fields    [3]string // first name, last name, course
	focus     int
	statusMsg string
	errMsg    string

	width  int
	height int
}

var profileLabels = [3]string{"first name", "last name", "course"}

func newProfileModel(svc *auth.Service) profileModel {
	return profileModel{auth: svc}
}

func (m profileModel) Init() tea.Cmd {
	return nil
}

func (m profileModel) editing() bool {
	return m.state != profileViewing
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			if msg.refreshed {
				m.errMsg = msg.err.Error()
				return m, nil
			}
			m.state = profileEditing
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.state = profileViewing
		m.user = msg.user
		if msg.refreshed {
			m.statusMsg = "profile refreshed"
		} else {
			m.statusMsg = "profile saved"
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case profileViewing:
			switch msg.String() {
			case "e":
				if m.user != nil {
					m.state = profileEditing
					m.fields = [3]string{m.user.FirstName, m.user.LastName, m.user.Course}
					m.focus = 0
					m.statusMsg = ""
					m.errMsg = ""
				}
			case "r":
				m.statusMsg = ""
				m.errMsg = ""
				svc := m.auth
				return m, func() tea.Msg {
					ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					user, err := svc.RefreshProfile(ctx)
					return profileSavedMsg{user: user, refreshed: true, err: err}
				}
			}
		case profileEditing:
			switch msg.String() {
			case "esc":
				m.state = profileViewing
				m.errMsg = ""
			case "tab", "down":
				m.focus = (m.focus + 1) % len(m.fields)
			case "shift+tab", "up":
				m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
			case "enter":
				return m.save()
			default:
				m.errMsg = ""
				m.fields[m.focus] = editRune(m.fields[m.focus], msg)
			}
		case profileSaving:
			// wait for the result
		}
	}
	return m, nil
}

func (m profileModel) save() (profileModel, tea.Cmd) {
	if strings.TrimSpace(m.fields[0]) == "" {
		m.errMsg = "First name cannot be empty."
		return m, nil
	}

	m.state = profileSaving
	m.errMsg = ""
	svc := m.auth
	req := api.UpdateProfileRequest{
		FirstName: strings.TrimSpace(m.fields[0]),
		LastName:  strings.TrimSpace(m.fields[1]),
		Course:    strings.TrimSpace(m.fields[2]),
	}
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		user, err := svc.UpdateProfile(ctx, req)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m profileModel) helpEntries() []string {
	switch m.state {
	case profileEditing:
		return []string{helpEntry("tab", "next field"), helpEntry("enter", "save"), helpEntry("esc", "cancel")}
	case profileSaving:
		return nil
	default:
		return []string{helpEntry("e", "edit"), helpEntry("r", "refresh")}
	}
}

func (m profileModel) View() string {
	if m.user == nil {
		return "\n  " + dimStyle.Render("no profile loaded")
	}
	if m.state == profileViewing {
		return m.viewingView()
	}
	return m.editingView()
}

func (m profileModel) viewingView() string {
	u := m.user
	role := string(u.Role)

	out := "\n  " + sectionHeaderStyle.Render("PROFILE") + "\n\n"
	out += "  " + dimStyle.Render("name      ") + normalStyle.Render(u.FullName()) + "\n"
	out += "  " + dimStyle.Render("email     ") + normalStyle.Render(u.Email) + "\n"
	out += "  " + dimStyle.Render("role      ") + RoleStyle(role).Render(role) + "\n"
	if u.Course != "" {
		out += "  " + dimStyle.Render("course    ") + normalStyle.Render(u.Course) + "\n"
	}
	if m.statusMsg != "" {
		out += "\n  " + okStyle.Render(m.statusMsg) + "\n"
	}
	if m.errMsg != "" {
		out += "\n  " + errorStyle.Render(m.errMsg) + "\n"
	}
	return out
}

func (m profileModel) editingView() string {
	out := "\n  " + sectionHeaderStyle.Render("EDIT PROFILE") + "\n\n"
	for i, label := range profileLabels {
		cursor := "  "
		style := dimStyle
		value := m.fields[i]
		if i == m.focus && m.state == profileEditing {
			cursor = inputPromptStyle.Render("> ")
			style = selectedStyle
			value += searchStyle.Render("▏")
		}
		out += "  " + cursor + style.Render(padLabel(label)) + " " + value + "\n"
	}
	out += "\n"
	switch {
	case m.state == profileSaving:
		out += "  " + dimStyle.Render("saving…") + "\n"
	case m.errMsg != "":
		out += "  " + errorStyle.Render(m.errMsg) + "\n"
	default:
		out += "  " + metaStyle.Render("email and role cannot be changed here") + "\n"
	}
	return out
}
