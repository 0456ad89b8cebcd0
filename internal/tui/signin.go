package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/passage-hq/passage/pkg/auth"
	"github.com/passage-hq/passage/pkg/domain"
)

// signinResultMsg carries the outcome of a login attempt. On success the App
// intercepts it and activates; on failure it lands back here for display.
type signinResultMsg struct {
	user  *domain.User
	route auth.Route
	err   error
}

// showRegisterMsg asks the App to swap in the registration form.
type showRegisterMsg struct{}

type signinModel struct {
	auth *auth.Service

	email    string
	password string
	focus    int // 0 email, 1 password

	submitting bool
	errMsg     string
	notice     string

	width  int
	height int
}

func newSigninModel(svc *auth.Service) signinModel {
	return signinModel{auth: svc}
}

func (m signinModel) Update(msg tea.Msg) (signinModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case signinResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focus = 1
			return m, nil
		case "shift+tab", "up":
			m.focus = 0
			return m, nil
		case "ctrl+r":
			return m, func() tea.Msg { return showRegisterMsg{} }
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				return m, nil
			}
			return m.submit()
		default:
			m.errMsg = ""
			if m.focus == 0 {
				m.email = editRune(m.email, msg)
			} else {
				m.password = editRune(m.password, msg)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m signinModel) submit() (signinModel, tea.Cmd) {
	email := strings.TrimSpace(m.email)
	if email == "" || m.password == "" {
		m.errMsg = "Enter your email and password."
		return m, nil
	}

	m.submitting = true
	m.errMsg = ""
	m.notice = ""
	svc, password := m.auth, m.password
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		user, route, err := svc.Login(ctx, email, password)
		return signinResultMsg{user: user, route: route, err: err}
	}
}

func (m signinModel) View() string {
	var lines []string

	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice), "")
	}
	lines = append(lines, sectionHeaderStyle.Render("SIGN IN"), "")
	lines = append(lines,
		m.fieldLine("email", m.email, m.focus == 0, false),
		m.fieldLine("password", m.password, m.focus == 1, true),
		"",
	)

	switch {
	case m.submitting:
		lines = append(lines, dimStyle.Render("signing in…"))
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(m.errMsg))
	default:
		lines = append(lines, metaStyle.Render("new here? press ctrl+r to create an account"))
	}

	card := strings.Join(lines, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m signinModel) fieldLine(label, value string, focused, mask bool) string {
	shown := value
	if mask {
		shown = strings.Repeat("•", len([]rune(value)))
	}
	if shown == "" && !focused {
		shown = inputPlaceholderStyle.Render("…")
	}
	cursor := "  "
	style := dimStyle
	if focused {
		cursor = inputPromptStyle.Render("> ")
		style = selectedStyle
		shown += searchStyle.Render("▏")
	}
	return cursor + style.Render(padLabel(label)) + " " + shown
}

func padLabel(label string) string {
	const w = 9
	if len(label) >= w {
		return label
	}
	return label + strings.Repeat(" ", w-len(label))
}
