package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/passage-hq/passage/pkg/api"
	"github.com/passage-hq/passage/pkg/auth"
)

// registerResultMsg carries the outcome of an account creation attempt.
// Success is intercepted by the App, which returns to sign-in with a notice;
// a new account is never signed in automatically.
type registerResultMsg struct {
	err error
}

type registerField struct {
	label    string
	value    string
	mask     bool
	optional bool
}

type registerModel struct {
	auth *auth.Service

	fields [5]registerField
	focus  int

	submitting bool
	errMsg     string

	width  int
	height int
}

func newRegisterModel(svc *auth.Service) registerModel {
	return registerModel{
		auth: svc,
		fields: [5]registerField{
			{label: "first name"},
			{label: "last name"},
			{label: "email"},
			{label: "password", mask: true},
			{label: "course", optional: true},
		},
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bodySizeMsg:
		m.width, m.height = msg.width, msg.height
		return m, nil

	case registerResultMsg:
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
		case "esc":
			return m, func() tea.Msg { return backToSignInMsg{} }
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.fields)
			return m, nil
		case "shift+tab", "up":
			m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
			return m, nil
		case "enter":
			if m.focus < len(m.fields)-1 {
				m.focus++
				return m, nil
			}
			return m.submit()
		default:
			m.errMsg = ""
			m.fields[m.focus].value = editRune(m.fields[m.focus].value, msg)
			return m, nil
		}
	}
	return m, nil
}

// backToSignInMsg asks the App to abandon registration and show sign-in.
type backToSignInMsg struct{}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	for _, f := range m.fields {
		if !f.optional && strings.TrimSpace(f.value) == "" {
			m.errMsg = "Fill in every field except course."
			return m, nil
		}
	}

	m.submitting = true
	m.errMsg = ""
	svc := m.auth
	req := api.RegisterRequest{
		FirstName: strings.TrimSpace(m.fields[0].value),
		LastName:  strings.TrimSpace(m.fields[1].value),
		Email:     strings.TrimSpace(m.fields[2].value),
		Password:  m.fields[3].value,
		Course:    strings.TrimSpace(m.fields[4].value),
	}
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return registerResultMsg{err: svc.Register(ctx, req)}
	}
}

func (m registerModel) View() string {
	lines := []string{sectionHeaderStyle.Render("CREATE ACCOUNT"), ""}

	for i, f := range m.fields {
		label := f.label
		if f.optional {
			label += " (optional)"
		}
		shown := f.value
		if f.mask {
			shown = strings.Repeat("•", len([]rune(f.value)))
		}
		cursor := "  "
		style := dimStyle
		if i == m.focus {
			cursor = inputPromptStyle.Render("> ")
			style = selectedStyle
			shown += searchStyle.Render("▏")
		}
		lines = append(lines, cursor+style.Render(padRegLabel(label))+" "+shown)
	}
	lines = append(lines, "")

	switch {
	case m.submitting:
		lines = append(lines, dimStyle.Render("creating account…"))
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(m.errMsg))
	default:
		lines = append(lines, metaStyle.Render("enter on the last field submits"))
	}

	card := strings.Join(lines, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func padRegLabel(label string) string {
	const w = 20
	if len(label) >= w {
		return label
	}
	return label + strings.Repeat(" ", w-len(label))
}
