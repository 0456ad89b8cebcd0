package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const maxInputLen = 128

// editRune applies a single key event to a text field value.
// Handles backspace, space, and printable runes; everything else is a no-op.
func editRune(value string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if value == "" {
			return value
		}
		r := []rune(value)
		return string(r[:len(r)-1])
	case tea.KeySpace:
		if len(value) >= maxInputLen {
			return value
		}
		return value + " "
	case tea.KeyRunes:
		if len(value) >= maxInputLen {
			return value
		}
		return value + string(msg.Runes)
	default:
		return value
	}
}

// truncateToHeight limits a body to at most h lines, padding short bodies so
// the help bar stays pinned to the bottom of the terminal.
func truncateToHeight(body string, h int) string {
	if h <= 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// pageSize converts a body height into the number of list rows that fit,
// reserving room for headers and the selected-item preview.
func pageSize(height, reserved int) int {
	n := height - reserved
	if n < 3 {
		return 3
	}
	return n
}
