package tui

import (
	"fmt"
	"strings"
	"time"
)

// formatRelative renders a timestamp relative to now: "3d ago", "in 2h".
func formatRelative(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Until(t)
	past := d < 0
	if past {
		d = -d
	}

	var s string
	switch {
	case d < time.Minute:
		s = "now"
		return s
	case d < time.Hour:
		s = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		s = fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		s = fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}

	if past {
		return s + " ago"
	}
	return "in " + s
}

// formatClock renders an absolute timestamp in local time.
func formatClock(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("Mon Jan 2, 3:04 PM")
}

// formatDuration renders a class length in minutes as "1h 30m".
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "—"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// truncStr truncates a string to max runes, appending "…" if cut.
func truncStr(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// helpEntry renders one "key label" pair for the bottom help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard separator.
func helpBar(entries ...string) string {
	return "  " + strings.Join(entries, helpLabelStyle.Render("  ·  "))
}
