package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailmark/internal/ui/theme"
)

// Card wraps a titled block of lines in a rounded border.
func Card(title string, lines []string, width int) string {
	body := strings.Join(lines, "\n")
	if title != "" {
		body = theme.Title.Render(title) + "\n" + body
	}
	return theme.Card.Width(width).Render(body)
}

// KeyValue renders an aligned "key  value" row.
func KeyValue(key, value string, keyWidth int) string {
	k := theme.Subtitle.Width(keyWidth).Render(key)
	return lipgloss.JoinHorizontal(lipgloss.Top, k, theme.Body.Render(value))
}

// BadgeLine renders an earned or unearned badge.
func BadgeLine(icon, name, description string, earned bool) string {
	if !earned {
		return theme.Locked.Render(fmt.Sprintf("%s  %s (locked)", "·", name))
	}
	line := theme.Badge.Render(fmt.Sprintf("%s  %s", icon, name))
	if description != "" {
		line += "  " + theme.Hint.Render(description)
	}
	return line
}
