package ui

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var idStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// FormatID renders a todo id, highlighted when stdout is a color terminal.
func FormatID(id int64) string {
	return formatID(id, ansiEnabled())
}

func formatID(id int64, color bool) string {
	text := strconv.FormatInt(id, 10)
	if !color {
		return text
	}
	return idStyle.Render(text)
}

// FormatCheckbox renders the completion marker used in list output.
func FormatCheckbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func ansiEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
