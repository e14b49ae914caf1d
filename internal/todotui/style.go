package todotui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	modeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	normalStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	valueMuted      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle      = lipgloss.NewStyle().Bold(true)
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	statusInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
