package ui

import "charm.land/lipgloss/v2"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerRowStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
