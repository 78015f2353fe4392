package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	ColorBorder = "#5F5FD7"
	ColorHeader = "#00A3E0"
	ColorMuted  = "#808080"
)

// Table renders rows under header with the CLI's table style.
func Table(header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.ThickBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(lipgloss.Color(ColorHeader)).Align(lipgloss.Center)
			}
			if row%2 == 1 {
				return style.Foreground(lipgloss.Color(ColorMuted))
			}
			return style
		}).
		Headers(header...).
		Rows(rows...)

	return t.String() + "\n"
}
