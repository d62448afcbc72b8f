package tui

import "github.com/charmbracelet/lipgloss"

const columnWidth = 28

type palette struct {
	fg, muted, accent, border, selectedBg, errFg string
}

var (
	lightPalette = palette{
		fg:         "#18181b",
		muted:      "#71717a",
		accent:     "#2563eb",
		border:     "#d4d4d8",
		selectedBg: "#dbeafe",
		errFg:      "#dc2626",
	}
	darkPalette = palette{
		fg:         "#f4f4f5",
		muted:      "#a1a1aa",
		accent:     "#60a5fa",
		border:     "#3f3f46",
		selectedBg: "#1e3a8a",
		errFg:      "#f87171",
	}
)

type styles struct {
	title         lipgloss.Style
	column        lipgloss.Style
	focusedColumn lipgloss.Style
	columnTitle   lipgloss.Style
	card          lipgloss.Style
	selectedCard  lipgloss.Style
	weight        lipgloss.Style
	help          lipgloss.Style
	err           lipgloss.Style
	status        lipgloss.Style
	form          lipgloss.Style
	label         lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.border)).
		Width(columnWidth).
		Padding(0, 1)

	return styles{
		title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		column:        column,
		focusedColumn: column.BorderForeground(lipgloss.Color(p.accent)),
		columnTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.fg)),
		card:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)),
		selectedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)).
			Background(lipgloss.Color(p.selectedBg)).
			Bold(true),
		weight: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.errFg)),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Italic(true),
		form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.accent)).
			Padding(0, 1),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Width(8),
	}
}
