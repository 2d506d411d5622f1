package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/yieldwise/internal/modules/recommendation"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorYellow    = lipgloss.Color("#D0A215")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

var verdictColors = map[recommendation.Verdict]lipgloss.Color{
	recommendation.StrongBuy: ColorGreen,
	recommendation.Buy:       ColorGreen,
	recommendation.Hold:      ColorYellow,
	recommendation.DontBuy:   ColorRed,
}

// Table is a bordered text table for CLI output
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderVerdict renders a verdict in its traffic-light color
func RenderVerdict(v recommendation.Verdict) string {
	color, ok := verdictColors[v]
	if !ok {
		color = ColorOrange
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(string(v))
}

// RenderNote renders a muted, indented line
func RenderNote(text string) string {
	return "  " + mutedStyle.Render(text)
}

// RenderTable renders a bordered table. The first column is left-aligned,
// the others right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], true)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i == 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	rule("╰", "┴", "╯")

	return b.String()
}

func pad(cell string, width int, left bool) string {
	gap := strings.Repeat(" ", max(width-lipgloss.Width(cell), 0))
	if left {
		return fmt.Sprintf(" %s%s ", cell, gap)
	}
	return fmt.Sprintf(" %s%s ", gap, cell)
}
