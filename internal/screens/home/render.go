package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

const titleFull = `╔═╗┌┬┐┬ ┬╔═╗┬  ┌─┐┬  ┬┌─┐┌┬┐┌─┐
║╣  │││ │║╣ │  ├┤ └┐┌┘├─┤ │ ├┤
╚═╝─┴┘└─┘╚═╝┴─┘└─┘ └┘ ┴ ┴ ┴ └─┘`

const titleCompact = "E D U E L E V A T E"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar shows roster size and the band split of latest scores.
func renderStatsBar(sum progress.RosterSummary, plans, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	band := func(b progress.Band) string {
		return lipgloss.NewStyle().Foreground(theme.BandColor(b)).Bold(true).
			Render(fmt.Sprintf("● %d", sum.ByBand[b]))
	}

	stats := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("%d students", sum.Total)),
		band(progress.Mastery) + " " + band(progress.Approaching) + " " + band(progress.Intervention),
		dim.Render(fmt.Sprintf("%d plans", plans)),
	}, "   ")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu draws the menu as centred lines, the selected one highlighted.
func renderMenu(items []string, selected int, disabled map[int]bool, cw int) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + label + "  ")
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render("▸ " + label + "  ")
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("  " + label + "  ")
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderLLMBanner warns that coaching requests cannot run.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No LLM provider configured; coaching is unavailable (see eduelevate --help)")
}

// renderFrame wraps content in a double border centred in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
