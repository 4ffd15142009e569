package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

// ProgressBar displays a horizontal bar filled to Percent (0 to 1).
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	// Fill colours the filled cells. Nil uses theme.Secondary.
	Fill color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// NewBandBar shows the share of scored students whose latest score falls
// in band, filled in the band's colour.
func NewBandBar(band progress.Band, count, scored, width int) ProgressBar {
	frac := 0.0
	if scored > 0 {
		frac = float64(count) / float64(scored)
	}
	bar := NewProgressBar(fmt.Sprintf("%-14s %3d", band.Label(), count), frac, true, width)
	bar.Fill = theme.BandColor(band)
	return bar
}

// cells splits width into filled and empty cells for the current percent.
func (p ProgressBar) cells(width int) (filled, empty int) {
	filled = int(float64(width) * p.Percent)
	filled = min(max(filled, 0), width)
	return filled, width - filled
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %d%%", int(p.Percent*100))
	}
	barWidth := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix), 4)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	filled, empty := p.cells(barWidth)
	b.WriteString(lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", empty)))

	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
