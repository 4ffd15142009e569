package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders scores on a fixed 0-100 scale, one cell per score,
// each cell coloured by its band. It returns "" for an empty series.
func Sparkline(scores []float64) string {
	var b strings.Builder
	for _, v := range scores {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.BandColor(progress.BandOf(v))).
			Render(string(sparkRune(v))))
	}
	return b.String()
}

func sparkRune(v float64) rune {
	switch {
	case v <= 0:
		return sparkRunes[0]
	case v >= 100:
		return sparkRunes[len(sparkRunes)-1]
	}
	return sparkRunes[int(v/100*float64(len(sparkRunes)-1)+0.5)]
}
