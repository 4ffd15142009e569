// Package report shows any coaching report in a scrollable pane.
package report

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/export"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

// ReportScreen renders a report as Markdown text.
type ReportScreen struct {
	report coaching.Report
	body   string
	vp     viewport.Model
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates a ReportScreen for r.
func New(r coaching.Report) *ReportScreen {
	vp := viewport.New()
	vp.SoftWrap = true
	s := &ReportScreen{report: r, vp: vp}
	if _, failed := r.(coaching.Failed); failed {
		s.body = theme.Notice.Render(export.FailedNotice)
	} else {
		s.body = export.Markdown(r)
	}
	s.vp.SetContent(s.body)
	return s
}

func (s *ReportScreen) Init() tea.Cmd {
	return nil
}

func (s *ReportScreen) Title() string {
	return s.report.ReportKind().Label()
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && (kmsg.String() == "esc" || kmsg.String() == "q") {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *ReportScreen) View(width, height int) string {
	w := width - 4
	if w < 20 {
		w = 20
	}
	s.vp.SetWidth(w)
	s.vp.SetHeight(max(height-1, 1))
	return lipgloss.NewStyle().Padding(0, 2).Render(s.vp.View())
}
