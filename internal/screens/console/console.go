// Package console shows the roster at a glance and requests growth reports.
package console

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/export"
	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/screens/report"
	"github.com/abhisek/eduelevate/internal/ui/components"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

// ConsoleScreen summarizes the roster and the lesson catalog.
type ConsoleScreen struct {
	deps    screen.Deps
	pending components.Pending
	last    *coaching.GrowthTrendReport
	failed  bool
}

var _ screen.Screen = (*ConsoleScreen)(nil)
var _ screen.KeyHintProvider = (*ConsoleScreen)(nil)

// New creates a ConsoleScreen.
func New(deps screen.Deps) *ConsoleScreen {
	return &ConsoleScreen{deps: deps, pending: components.NewPending()}
}

func (s *ConsoleScreen) Init() tea.Cmd {
	return nil
}

func (s *ConsoleScreen) Title() string {
	return "Console"
}

func (s *ConsoleScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "g", Description: "Growth report"}}
	if s.last != nil {
		hints = append(hints, layout.KeyHint{Key: "v", Description: "View report"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ConsoleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ReportMsg:
		if !s.pending.Accept(msg.ID) {
			return s, nil
		}
		growth, ok := msg.Report.(*coaching.GrowthTrendReport)
		if !ok {
			s.failed = true
			return s, nil
		}
		s.failed = false
		s.last = growth
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: report.New(growth)} }

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "g":
			return s, s.requestGrowth()
		case "v":
			if s.last != nil {
				last := s.last
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: report.New(last)} }
			}
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.pending, cmd = s.pending.Update(msg)
	return s, cmd
}

func (s *ConsoleScreen) requestGrowth() tea.Cmd {
	if s.pending.Active() {
		return nil
	}
	var plans []planbook.LessonPlan
	if s.deps.Catalog != nil {
		plans = s.deps.Catalog.All()
	}
	req := coaching.GrowthTrendRequest(plans, s.students(), s.deps.Settings.Flags())
	id := screen.NextRequestID()
	s.failed = false
	return tea.Batch(
		s.pending.Start(id, "Analyzing growth history..."),
		screen.SubmitCmd(s.deps.Coach, id, req),
	)
}

func (s *ConsoleScreen) students() []roster.Student {
	if s.deps.Roster == nil {
		return nil
	}
	return s.deps.Roster.Students()
}

func (s *ConsoleScreen) View(width, height int) string {
	sum := progress.Summarize(s.students())
	cw := min(width-4, 72)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Roster") + "\n")
	fmt.Fprintf(&b, "%d students · %s %d · %s %d · %s %d\n",
		sum.Total,
		roster.Tier1, sum.ByTier[roster.Tier1],
		roster.Tier2, sum.ByTier[roster.Tier2],
		roster.Tier3, sum.ByTier[roster.Tier3])
	fmt.Fprintf(&b, "ELL %d · IEP %d · Behavior plans %d\n\n", sum.ELL, sum.IEP, sum.BehaviorPlans)

	scored := sum.Total - sum.NoData
	for _, band := range []progress.Band{progress.Mastery, progress.Approaching, progress.Intervention} {
		b.WriteString(components.NewBandBar(band, sum.ByBand[band], scored, cw).View() + "\n")
	}
	if sum.NoData > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d without scores", sum.NoData)) + "\n")
	}
	if sum.HasMean {
		fmt.Fprintf(&b, "\nMean latest score %.1f · %d improving · %d declining\n",
			sum.MeanLatest, sum.Improving, sum.Declining)
	}

	b.WriteString("\n" + theme.Title.Render("Lessons") + "\n")
	if s.deps.Catalog == nil || s.deps.Catalog.Len() == 0 {
		b.WriteString(theme.Hint.Render("No lesson plans") + "\n")
	} else {
		for _, p := range s.deps.Catalog.All() {
			fmt.Fprintf(&b, "  %-40s %-10s %s\n", p.Title, p.Curriculum, theme.Subtitle.Render(string(p.Status)))
		}
	}

	b.WriteString("\n")
	switch {
	case s.pending.Active():
		b.WriteString(s.pending.View())
	case s.failed:
		b.WriteString(theme.Notice.Render(export.FailedNotice))
	case s.last != nil:
		b.WriteString(theme.Subtitle.Render("Last growth trend: " + s.last.OverallTrend))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
