// Package activity lists recent model calls from the event log.
package activity

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/llm"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/store"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

const pageSize = 50

type activityLoadedMsg struct {
	Events []store.LLMRequestEvent
	Usage  []store.PurposeUsage
	Err    error
}

// ActivityScreen displays recent LLM requests and per-purpose usage.
type ActivityScreen struct {
	eventRepo store.EventRepo
	events    []store.LLMRequestEvent
	usage     []store.PurposeUsage
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates a new ActivityScreen.
func New(eventRepo store.EventRepo) *ActivityScreen {
	return &ActivityScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		events, err := s.eventRepo.QueryLLMEvents(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return activityLoadedMsg{Err: err}
		}

		// Usage is a summary line; the list is still useful without it.
		usage, err := s.eventRepo.LLMUsageByPurpose(ctx)
		if err != nil {
			return activityLoadedMsg{Events: events}
		}
		return activityLoadedMsg{Events: events, Usage: usage}
	}
}

func (s *ActivityScreen) Title() string {
	return "LLM Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.usage = msg.Usage
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

// purposeLabel shows coaching purposes by their report name.
func purposeLabel(p string) string {
	if p == "" {
		return "unknown"
	}
	return coaching.Kind(p).Label()
}

func (s *ActivityScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading activity...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No model calls yet. Run a critique or an audit first.")
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.usage) > 0 {
		parts := make([]string, 0, len(s.usage))
		for _, u := range s.usage {
			parts = append(parts, fmt.Sprintf("%s %d", purposeLabel(u.Purpose), u.Calls))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Subtitle.Render(strings.Join(parts, "  ·  "))))
		b.WriteString("\n\n")
	}

	for i, ev := range s.events {
		status := lipgloss.NewStyle().Foreground(theme.Success).Render("ok  ")
		if !ev.Success {
			status = lipgloss.NewStyle().Foreground(theme.Error).Render("fail")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-26s %-24s %6dms  ",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04"),
			purposeLabel(ev.Purpose), ev.Model, ev.LatencyMs)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+status))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range details(ev) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func details(ev store.LLMRequestEvent) []string {
	lines := []string{
		fmt.Sprintf("    %s · %d in / %d out tokens", ev.Provider, ev.InputTokens, ev.OutputTokens),
	}
	if cost := llm.LookupCost(ev.Model); cost != nil {
		lines = append(lines, fmt.Sprintf("    est. cost $%.4f", cost.Cost(ev.InputTokens, ev.OutputTokens)))
	}
	if ev.ErrorMessage != "" {
		lines = append(lines, "    error: "+ev.ErrorMessage)
	}
	return lines
}
