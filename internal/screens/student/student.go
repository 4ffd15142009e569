// Package student shows one student's score history and trend.
package student

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/screens/profile"
	"github.com/abhisek/eduelevate/internal/ui/components"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

// InsufficientData is shown in place of a trend with fewer than two scores.
const InsufficientData = "Insufficient data for a trend"

// ProgressScreen lists a student's assessments and lets the teacher record
// new ones.
type ProgressScreen struct {
	store    *roster.Store
	id       string
	entering bool
	input    components.TextInput
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen for the student with the given id.
func New(store *roster.Store, id string) *ProgressScreen {
	input := components.NewTextInput("score, e.g. 82.5", true, 6)
	input.Label = "New score"
	return &ProgressScreen{store: store, id: id, input: input}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return nil
}

func (s *ProgressScreen) Title() string {
	if st, ok := s.store.Get(s.id); ok {
		return st.Name
	}
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	if s.entering {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Record"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "s", Description: "Add score"},
		{Key: "t", Description: "Cycle tier"},
		{Key: "e", Description: "Edit profile"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.entering {
		return s.updateEntry(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "s":
		if _, ok := s.store.Get(s.id); !ok {
			return s, nil
		}
		s.entering = true
		s.input.Reset()
		return s, s.input.Focus()
	case "t":
		if st, ok := s.store.Get(s.id); ok {
			s.store.SetTier(s.id, st.Tier.Next())
		}
	case "e":
		p := profile.New(s.store, s.id)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: p} }
	}
	return s, nil
}

func (s *ProgressScreen) updateEntry(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.entering = false
			return s, nil
		case "enter":
			if !s.store.AppendScore(s.id, s.input.Value()) {
				s.input.Submit(false)
				return s, nil
			}
			s.entering = false
			s.input.Reset()
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ProgressScreen) View(width, height int) string {
	st, ok := s.store.Get(s.id)
	if !ok {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nStudent not found")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(st.Name))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  Grade %s · %s", st.Grade, st.Tier)))
	b.WriteString("\n")
	if flags := supportFlags(st); flags != "" {
		b.WriteString(theme.Hint.Render(flags) + "\n")
	}
	if st.MClassBOY != nil || st.MapBOY != nil {
		b.WriteString(theme.Subtitle.Render(baselines(st)) + "\n")
	}
	b.WriteString("\n")

	if len(st.Scores) == 0 {
		b.WriteString(theme.Hint.Render("No scores recorded") + "\n")
	}
	for i, v := range st.Scores {
		band := progress.BandOf(v)
		label := progress.Point{Index: i, Score: v}.Label()
		b.WriteString(fmt.Sprintf("  %-14s ", label))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.BandColor(band)).Bold(true).
			Render(fmt.Sprintf("%6.1f  %s", v, band.Label())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if delta, ok := progress.Delta(st.Scores); ok {
		b.WriteString("Trend  " + components.Sparkline(st.Scores))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %+.1f since first", delta)))
	} else {
		b.WriteString(theme.Hint.Render(InsufficientData))
	}
	b.WriteString("\n")

	if s.entering {
		b.WriteString("\n" + s.input.View() + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func supportFlags(st roster.Student) string {
	var flags []string
	if st.IsELL {
		flags = append(flags, "ELL")
	}
	if st.HasIEP() {
		flags = append(flags, "IEP: "+st.IEPNotes)
	}
	if st.HasBehaviorPlan() {
		flags = append(flags, "Behavior plan: "+st.BehaviorPlan)
	}
	if st.HasAccommodations() {
		flags = append(flags, "Accommodations: "+st.Accommodations)
	}
	return strings.Join(flags, " · ")
}

func baselines(st roster.Student) string {
	var parts []string
	if st.MClassBOY != nil {
		parts = append(parts, fmt.Sprintf("mCLASS BOY %.0f", *st.MClassBOY))
	}
	if st.MapBOY != nil {
		parts = append(parts, fmt.Sprintf("MAP BOY %.0f", *st.MapBOY))
	}
	return strings.Join(parts, " · ")
}
