// Package students is the roster table.
package students

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/eduelevate/internal/importer"
	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/screens/profile"
	"github.com/abhisek/eduelevate/internal/screens/student"
	"github.com/abhisek/eduelevate/internal/ui/components"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeImport
	modeConfirmDelete
)

// RosterScreen lists every student with their latest score band.
type RosterScreen struct {
	store    *roster.Store
	selected int
	mode     mode
	input    components.TextInput
	status   string
}

var _ screen.Screen = (*RosterScreen)(nil)
var _ screen.KeyHintProvider = (*RosterScreen)(nil)

// New creates a RosterScreen over the store in deps.
func New(deps screen.Deps) *RosterScreen {
	return &RosterScreen{store: deps.Roster}
}

func (s *RosterScreen) Init() tea.Cmd {
	return nil
}

func (s *RosterScreen) Title() string {
	return "Roster"
}

func (s *RosterScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeAdd, modeImport:
		return []layout.KeyHint{{Key: "Enter", Description: "Confirm"}, {Key: "Esc", Description: "Cancel"}}
	case modeConfirmDelete:
		return []layout.KeyHint{{Key: "y", Description: "Delete"}, {Key: "n", Description: "Keep"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Progress"},
		{Key: "a", Description: "Add"},
		{Key: "i", Description: "Import"},
		{Key: "t", Description: "Tier"},
		{Key: "e", Description: "Profile"},
		{Key: "d", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

// current returns the selected student, clamping the selection first.
func (s *RosterScreen) current() (roster.Student, bool) {
	list := s.store.Students()
	if len(list) == 0 {
		s.selected = 0
		return roster.Student{}, false
	}
	s.selected = min(max(s.selected, 0), len(list)-1)
	return list[s.selected], true
}

func (s *RosterScreen) prompt(m mode, label, placeholder string) tea.Cmd {
	s.mode = m
	s.status = ""
	s.input = components.NewTextInput(placeholder, false, 0)
	s.input.Label = label
	return s.input.Init()
}

func (s *RosterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeAdd, modeImport:
		return s.updatePrompt(msg)
	case modeConfirmDelete:
		return s.updateConfirm(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < s.store.Len()-1 {
			s.selected++
		}
	case "a":
		return s, s.prompt(modeAdd, "Student name", "First Last")
	case "i":
		return s, s.prompt(modeImport, "Roster file", "path/to/roster.csv")
	case "t":
		if st, ok := s.current(); ok {
			s.store.SetTier(st.ID, st.Tier.Next())
		}
	case "d":
		if _, ok := s.current(); ok {
			s.mode = modeConfirmDelete
		}
	case "e":
		if st, ok := s.current(); ok {
			p := profile.New(s.store, st.ID)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: p} }
		}
	case "enter":
		if st, ok := s.current(); ok {
			p := student.New(s.store, st.ID)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: p} }
		}
	}
	return s, nil
}

func (s *RosterScreen) updatePrompt(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.mode = modeBrowse
			return s, nil
		case "enter":
			s.submitPrompt()
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *RosterScreen) submitPrompt() {
	value := strings.TrimSpace(s.input.Value())
	switch s.mode {
	case modeAdd:
		st, ok := s.store.AddStudent(roster.Draft{Name: value})
		if !ok {
			s.input.Submit(false)
			return
		}
		s.selected = s.store.Len() - 1
		s.status = "Added " + st.Name
	case modeImport:
		names, err := importer.ReadFile(value)
		if err != nil {
			s.input.Submit(false)
			s.status = err.Error()
			return
		}
		added := s.store.BulkAdd(names)
		s.status = fmt.Sprintf("Imported %d students", len(added))
	}
	s.mode = modeBrowse
}

func (s *RosterScreen) updateConfirm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "y":
		if st, ok := s.current(); ok {
			s.store.RemoveStudent(st.ID)
			s.status = "Removed " + st.Name
			s.selected = min(s.selected, max(s.store.Len()-1, 0))
		}
		s.mode = modeBrowse
	case "n", "esc":
		s.mode = modeBrowse
	}
	return s, nil
}

func latestCell(st roster.Student) (string, progress.Band, bool) {
	v, ok := progress.LatestScore(st.Scores)
	if !ok {
		return "no data", 0, false
	}
	label := progress.Point{Index: len(st.Scores) - 1, Score: v}.Label()
	return fmt.Sprintf("%.1f (%s)", v, label), progress.BandOf(v), true
}

func flags(st roster.Student) string {
	var f []string
	if st.IsELL {
		f = append(f, "ELL")
	}
	if st.HasIEP() {
		f = append(f, "IEP")
	}
	if st.HasBehaviorPlan() {
		f = append(f, "BP")
	}
	return strings.Join(f, " ")
}

const (
	colName = iota
	colGrade
	colTier
	colLatest
	colFlags
)

func (s *RosterScreen) View(width, height int) string {
	list := s.store.Students()
	if s.selected >= len(list) {
		s.selected = max(len(list)-1, 0)
	}

	var b strings.Builder
	if len(list) == 0 {
		b.WriteString(theme.Hint.Render("No students yet. Press a to add one or i to import a roster file."))
	} else {
		b.WriteString(s.table(list).Render())
	}
	b.WriteString("\n")

	switch s.mode {
	case modeAdd, modeImport:
		b.WriteString("\n" + s.input.View() + "\n")
	case modeConfirmDelete:
		if st, ok := s.current(); ok {
			b.WriteString("\n" + theme.Notice.Render(fmt.Sprintf("Delete %s? (y/n)", st.Name)) + "\n")
		}
	}
	if s.status != "" {
		b.WriteString("\n" + theme.Subtitle.Render(s.status) + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *RosterScreen) table(list []roster.Student) *table.Table {
	bands := make([]progress.Band, len(list))
	scored := make([]bool, len(list))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Name", "Grade", "Tier", "Latest", "Flags")

	for i, st := range list {
		latest, band, ok := latestCell(st)
		bands[i], scored[i] = band, ok
		t.Row(st.Name, st.Grade, st.Tier.String(), latest, flags(st))
	}

	return t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return base.Foreground(theme.Primary).Bold(true)
		}
		switch {
		case col == colLatest && scored[row]:
			base = base.Foreground(theme.BandColor(bands[row]))
		case col == colLatest:
			base = base.Foreground(theme.TextDim).Italic(true)
		case col == colTier:
			base = base.Foreground(theme.TierColor(progress.TierClassOf(list[row].Tier)))
		case col == colFlags:
			base = base.Foreground(theme.Accent)
		}
		if row == s.selected && col == colName {
			base = base.Foreground(theme.Primary).Bold(true)
		}
		return base
	})
}
