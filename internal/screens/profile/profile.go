// Package profile edits a student's support notes.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/ui/components"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

const (
	fieldAccommodations = iota
	fieldBehaviorPlan
	fieldIEPNotes
	fieldELL
)

// ProfileScreen edits accommodations, behavior plan, IEP notes and the ELL
// flag. Name, grade, tier and scores are not editable here.
type ProfileScreen struct {
	store   *roster.Store
	student roster.Student
	found   bool
	form    components.Form
	save    components.Button
	onSave  bool
	errMsg  string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen for the student with the given id.
func New(store *roster.Store, id string) *ProfileScreen {
	s := &ProfileScreen{store: store}
	s.student, s.found = store.Get(id)

	s.form = components.NewForm("Accommodations", "Behavior plan", "IEP notes", "ELL (yes/no)")
	s.form.SetValue(fieldAccommodations, s.student.Accommodations)
	s.form.SetValue(fieldBehaviorPlan, s.student.BehaviorPlan)
	s.form.SetValue(fieldIEPNotes, s.student.IEPNotes)
	s.form.SetValue(fieldELL, yesNo(s.student.IsELL))
	s.save = components.NewButton("Save", false, s.commit)
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseYesNo(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false", "":
		return false, nil
	}
	return false, fmt.Errorf("ELL must be yes or no")
}

func (s *ProfileScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *ProfileScreen) Title() string {
	if !s.found {
		return "Profile"
	}
	return "Profile · " + s.student.Name
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// patch holds only the fields that differ from the stored profile.
func (s *ProfileScreen) patch() (roster.ProfilePatch, error) {
	var p roster.ProfilePatch
	if v := s.form.Value(fieldAccommodations); v != s.student.Accommodations {
		p.Accommodations = &v
	}
	if v := s.form.Value(fieldBehaviorPlan); v != s.student.BehaviorPlan {
		p.BehaviorPlan = &v
	}
	if v := s.form.Value(fieldIEPNotes); v != s.student.IEPNotes {
		p.IEPNotes = &v
	}
	ell, err := parseYesNo(s.form.Value(fieldELL))
	if err != nil {
		return p, err
	}
	if ell != s.student.IsELL {
		p.IsELL = &ell
	}
	return p, nil
}

func (s *ProfileScreen) commit() tea.Cmd {
	if !s.found {
		return nil
	}
	p, err := s.patch()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if !p.Empty() {
		s.store.UpdateProfile(s.student.ID, p)
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.onSave {
			return s, nil
		}
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "ctrl+s":
		return s, s.commit()
	case "tab":
		if s.onSave {
			s.onSave, s.save.Active = false, false
			return s, s.form.FocusField(0)
		}
		if s.form.Last() {
			s.form.Blur()
			s.onSave, s.save.Active = true, true
			return s, nil
		}
	case "shift+tab":
		if s.onSave {
			s.onSave, s.save.Active = false, false
			return s, s.form.FocusField(len(s.form.Fields) - 1)
		}
	}

	if s.onSave {
		var cmd tea.Cmd
		s.save, cmd = s.save.Update(msg)
		return s, cmd
	}
	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *ProfileScreen) View(width, height int) string {
	if !s.found {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nStudent not found")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.student.Name))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  Grade %s · %s", s.student.Grade, s.student.Tier)))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n\n")
	b.WriteString(s.save.View())
	if s.errMsg != "" {
		b.WriteString("\n\n" + theme.Notice.Render(s.errMsg))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
