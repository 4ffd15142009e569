// Package optimizer critiques a lesson plan and then rewrites it.
package optimizer

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/export"
	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/screens/report"
	"github.com/abhisek/eduelevate/internal/ui/components"
	"github.com/abhisek/eduelevate/internal/ui/layout"
	"github.com/abhisek/eduelevate/internal/ui/theme"
)

type phase int

const (
	phasePick phase = iota
	phaseForm
	phaseCritiquing
	phaseCritiqued
	phaseRewriting
	phaseRewritten
)

const (
	fieldTarget = iota
	fieldNotes
	fieldAttachment
)

// OptimizerScreen walks a plan through critique and rewrite.
type OptimizerScreen struct {
	deps     screen.Deps
	phase    phase
	plans    components.Menu
	plan     planbook.LessonPlan
	form     components.Form
	pending  components.Pending
	critique *coaching.LessonCritique
	rewrite  *coaching.LessonPlanRewrite
	notice   string
}

var _ screen.Screen = (*OptimizerScreen)(nil)
var _ screen.KeyHintProvider = (*OptimizerScreen)(nil)

// New creates an OptimizerScreen listing the catalog's plans.
func New(deps screen.Deps) *OptimizerScreen {
	s := &OptimizerScreen{deps: deps, pending: components.NewPending()}
	var plans []planbook.LessonPlan
	if deps.Catalog != nil {
		plans = deps.Catalog.All()
	}
	s.plans = components.NewPlanMenu(plans, s.pick)
	return s
}

func (s *OptimizerScreen) pick(p planbook.LessonPlan) tea.Cmd {
	s.plan = p
	s.phase = phaseForm
	s.notice = ""
	s.critique, s.rewrite = nil, nil
	s.form = components.NewForm("Target lesson", "Teacher notes", "Curriculum file (optional path)")
	return s.form.Init()
}

func (s *OptimizerScreen) Init() tea.Cmd {
	return nil
}

func (s *OptimizerScreen) Title() string {
	if s.phase == phasePick {
		return "Lesson Optimizer"
	}
	return "Lesson Optimizer · " + s.plan.Title
}

func (s *OptimizerScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phasePick:
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, {Key: "Esc", Description: "Back"}}
	case phaseForm:
		return []layout.KeyHint{{Key: "Tab", Description: "Next field"}, {Key: "Enter", Description: "Critique"}, {Key: "Esc", Description: "Plans"}}
	case phaseCritiqued:
		return []layout.KeyHint{{Key: "r", Description: "Rewrite"}, {Key: "v", Description: "View critique"}, {Key: "Esc", Description: "Plans"}}
	case phaseRewritten:
		return []layout.KeyHint{{Key: "v", Description: "View rewrite"}, {Key: "c", Description: "View critique"}, {Key: "Esc", Description: "Plans"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *OptimizerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if rm, ok := msg.(screen.ReportMsg); ok {
		return s, s.receive(rm)
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		return s.updateKey(kmsg)
	}
	var cmd tea.Cmd
	switch s.phase {
	case phaseForm:
		s.form, cmd = s.form.Update(msg)
	case phaseCritiquing, phaseRewriting:
		s.pending, cmd = s.pending.Update(msg)
	}
	return s, cmd
}

func (s *OptimizerScreen) updateKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phasePick:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.plans, cmd = s.plans.Update(msg)
		return s, cmd

	case phaseForm:
		switch key {
		case "esc":
			s.phase = phasePick
			return s, nil
		case "enter":
			return s, s.requestCritique()
		}
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd

	case phaseCritiquing:
		if key == "esc" {
			s.pending.Cancel()
			s.phase = phaseForm
		}
		return s, nil

	case phaseRewriting:
		if key == "esc" {
			s.pending.Cancel()
			s.phase = phaseCritiqued
		}
		return s, nil

	case phaseCritiqued, phaseRewritten:
		switch key {
		case "esc":
			s.phase = phasePick
		case "r":
			if s.phase == phaseCritiqued {
				return s, s.requestRewrite()
			}
		case "v":
			if s.phase == phaseRewritten {
				return s, view(s.rewrite)
			}
			return s, view(s.critique)
		case "c":
			return s, view(s.critique)
		}
	}
	return s, nil
}

func view(r coaching.Report) tea.Cmd {
	scr := report.New(r)
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (s *OptimizerScreen) requestCritique() tea.Cmd {
	var file *coaching.Attachment
	if path := s.form.Value(fieldAttachment); path != "" {
		a, err := coaching.LoadAttachment(path)
		if err != nil {
			s.notice = err.Error()
			return nil
		}
		file = &a
	}
	req := coaching.LessonCritiqueRequest(s.plan, s.form.Value(fieldTarget), s.form.Value(fieldNotes), file, s.deps.Settings.Flags())
	s.phase = phaseCritiquing
	return s.submit(req, "Critiquing lesson...")
}

func (s *OptimizerScreen) requestRewrite() tea.Cmd {
	req := coaching.LessonRewriteRequest(s.plan, s.form.Value(fieldTarget), s.critique, s.deps.Settings.Flags())
	s.phase = phaseRewriting
	return s.submit(req, "Writing distinguished lesson plan...")
}

func (s *OptimizerScreen) submit(req coaching.Request, label string) tea.Cmd {
	s.notice = ""
	id := screen.NextRequestID()
	return tea.Batch(s.pending.Start(id, label), screen.SubmitCmd(s.deps.Coach, id, req))
}

// receive applies a result. Failures restore the phase the request was
// made from and leave earlier results in place.
func (s *OptimizerScreen) receive(msg screen.ReportMsg) tea.Cmd {
	if !s.pending.Accept(msg.ID) {
		return nil
	}
	switch r := msg.Report.(type) {
	case *coaching.LessonCritique:
		s.critique = r
		s.phase = phaseCritiqued
		if s.deps.Catalog != nil {
			s.deps.Catalog.MarkAnalyzed(s.plan.ID)
		}
	case *coaching.LessonPlanRewrite:
		s.rewrite = r
		s.phase = phaseRewritten
		if raw, err := json.Marshal(r); err == nil && s.deps.Catalog != nil {
			s.deps.Catalog.AttachRewrite(s.plan.ID, raw)
		}
	default:
		s.notice = export.FailedNotice
		if s.phase == phaseRewriting {
			s.phase = phaseCritiqued
		} else {
			s.phase = phaseForm
		}
	}
	return nil
}

func (s *OptimizerScreen) View(width, height int) string {
	var b strings.Builder
	switch s.phase {
	case phasePick:
		b.WriteString(theme.Title.Render("Choose a lesson plan") + "\n\n")
		if len(s.plans.Items) == 0 {
			b.WriteString(theme.Hint.Render("No lesson plans in the catalog"))
		} else {
			b.WriteString(s.plans.View())
		}

	case phaseForm:
		b.WriteString(theme.Title.Render(s.plan.Title))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %s · %s", s.plan.Curriculum, s.plan.Status)) + "\n\n")
		b.WriteString(s.form.View())

	case phaseCritiquing, phaseRewriting:
		b.WriteString("\n" + s.pending.View())

	case phaseCritiqued:
		writeCritique(&b, s.critique)
		b.WriteString("\n" + theme.Hint.Render("Press r for a distinguished rewrite"))

	case phaseRewritten:
		writeCritique(&b, s.critique)
		b.WriteString("\n" + theme.Title.Render("Distinguished plan ready") + "\n")
		b.WriteString(fmt.Sprintf("%s · %s\n", s.rewrite.Overview.Grade, s.rewrite.Overview.LearningObjective))
		b.WriteString(theme.Hint.Render("Saved to the catalog. Press v to read it."))
	}

	if s.notice != "" {
		b.WriteString("\n\n" + theme.Notice.Render(s.notice))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func writeCritique(b *strings.Builder, c *coaching.LessonCritique) {
	if c == nil {
		return
	}
	b.WriteString(theme.Title.Render("Rating: "+c.Rating) + "\n")
	if c.LadderRung != "" {
		b.WriteString(theme.Subtitle.Render("Growth Ladder: "+c.LadderRung) + "\n")
	}
	for _, st := range c.Strengths {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("  + ") + st + "\n")
	}
	for _, sg := range c.Suggestions {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("  → ") + sg + "\n")
	}
}
