// Package audit analyzes a recorded lesson against its plan, with optional
// exit ticket scoring and a closing reflection.
package audit

import (
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
	phaseWorking
	phaseObserved
	phaseTickets
)

const (
	fieldRecording = iota
	fieldTranscript
	fieldNotes
)

// AuditScreen runs an observation analysis for one plan.
type AuditScreen struct {
	deps    screen.Deps
	phase   phase
	back    phase
	plans   components.Menu
	plan    planbook.LessonPlan
	form    components.Form
	paths   components.TextInput
	pending components.Pending
	obs     *coaching.ObservationAnalysis
	tickets *coaching.ExitTicketAnalysis
	notice  string
}

var _ screen.Screen = (*AuditScreen)(nil)
var _ screen.KeyHintProvider = (*AuditScreen)(nil)

// New creates an AuditScreen listing the catalog's plans.
func New(deps screen.Deps) *AuditScreen {
	s := &AuditScreen{deps: deps, pending: components.NewPending()}
	var plans []planbook.LessonPlan
	if deps.Catalog != nil {
		plans = deps.Catalog.All()
	}
	s.plans = components.NewPlanMenu(plans, s.pick)
	return s
}

func (s *AuditScreen) pick(p planbook.LessonPlan) tea.Cmd {
	s.plan = p
	s.phase = phaseForm
	s.notice = ""
	s.obs, s.tickets = nil, nil
	s.form = components.NewForm("Recording file (audio or video path)", "Transcript (optional)", "Notes")
	return s.form.Init()
}

func (s *AuditScreen) Init() tea.Cmd {
	return nil
}

func (s *AuditScreen) Title() string {
	if s.phase == phasePick {
		return "Observation Audit"
	}
	return "Observation Audit · " + s.plan.Title
}

func (s *AuditScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phasePick:
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, {Key: "Esc", Description: "Back"}}
	case phaseForm:
		return []layout.KeyHint{{Key: "Tab", Description: "Next field"}, {Key: "Enter", Description: "Analyze"}, {Key: "Esc", Description: "Plans"}}
	case phaseObserved:
		return []layout.KeyHint{
			{Key: "v", Description: "View analysis"},
			{Key: "x", Description: "Exit tickets"},
			{Key: "f", Description: "Reflection"},
			{Key: "Esc", Description: "Plans"},
		}
	case phaseTickets:
		return []layout.KeyHint{{Key: "Enter", Description: "Analyze"}, {Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *AuditScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
	case phaseTickets:
		s.paths, cmd = s.paths.Update(msg)
	case phaseWorking:
		s.pending, cmd = s.pending.Update(msg)
	}
	return s, cmd
}

func (s *AuditScreen) updateKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	var cmd tea.Cmd
	switch s.phase {
	case phasePick:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.plans, cmd = s.plans.Update(msg)

	case phaseForm:
		switch key {
		case "esc":
			s.phase = phasePick
		case "enter":
			cmd = s.requestObservation()
		default:
			s.form, cmd = s.form.Update(msg)
		}

	case phaseWorking:
		if key == "esc" {
			s.pending.Cancel()
			s.phase = s.back
		}

	case phaseObserved:
		switch key {
		case "esc":
			s.phase = phasePick
		case "v":
			cmd = view(s.obs)
		case "x":
			s.notice = ""
			s.paths = components.NewTextInput("ticket1.jpg, ticket2.jpg", false, 0)
			s.paths.Label = "Exit ticket images (comma-separated paths)"
			s.phase = phaseTickets
			cmd = s.paths.Init()
		case "f":
			cmd = s.submit(coaching.ReflectionRequest(s.obs, s.tickets, s.deps.Settings.Flags()), "Writing reflection...")
		}

	case phaseTickets:
		switch key {
		case "esc":
			s.phase = phaseObserved
		case "enter":
			cmd = s.requestTickets()
		default:
			s.paths, cmd = s.paths.Update(msg)
		}
	}
	return s, cmd
}

func view(r coaching.Report) tea.Cmd {
	scr := report.New(r)
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (s *AuditScreen) requestObservation() tea.Cmd {
	transcript := s.form.Value(fieldTranscript)
	var rec *coaching.Attachment
	if path := s.form.Value(fieldRecording); path != "" {
		a, err := coaching.LoadAttachment(path)
		if err != nil {
			s.notice = err.Error()
			return nil
		}
		rec = &a
	}
	if rec == nil && transcript == "" {
		s.notice = "Provide a recording or a transcript"
		return nil
	}
	req := coaching.ObservationRequest(s.plan, transcript, s.form.Value(fieldNotes), rec, s.deps.Settings.Flags())
	return s.submit(req, "Analyzing observation...")
}

func (s *AuditScreen) requestTickets() tea.Cmd {
	var images []coaching.Attachment
	for p := range strings.SplitSeq(s.paths.Value(), ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		a, err := coaching.LoadAttachment(p)
		if err != nil {
			s.notice = err.Error()
			s.paths.Submit(false)
			return nil
		}
		images = append(images, a)
	}
	if len(images) == 0 {
		s.paths.Submit(false)
		return nil
	}
	var names []string
	if s.deps.Roster != nil {
		for _, st := range s.deps.Roster.Students() {
			names = append(names, st.Name)
		}
	}
	return s.submit(coaching.ExitTicketRequest(images, names, s.deps.Settings.Flags()), "Scoring exit tickets...")
}

func (s *AuditScreen) submit(req coaching.Request, label string) tea.Cmd {
	s.notice = ""
	s.back = s.phase
	s.phase = phaseWorking
	id := screen.NextRequestID()
	return tea.Batch(s.pending.Start(id, label), screen.SubmitCmd(s.deps.Coach, id, req))
}

func (s *AuditScreen) receive(msg screen.ReportMsg) tea.Cmd {
	if !s.pending.Accept(msg.ID) {
		return nil
	}
	switch r := msg.Report.(type) {
	case *coaching.ObservationAnalysis:
		s.obs = r
		s.phase = phaseObserved
		return nil
	case *coaching.ExitTicketAnalysis:
		s.tickets = r
		s.phase = phaseObserved
		return view(r)
	case *coaching.ReflectionReport:
		s.phase = phaseObserved
		return view(r)
	}
	s.notice = export.FailedNotice
	s.phase = s.back
	return nil
}

func (s *AuditScreen) View(width, height int) string {
	var b strings.Builder
	switch s.phase {
	case phasePick:
		b.WriteString(theme.Title.Render("Choose the observed lesson") + "\n\n")
		if len(s.plans.Items) == 0 {
			b.WriteString(theme.Hint.Render("No lesson plans in the catalog"))
		} else {
			b.WriteString(s.plans.View())
		}

	case phaseForm:
		b.WriteString(theme.Title.Render(s.plan.Title))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %s · %s", s.plan.Curriculum, s.plan.Status)) + "\n\n")
		b.WriteString(s.form.View())

	case phaseWorking:
		b.WriteString("\n" + s.pending.View())

	case phaseObserved, phaseTickets:
		writeObservation(&b, s.obs)
		if s.tickets != nil {
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("\nExit tickets scored: %d", len(s.tickets.StudentData))) + "\n")
		}
		if s.phase == phaseTickets {
			b.WriteString("\n" + s.paths.View())
		}
	}

	if s.notice != "" {
		b.WriteString("\n\n" + theme.Notice.Render(s.notice))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func writeObservation(b *strings.Builder, o *coaching.ObservationAnalysis) {
	if o == nil {
		return
	}
	a := o.AlignmentSummary
	b.WriteString(theme.Title.Render("Alignment: "+a.Level) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("  + ") + a.Strength + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("  → ") + a.Growth + "\n")
	tb := o.TalkBalance
	fmt.Fprintf(b, "\nTalk balance: teacher %.0f%% · students %.0f%%\n", tb.TeacherPercentage, tb.StudentPercentage)
	if tb.ActionStep != "" {
		b.WriteString(theme.Subtitle.Render("Action step: "+tb.ActionStep) + "\n")
	}
}
