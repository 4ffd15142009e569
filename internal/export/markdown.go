// Package export renders coaching reports as Markdown and HTML documents.
package export

import (
	"fmt"
	"strings"

	"github.com/abhisek/eduelevate/internal/coaching"
)

// FailedNotice is the body of a failed report.
const FailedNotice = "Analysis failed."

// Markdown renders any report variant, including Failed.
func Markdown(report coaching.Report) string {
	w := &mdWriter{}
	w.heading(1, report.ReportKind().Label())

	switch r := report.(type) {
	case *coaching.LessonCritique:
		writeCritique(w, r)
	case *coaching.LessonPlanRewrite:
		writeRewrite(w, r)
	case *coaching.ObservationAnalysis:
		writeObservation(w, r)
	case *coaching.GrowthTrendReport:
		writeGrowth(w, r)
	case *coaching.ExitTicketAnalysis:
		writeExitTickets(w, r)
	case *coaching.ReflectionReport:
		writeReflection(w, r)
	case coaching.Failed:
		w.para(FailedNotice)
	}
	return w.String()
}

type mdWriter struct {
	b strings.Builder
}

func (w *mdWriter) String() string {
	return strings.TrimRight(w.b.String(), "\n") + "\n"
}

func (w *mdWriter) heading(level int, text string) {
	fmt.Fprintf(&w.b, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (w *mdWriter) para(text string) {
	if text = strings.TrimSpace(text); text != "" {
		w.b.WriteString(text)
		w.b.WriteString("\n\n")
	}
}

func (w *mdWriter) field(label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(&w.b, "**%s:** %s\n\n", label, value)
	}
}

func (w *mdWriter) list(items []string) {
	if len(items) == 0 {
		return
	}
	for _, it := range items {
		fmt.Fprintf(&w.b, "- %s\n", it)
	}
	w.b.WriteString("\n")
}

func (w *mdWriter) section(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.heading(2, title)
	w.list(items)
}

// table writes a pipe table; pipes inside cells are escaped.
func (w *mdWriter) table(header []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	esc := func(cells []string) string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = strings.ReplaceAll(strings.ReplaceAll(c, "|", `\|`), "\n", " ")
		}
		return "| " + strings.Join(out, " | ") + " |\n"
	}
	w.b.WriteString(esc(header))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	w.b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, r := range rows {
		w.b.WriteString(esc(r))
	}
	w.b.WriteString("\n")
}

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

func writeTTESS(w *mdWriter, scores []coaching.TTESSScore) {
	if len(scores) == 0 {
		return
	}
	w.heading(2, "TTESS Alignment")
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{s.Dimension, num(s.Score), s.Evidence})
	}
	w.table([]string{"Dimension", "Score", "Evidence"}, rows)
}

func writeBridgePlan(w *mdWriter, bp coaching.BridgePlan) {
	w.heading(2, "Bridge Plan (Proficient+1)")
	w.field("Focus skill", bp.FocusSkill)
	w.list(bp.TwoMoves)
	w.field("Easier version", bp.EasierVersion)
	w.field("Success signal", bp.SuccessSignal)
}

func writeCritique(w *mdWriter, r *coaching.LessonCritique) {
	w.field("Rating", r.Rating)
	w.field("Growth Ladder rung", r.LadderRung)
	w.section("Strengths", r.Strengths)
	w.section("Suggestions", r.Suggestions)
	writeTTESS(w, r.TTESSAlignment)
}

func writeRewrite(w *mdWriter, r *coaching.LessonPlanRewrite) {
	o := r.Overview
	w.heading(2, "Overview")
	w.field("Grade", o.Grade)
	w.field("Subject", o.Subject)
	w.field("Standards", o.Standards)
	w.field("Learning objective", o.LearningObjective)
	w.field("Success criteria", o.SuccessCriteria)
	w.field("Vocabulary", o.Vocabulary)
	w.field("Talk balance target", o.TalkBalanceTarget)

	w.heading(2, "Framing")
	w.field("WE WILL", r.WeWill)
	w.field("I WILL", r.IWill)

	if len(r.Misconceptions) > 0 {
		w.heading(2, "Anticipated Misconceptions")
		rows := make([][]string, 0, len(r.Misconceptions))
		for _, m := range r.Misconceptions {
			rows = append(rows, []string{m.Issue, m.Cause, m.Correction})
		}
		w.table([]string{"Issue", "Cause", "Correction"}, rows)
	}

	if len(r.Phases) > 0 {
		w.heading(2, "Lesson Flow")
		for _, p := range r.Phases {
			w.heading(3, p.Name)
			w.field("Teacher", p.TeacherActions)
			w.field("Students", p.StudentActions)
			w.field("Engagement", p.EngagementStrategy)
			w.field("Quick check", p.QuickCheck)
		}
	}

	w.heading(2, "Differentiation")
	w.field("Below", r.Differentiation.Below)
	w.field("On level", r.Differentiation.On)
	w.field("Above", r.Differentiation.Above)

	w.heading(2, "Classroom Culture")
	w.field("PAX kernel", r.ClassroomCulture.PAXKernel)
	w.field("Attention signal", r.ClassroomCulture.AttentionSignal)

	writeBridgePlan(w, r.BridgePlan)

	w.heading(2, "Exit Ticket")
	w.field("Skill", r.ExitTicketDesign.Skill)
	w.field("Mastery rule", r.ExitTicketDesign.MasteryRule)
}

func writeObservation(w *mdWriter, r *coaching.ObservationAnalysis) {
	a := r.AlignmentSummary
	w.heading(2, "Alignment Summary")
	w.field("Level", a.Level)
	w.field("Strength", a.Strength)
	w.field("Growth", a.Growth)

	tb := r.TalkBalance
	w.heading(2, "Talk Balance")
	w.field("Teacher", num(tb.TeacherPercentage)+"%")
	w.field("Student", num(tb.StudentPercentage)+"%")
	if len(tb.Evidence) > 0 {
		rows := make([][]string, 0, len(tb.Evidence))
		for _, e := range tb.Evidence {
			rows = append(rows, []string{e.Type, e.Quote, e.Timestamp})
		}
		w.table([]string{"Speaker", "Quote", "Time"}, rows)
	}
	w.field("Missed opportunity", tb.MissedOpportunity)
	w.field("Action step", tb.ActionStep)

	if len(r.MisconceptionReview) > 0 {
		w.heading(2, "Misconception Review")
		rows := make([][]string, 0, len(r.MisconceptionReview))
		for _, m := range r.MisconceptionReview {
			resolved := "no"
			if m.Resolved {
				resolved = "yes"
			}
			rows = append(rows, []string{m.Appeared, m.Response, resolved, m.Suggestion})
		}
		w.table([]string{"Appeared", "Response", "Resolved", "Suggestion"}, rows)
	}

	if len(r.FlowAnalysis) > 0 {
		w.heading(2, "Lesson Flow")
		rows := make([][]string, 0, len(r.FlowAnalysis))
		for _, f := range r.FlowAnalysis {
			rows = append(rows, []string{f.Phase, f.WhatMatched, f.WhatWasMissing, f.Adjustment})
		}
		w.table([]string{"Phase", "Matched", "Missing", "Adjustment"}, rows)
	}

	writeBridgePlan(w, r.BridgePlan)
	writeTTESS(w, r.TTESSAlignment)

	w.section("Keep", r.NextAdjustments.Keep)
	w.section("Adjust", r.NextAdjustments.Adjust)
	w.section("Add", r.NextAdjustments.Add)
}

func writeGrowth(w *mdWriter, r *coaching.GrowthTrendReport) {
	w.field("Overall trend", r.OverallTrend)
	if len(r.MetricSnapshots) > 0 {
		w.heading(2, "Metrics")
		rows := make([][]string, 0, len(r.MetricSnapshots))
		for _, m := range r.MetricSnapshots {
			rows = append(rows, []string{m.Metric, m.Value, trendArrow(m.Trend)})
		}
		w.table([]string{"Metric", "Value", "Trend"}, rows)
	}
	w.section("Growth Insights", r.GrowthInsights)
	w.field("Growth Ladder progress", r.LadderProgress)
}

func trendArrow(trend string) string {
	switch trend {
	case "up":
		return "↑ up"
	case "down":
		return "↓ down"
	default:
		return "→ " + trend
	}
}

func writeExitTickets(w *mdWriter, r *coaching.ExitTicketAnalysis) {
	s := r.Snapshot
	w.field("Skill", s.Skill)
	w.field("Students", num(s.TotalStudents))
	w.field("Mastery criteria", s.MasteryCriteria)

	pb := r.PerformanceBands
	w.heading(2, "Performance Bands")
	w.table([]string{"Band", "Count", "Students"}, [][]string{
		{"Got it", num(pb.GotIt.Count), strings.Join(pb.GotIt.Names, ", ")},
		{"Almost", num(pb.Almost.Count), strings.Join(pb.Almost.Names, ", ")},
		{"Not yet", num(pb.NotYet.Count), strings.Join(pb.NotYet.Names, ", ")},
	})

	m := r.MisconceptionMapping
	w.heading(2, "Misconceptions")
	w.field("Primary", m.Primary)
	w.field("Secondary", m.Secondary)
	w.field("Reteach strategy", m.ReteachStrategy)

	writeBridgePlan(w, r.BridgePlan)

	n := r.NextDayPlan
	w.heading(2, "Next Day Plan")
	w.field("Reteach", n.Reteach.Strategy)
	w.field("Example", n.Reteach.Example)
	w.field("Reinforce", n.Reinforce.Strategy)
	w.field("Extension", n.Extension.Task)

	if len(r.StudentData) > 0 {
		w.heading(2, "Students")
		rows := make([][]string, 0, len(r.StudentData))
		for _, sd := range r.StudentData {
			rows = append(rows, []string{sd.Name, num(sd.Score), "Tier " + num(sd.SuggestedTier), sd.Observation})
		}
		w.table([]string{"Name", "Score", "Suggested tier", "Observation"}, rows)
	}
}

func writeReflection(w *mdWriter, r *coaching.ReflectionReport) {
	li := r.LessonInfo
	w.field("Teacher", li.Teacher)
	w.field("Date", li.Date)
	w.field("Subject", li.Subject)

	if len(r.ImplementationSnapshot) > 0 {
		w.heading(2, "Implementation")
		rows := make([][]string, 0, len(r.ImplementationSnapshot))
		for _, n := range r.ImplementationSnapshot {
			rows = append(rows, []string{n.Phase, n.Strengths, n.GrowthAreas})
		}
		w.table([]string{"Phase", "Strengths", "Growth areas"}, rows)
	}

	w.heading(2, "Student Results")
	w.field("Mastery rate", r.StudentResults.MasteryRate)
	w.field("Bands", r.StudentResults.Bands)

	w.section("Bridge Plan History", r.BridgePlanHistory)
	if r.GrowthMindsetStatement != "" {
		w.heading(2, "Growth Mindset")
		w.para("> " + r.GrowthMindsetStatement)
	}
	w.section("Action Steps", r.ActionSteps)
}
