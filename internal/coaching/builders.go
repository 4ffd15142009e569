package coaching

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/roster"
)

// DefaultTarget is the lesson focus used when the teacher names none.
const DefaultTarget = "Primary"

func target(t string) string {
	if t = strings.TrimSpace(t); t != "" {
		return t
	}
	return DefaultTarget
}

func optional(a *Attachment) []Attachment {
	if a == nil {
		return nil
	}
	return []Attachment{*a}
}

// LessonCritiqueRequest asks for an audit of plan. The optional attachment
// is the curriculum page or PDF the teacher is working from.
func LessonCritiqueRequest(plan planbook.LessonPlan, targetLesson, notes string, file *Attachment, flags Flags) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit this lesson from %s.\n", plan.Curriculum)
	fmt.Fprintf(&b, "Title: %s\n", plan.Title)
	fmt.Fprintf(&b, "Target: %q\n", target(targetLesson))
	fmt.Fprintf(&b, "\nLesson content:\n%s\n", plan.Content)
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "\nTeacher notes:\n%s\n", notes)
	}
	if file != nil {
		fmt.Fprintf(&b, "\nThe attached file %q is the curriculum material.\n", file.Name)
	}
	return Request{
		Kind:        KindLessonCritique,
		Context:     b.String(),
		Attachments: optional(file),
		Flags:       flags,
	}
}

// LessonRewriteRequest asks for a distinguished rewrite of plan, applying
// the suggestions of a prior critique when one is given.
func LessonRewriteRequest(plan planbook.LessonPlan, targetLesson string, critique *LessonCritique, flags Flags) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the lesson: %q\n", target(targetLesson))
	fmt.Fprintf(&b, "Title: %s (%s)\n", plan.Title, plan.Curriculum)
	if critique != nil && len(critique.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range critique.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	fmt.Fprintf(&b, "\nContext:\n%s\n", plan.Content)
	return Request{Kind: KindLessonRewrite, Context: b.String(), Flags: flags}
}

// ObservationRequest asks for an analysis of a recorded lesson against
// its plan. The recording is optional when a transcript is supplied.
func ObservationRequest(plan planbook.LessonPlan, transcript, notes string, recording *Attachment, flags Flags) Request {
	var b strings.Builder
	if transcript = strings.TrimSpace(transcript); transcript != "" {
		fmt.Fprintf(&b, "Transcript context:\n%s\n\n", transcript)
	}
	if recording != nil {
		fmt.Fprintf(&b, "The attached recording %q is the lesson being observed.\n\n", recording.Name)
	}
	fmt.Fprintf(&b, "Original plan (%s):\n%s\n", plan.Title, planText(plan))
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", notes)
	}
	return Request{
		Kind:        KindObservation,
		Context:     b.String(),
		Attachments: optional(recording),
		Flags:       flags,
	}
}

// planText prefers the structured rewrite when the plan has one.
func planText(plan planbook.LessonPlan) string {
	if len(plan.StructuredRewrite) > 0 {
		return string(plan.StructuredRewrite)
	}
	return plan.Content
}

type lessonHistory struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Curriculum planbook.Curriculum `json:"curriculum"`
	Status     planbook.Status     `json:"status"`
}

type studentHistory struct {
	Name   string    `json:"name"`
	Grade  string    `json:"grade"`
	Tier   int       `json:"tier"`
	Scores []float64 `json:"scores"`
	Latest string    `json:"latestBand"`
	ELL    bool      `json:"ell,omitempty"`
	IEP    bool      `json:"iep,omitempty"`
}

type growthContext struct {
	Summary  progress.RosterSummary `json:"rosterSummary"`
	Lessons  []lessonHistory        `json:"lessons"`
	Students []studentHistory       `json:"students"`
}

// GrowthTrendRequest asks for a trend analysis over the lesson catalog and
// roster snapshots.
func GrowthTrendRequest(plans []planbook.LessonPlan, students []roster.Student, flags Flags) Request {
	gc := growthContext{
		Summary:  progress.Summarize(students),
		Lessons:  make([]lessonHistory, 0, len(plans)),
		Students: make([]studentHistory, 0, len(students)),
	}
	for _, p := range plans {
		gc.Lessons = append(gc.Lessons, lessonHistory{ID: p.ID, Title: p.Title, Curriculum: p.Curriculum, Status: p.Status})
	}
	for _, s := range students {
		latest := "no data"
		if band, ok := progress.LatestBand(s.Scores); ok {
			latest = band.String()
		}
		gc.Students = append(gc.Students, studentHistory{
			Name:   s.Name,
			Grade:  s.Grade,
			Tier:   int(s.Tier),
			Scores: append(make([]float64, 0, len(s.Scores)), s.Scores...),
			Latest: latest,
			ELL:    s.IsELL,
			IEP:    s.HasIEP(),
		})
	}
	return Request{
		Kind:    KindGrowthTrend,
		Context: "Analyze history.\n" + toJSON(gc),
		Flags:   flags,
	}
}

// ExitTicketRequest asks for exit ticket photos to be scored and matched
// to the named students.
func ExitTicketRequest(images []Attachment, studentNames []string, flags Flags) Request {
	ctx := fmt.Sprintf("Analyze the %d attached exit ticket images. Match them to students: %s.",
		len(images), strings.Join(studentNames, ", "))
	return Request{
		Kind:        KindExitTickets,
		Context:     ctx,
		Attachments: images,
		Flags:       flags,
	}
}

// ReflectionRequest asks for a synthesis of an observation and an exit
// ticket analysis. Either may be nil.
func ReflectionRequest(obs *ObservationAnalysis, tickets *ExitTicketAnalysis, flags Flags) Request {
	var b strings.Builder
	b.WriteString("Synthesize results.\n")
	fmt.Fprintf(&b, "Observation: %s\n", toJSON(obs))
	fmt.Fprintf(&b, "Exit tickets: %s\n", toJSON(tickets))
	return Request{Kind: KindReflection, Context: b.String(), Flags: flags}
}

// toJSON encodes plain data structs, which cannot fail to marshal.
func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
