package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
)

type fakeCoach struct {
	reports []coaching.Report
	got     []coaching.Request
}

func (f *fakeCoach) Submit(_ context.Context, req coaching.Request) coaching.Report {
	f.got = append(f.got, req)
	r := f.reports[0]
	f.reports = f.reports[1:]
	return r
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliver(t *testing.T, s *AuditScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	for _, m := range runCmd(cmd) {
		if rm, ok := m.(screen.ReportMsg); ok {
			_, next := s.Update(rm)
			return next
		}
	}
	t.Fatal("no coaching result produced")
	return nil
}

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func observation() *coaching.ObservationAnalysis {
	return &coaching.ObservationAnalysis{
		AlignmentSummary: coaching.AlignmentSummary{Level: "Proficient", Strength: "Warm open", Growth: "Wait time"},
		TalkBalance:      coaching.TalkBalance{TeacherPercentage: 70, StudentPercentage: 30},
	}
}

func newTestAudit(c *fakeCoach) *AuditScreen {
	r := roster.NewStore()
	r.AddStudent(roster.Draft{Name: "Ada"})
	return New(screen.Deps{
		Roster:   r,
		Catalog:  planbook.NewCatalog(planbook.Seed()...),
		Coach:    c,
		Settings: &screen.Settings{},
	})
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAudit_ObservationFromRecording(t *testing.T) {
	c := &fakeCoach{reports: []coaching.Report{observation()}}
	s := newTestAudit(c)
	s.Update(enter)
	require.Equal(t, phaseForm, s.phase)

	s.form.SetValue(fieldRecording, writeFile(t, "lesson.m4a", []byte("audio")))
	_, cmd := s.Update(enter)
	require.Equal(t, phaseWorking, s.phase)
	deliver(t, s, cmd)

	require.Equal(t, phaseObserved, s.phase)
	require.Len(t, c.got, 1)
	assert.Equal(t, coaching.KindObservation, c.got[0].Kind)
	require.Len(t, c.got[0].Attachments, 1)
	assert.Equal(t, "audio/mp4", c.got[0].Attachments[0].MIMEType)

	view := s.View(100, 30)
	assert.Contains(t, view, "Alignment: Proficient")
	assert.Contains(t, view, "teacher 70%")
}

func TestAudit_NeedsRecordingOrTranscript(t *testing.T) {
	c := &fakeCoach{}
	s := newTestAudit(c)
	s.Update(enter)

	_, cmd := s.Update(enter)
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 30), "Provide a recording or a transcript")
	assert.Empty(t, c.got)
}

func TestAudit_FailureReturnsToForm(t *testing.T) {
	c := &fakeCoach{reports: []coaching.Report{coaching.Failed{Kind: coaching.KindObservation}}}
	s := newTestAudit(c)
	s.Update(enter)
	s.form.SetValue(fieldTranscript, "T: Good morning")

	_, cmd := s.Update(enter)
	deliver(t, s, cmd)

	assert.Equal(t, phaseForm, s.phase)
	assert.Equal(t, "T: Good morning", s.form.Value(fieldTranscript))
	assert.Contains(t, s.View(100, 30), "Analysis failed.")
}

func TestAudit_ExitTicketsThenReflection(t *testing.T) {
	tickets := &coaching.ExitTicketAnalysis{StudentData: []coaching.TicketResult{{Name: "Ada", Score: 90}}}
	reflection := &coaching.ReflectionReport{}
	c := &fakeCoach{reports: []coaching.Report{observation(), tickets, reflection}}
	s := newTestAudit(c)
	s.Update(enter)
	s.form.SetValue(fieldTranscript, "T: Turn and talk")
	_, cmd := s.Update(enter)
	deliver(t, s, cmd)

	s.Update(char('x'))
	require.Equal(t, phaseTickets, s.phase)
	s.paths.SetValue(writeFile(t, "t1.png", []byte("\x89PNG\r\n\x1a\n")) + ", ")
	_, cmd = s.Update(enter)
	next := deliver(t, s, cmd)

	require.NotNil(t, next)
	push, ok := next().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Exit Ticket Analysis", push.Screen.Title())
	assert.Equal(t, phaseObserved, s.phase)
	assert.Contains(t, c.got[1].Context, "Ada")
	assert.Len(t, c.got[1].Attachments, 1)

	_, cmd = s.Update(char('f'))
	next = deliver(t, s, cmd)
	require.NotNil(t, next)
	assert.Equal(t, coaching.KindReflection, c.got[2].Kind)
	assert.Contains(t, c.got[2].Context, `"Ada"`)
}

func TestAudit_TicketPathsRequired(t *testing.T) {
	c := &fakeCoach{reports: []coaching.Report{observation()}}
	s := newTestAudit(c)
	s.Update(enter)
	s.form.SetValue(fieldTranscript, "T: hello")
	_, cmd := s.Update(enter)
	deliver(t, s, cmd)

	s.Update(char('x'))
	_, cmd = s.Update(enter)
	assert.Nil(t, cmd)
	assert.Equal(t, phaseTickets, s.phase)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, phaseObserved, s.phase)
}

func TestAudit_CancelDropsLateResult(t *testing.T) {
	c := &fakeCoach{reports: []coaching.Report{observation()}}
	s := newTestAudit(c)
	s.Update(enter)
	s.form.SetValue(fieldTranscript, "T: hello")
	_, cmd := s.Update(enter)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.Equal(t, phaseForm, s.phase)
	deliver(t, s, cmd)
	assert.Nil(t, s.obs)
}
