package report

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/router"
)

func TestReportScreen_RendersVariant(t *testing.T) {
	s := New(&coaching.LessonCritique{
		Rating:      "Proficient",
		Strengths:   []string{"Clear objective"},
		Suggestions: []string{"Add a CFU"},
	})
	assert.Equal(t, "Lesson Critique", s.Title())

	view := s.View(100, 30)
	assert.Contains(t, view, "Clear objective")
	assert.Contains(t, view, "Add a CFU")
}

func TestReportScreen_Failed(t *testing.T) {
	s := New(coaching.Failed{Kind: coaching.KindObservation})
	assert.Equal(t, "Observation Analysis", s.Title())
	assert.Contains(t, s.View(100, 30), "Analysis failed.")
}

func TestReportScreen_EscPops(t *testing.T) {
	s := New(coaching.Failed{Kind: coaching.KindGrowthTrend})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestReportScreen_KeyHints(t *testing.T) {
	assert.Len(t, New(coaching.Failed{}).KeyHints(), 3)
}
