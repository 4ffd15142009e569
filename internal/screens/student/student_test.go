package student

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/router"
)

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(s *ProgressScreen, text string) {
	for _, r := range text {
		s.Update(char(r))
	}
}

func newTestProgress(t *testing.T, scores ...float64) (*roster.Store, string, *ProgressScreen) {
	t.Helper()
	store := roster.NewStore()
	st, ok := store.AddStudent(roster.Draft{Name: "Ben", IsELL: true})
	require.True(t, ok)
	for _, v := range scores {
		require.True(t, store.AppendScoreValue(st.ID, v))
	}
	return store, st.ID, New(store, st.ID)
}

func TestProgress_InsufficientData(t *testing.T) {
	_, _, s := newTestProgress(t, 72)
	view := s.View(100, 30)
	assert.Contains(t, view, InsufficientData)
	assert.Contains(t, view, "Assessment 1")
	assert.Contains(t, view, "Approaching")
	assert.Contains(t, view, "ELL")
}

func TestProgress_TrendWithTwoScores(t *testing.T) {
	_, _, s := newTestProgress(t, 55, 85)
	view := s.View(100, 30)
	assert.NotContains(t, view, InsufficientData)
	assert.Contains(t, view, "+30.0 since first")
	assert.Contains(t, view, "Mastery")
	assert.Contains(t, view, "Needs Intervention")
}

func TestProgress_RecordScore(t *testing.T) {
	store, id, s := newTestProgress(t)
	s.Update(char('s'))
	require.True(t, s.entering)

	typeText(s, "91.5")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, s.entering)

	st, _ := store.Get(id)
	assert.Equal(t, []float64{91.5}, st.Scores)
}

func TestProgress_RejectsMalformedScore(t *testing.T) {
	store, id, s := newTestProgress(t)
	s.Update(char('s'))
	typeText(s, "9..1")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.True(t, s.entering, "stays in entry mode")
	st, _ := store.Get(id)
	assert.Empty(t, st.Scores)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, s.entering)
}

func TestProgress_CycleTier(t *testing.T) {
	store, id, s := newTestProgress(t)
	s.Update(char('t'))
	s.Update(char('t'))
	st, _ := store.Get(id)
	assert.Equal(t, roster.Tier3, st.Tier)
}

func TestProgress_EditProfilePushes(t *testing.T) {
	_, _, s := newTestProgress(t)
	_, cmd := s.Update(char('e'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Profile · Ben", push.Screen.Title())
}
