package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/store"
)

type fakeRepo struct {
	events []store.LLMRequestEvent
	usage  []store.PurposeUsage
	err    error
	limit  int
}

func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }
func (f *fakeRepo) QueryLLMEvents(_ context.Context, opts store.QueryOpts) ([]store.LLMRequestEvent, error) {
	f.limit = opts.Limit
	return f.events, f.err
}
func (f *fakeRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) { return nil, nil }
func (f *fakeRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return f.usage, nil
}
func (f *fakeRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func sampleEvents() []store.LLMRequestEvent {
	return []store.LLMRequestEvent{
		{ID: 2, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "lesson_critique",
			InputTokens: 1000, OutputTokens: 200, LatencyMs: 900, Success: true,
		}},
		{ID: 1, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "observation",
			Success: false, ErrorMessage: "rate limited",
		}},
	}
}

func load(t *testing.T, s *ActivityScreen) {
	t.Helper()
	msg := s.Init()()
	s.Update(msg)
}

func TestActivityScreen_LoadsEvents(t *testing.T) {
	repo := &fakeRepo{
		events: sampleEvents(),
		usage:  []store.PurposeUsage{{Purpose: "lesson_critique", Calls: 1}},
	}
	s := New(repo)
	assert.Contains(t, s.View(120, 30), "Loading")

	load(t, s)
	assert.Equal(t, pageSize, repo.limit)

	view := s.View(120, 30)
	assert.Contains(t, view, "Lesson Critique")
	assert.Contains(t, view, "Observation Analysis")
	assert.Contains(t, view, "fail")
}

func TestActivityScreen_ExpandShowsError(t *testing.T) {
	s := New(&fakeRepo{events: sampleEvents()})
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(120, 30), "error: rate limited")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected, "selection stops at the last row")
}

func TestActivityScreen_Empty(t *testing.T) {
	s := New(&fakeRepo{})
	load(t, s)
	assert.Contains(t, s.View(120, 30), "No model calls yet")
}

func TestActivityScreen_Error(t *testing.T) {
	s := New(&fakeRepo{err: errors.New("db locked")})
	load(t, s)
	assert.Contains(t, s.View(120, 30), "db locked")
}

func TestActivityScreen_EscPops(t *testing.T) {
	s := New(&fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
}

func TestDetails_IncludesCost(t *testing.T) {
	lines := details(sampleEvents()[0])
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "est. cost $")
}
