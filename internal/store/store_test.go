package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.DB())
	require.NoError(t, s.DB().Ping())
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var got string
			require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "lesson_critique", Success: true,
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestWithPragmas(t *testing.T) {
	assert.Contains(t, withPragmas("/tmp/x.db"), "file:/tmp/x.db?_pragma=")
	assert.Contains(t, withPragmas("file:x.db?mode=rwc"), "file:x.db?mode=rwc&_pragma=")
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "my.db")
		t.Setenv("ELEVATE_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Dir(want))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("ELEVATE_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "eduelevate", "events.db"), got)
	})
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "lesson_critique", InputTokens: 100, OutputTokens: 40, LatencyMs: 900, Success: true, RequestBody: `{"system":"x"}`, ResponseBody: `{"score":7}`},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "observation", InputTokens: 300, LatencyMs: 2000, Success: false, ErrorMessage: "rate limited"},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "lesson_critique", InputTokens: 120, OutputTokens: 60, LatencyMs: 1100, Success: true},
	}
	for _, in := range inputs {
		require.NoError(t, repo.AppendLLMRequest(ctx, in))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, "anthropic", events[0].Provider)
	assert.Equal(t, "observation", events[1].Purpose)
	assert.False(t, events[1].Success)
	assert.Equal(t, "rate limited", events[1].ErrorMessage)
	assert.Equal(t, `{"score":7}`, events[2].ResponseBody)
	assert.Greater(t, events[0].ID, events[1].ID)
	assert.WithinDuration(t, time.Now(), events[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	critiques, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "lesson_critique"})
	require.NoError(t, err)
	assert.Len(t, critiques, 2)

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o", Purpose: "growth_trend", Success: true,
		RequestBody: "req", ResponseBody: "resp",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "growth_trend", got.Purpose)
	assert.Equal(t, "req", got.RequestBody)
	assert.Equal(t, "resp", got.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, events[0].ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregation(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, in := range []LLMRequestEventData{
		{Model: "m1", Purpose: "lesson_critique", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Model: "m1", Purpose: "lesson_critique", InputTokens: 20, OutputTokens: 15, LatencyMs: 300, Success: false},
		{Model: "m2", Purpose: "observation", InputTokens: 7, OutputTokens: 3, LatencyMs: 50, Success: true},
	} {
		in.Provider = "mock"
		require.NoError(t, repo.AppendLLMRequest(ctx, in))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{
		Purpose: "lesson_critique", Calls: 2, Failures: 1,
		InputTokens: 30, OutputTokens: 20, AvgLatencyMs: 200,
	}, byPurpose[0])
	assert.Equal(t, "observation", byPurpose[1].Purpose)
	assert.Equal(t, 0, byPurpose[1].Failures)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "m1", Calls: 2, InputTokens: 30, OutputTokens: 20}, byModel[0])
	assert.Equal(t, ModelUsage{Model: "m2", Calls: 1, InputTokens: 7, OutputTokens: 3}, byModel[1])
}

func TestUsageOnEmptyStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Empty(t, byPurpose)

	byModel, err := s.EventRepo().LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Empty(t, byModel)
}
