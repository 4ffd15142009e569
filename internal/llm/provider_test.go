package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp1.Content))
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(resp2.Content))
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})

	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	require.Equal(t, 1, mock.CallCount())
	last, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "sys", last.System)
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"talkRatio":"high"}`)})

	_, err := mock.Generate(context.Background(), Request{Schema: talkBalanceSchema(false)})
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
}

func TestMockProvider_DelayRespectsContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockProvider_ModelID(t *testing.T) {
	assert.Equal(t, "mock", NewMockProvider().ModelID())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, UnknownPurpose, PurposeFrom(ctx))

	ctx = WithPurpose(ctx, "lesson_critique")
	assert.Equal(t, "lesson_critique", PurposeFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	withDefaults := func(c Config) Config {
		d := DefaultConfig()
		d.Provider = c.Provider
		d.Anthropic.APIKey = c.Anthropic.APIKey
		d.OpenAI.APIKey = c.OpenAI.APIKey
		d.Gemini.APIKey = c.Gemini.APIKey
		d.OpenRouter.APIKey = c.OpenRouter.APIKey
		return d
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", withDefaults(Config{Provider: ProviderAnthropic}), true},
		{"anthropic with key", withDefaults(Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}), false},
		{"openai without key", withDefaults(Config{Provider: ProviderOpenAI}), true},
		{"openai with key", withDefaults(Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk-test"}}), false},
		{"gemini without key", withDefaults(Config{Provider: ProviderGemini}), true},
		{"gemini with key", withDefaults(Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}), false},
		{"openrouter without key", withDefaults(Config{Provider: ProviderOpenRouter}), true},
		{"mock needs no key", withDefaults(Config{Provider: ProviderMock}), false},
		{"unknown provider", withDefaults(Config{Provider: "unknown"}), true},
		{"zero attempts", Config{Provider: ProviderMock}, true},
		{"negative timeout", Config{Provider: ProviderMock, Timeout: -time.Second, Retry: RetryConfig{MaxAttempts: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ELEVATE_LLM_PROVIDER", "ELEVATE_LLM_TIMEOUT", "ELEVATE_LLM_MAX_ATTEMPTS",
		"ELEVATE_GEMINI_API_KEY", "ELEVATE_GEMINI_MODEL",
		"ELEVATE_ANTHROPIC_API_KEY", "ELEVATE_ANTHROPIC_MODEL",
		"ELEVATE_OPENAI_API_KEY", "ELEVATE_OPENAI_MODEL", "ELEVATE_OPENAI_BASE_URL",
		"ELEVATE_OPENROUTER_API_KEY", "ELEVATE_OPENROUTER_MODEL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ELEVATE_LLM_PROVIDER", "anthropic")
	t.Setenv("ELEVATE_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("ELEVATE_ANTHROPIC_MODEL", "claude-haiku")
	t.Setenv("ELEVATE_LLM_TIMEOUT", "30s")
	t.Setenv("ELEVATE_LLM_MAX_ATTEMPTS", "3")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts, "coaching requests are never retried")
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model, "untouched defaults survive")
}

func TestConfigFromEnv_Malformed(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ELEVATE_LLM_TIMEOUT", "soon")
	_, err := ConfigFromEnv()
	assert.ErrorContains(t, err, "ELEVATE_LLM_TIMEOUT")

	t.Setenv("ELEVATE_LLM_TIMEOUT", "")
	t.Setenv("ELEVATE_LLM_MAX_ATTEMPTS", "many")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
}

func TestLoadConfig(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		clearLLMEnv(t)
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("discovery order prefers gemini", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("ELEVATE_LLM_TIMEOUT", "5s")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.Provider)
		assert.Equal(t, "g-key", cfg.Gemini.APIKey)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("explicit provider wins", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("ELEVATE_LLM_PROVIDER", "mock")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderMock, cfg.Provider)
	})

	t.Run("explicit provider without key", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("ELEVATE_LLM_PROVIDER", "openai")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "ELEVATE_OPENAI_API_KEY")
	})
}

type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func TestWithLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	p := WithLogging(mock, ProviderMock, repo)

	ctx := WithPurpose(context.Background(), "observation")
	_, err := p.Generate(ctx, Request{
		System: "be brief",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "transcript",
			Attachments: []Attachment{{MIMEType: "audio/mpeg", Data: "AAAA"}},
		}},
	})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, ProviderMock, ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "observation", ev.Purpose)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 4, ev.OutputTokens)
	assert.True(t, ev.Success)
	assert.Contains(t, ev.RequestBody, "[system]\nbe brief")
	assert.Contains(t, ev.RequestBody, "[attachment: audio/mpeg, 3 bytes]")
	assert.NotContains(t, ev.RequestBody, "AAAA")
	assert.Equal(t, `{"ok":true}`, ev.ResponseBody)
}

func TestWithLogging_RecordsFailureAndSurvivesRepoError(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}), ProviderMock, repo)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Equal(t, UnknownPurpose, repo.events[0].Purpose)
	assert.NotEmpty(t, repo.events[0].ErrorMessage)
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock

	p, err := NewProvider(context.Background(), cfg, &recordingRepo{})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "nope"}, nil)
	assert.Error(t, err)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	require.NotNil(t, c)
	assert.InDelta(t, 0.3+2.5, c.Cost(1_000_000, 1_000_000), 1e-9)

	assert.NotNil(t, LookupCost("google/gemini-2.5-flash"))
	assert.Nil(t, LookupCost("acme/unknown-model"))
}
