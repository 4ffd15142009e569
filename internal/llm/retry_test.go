package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okCritique = json.RawMessage(`{"rating":"Proficient"}`)

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestRetry_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "first attempt succeeds",
			attempts:  3,
			responses: []MockResponse{{Content: okCritique}},
			wantCalls: 1,
		},
		{
			name:      "transient then success",
			attempts:  3,
			responses: []MockResponse{down(), {Content: okCritique}},
			wantCalls: 2,
		},
		{
			name:      "all attempts fail",
			attempts:  3,
			responses: []MockResponse{down(), down(), down()},
			wantErr:   true,
			wantCalls: 3,
		},
		{
			name:      "single attempt budget never retries",
			attempts:  1,
			responses: []MockResponse{down(), {Content: okCritique}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "zero budget behaves as one attempt",
			attempts:  0,
			responses: []MockResponse{{Content: okCritique}},
			wantCalls: 1,
		},
		{
			name:      "max tokens is permanent",
			attempts:  3,
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: okCritique}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "unsupported attachment is permanent",
			attempts:  3,
			responses: []MockResponse{{Err: &ErrUnsupportedAttachment{Provider: "openai", MIMEType: "audio/mpeg"}}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:     "invalid response retried once",
			attempts: 5,
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("missing rating")}},
				{Err: &ErrInvalidResponse{Err: errors.New("missing rating")}},
				{Content: okCritique},
			},
			wantErr:   true,
			wantCalls: 2,
		},
		{
			name:      "rate limit honours retry-after",
			attempts:  3,
			responses: []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, {Content: okCritique}},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry(tt.attempts))

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, string(okCritique), string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_CancelledContextStopsBackoff(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: okCritique})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(&ErrMaxTokensExceeded{}))
	assert.False(t, Retryable(&ErrUnsupportedAttachment{}))
	assert.True(t, Retryable(&ErrRateLimit{}))
	assert.True(t, Retryable(&ErrInvalidResponse{}))
	assert.True(t, Retryable(errors.New("connection reset")))
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry(2))
	assert.Equal(t, "mock", p.ModelID())
}
