package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latestServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/eduelevate/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheck(t *testing.T) {
	body := `{"tag_name":"v1.2.0","html_url":"https://example.com/v1.2.0"}`

	tests := []struct {
		name      string
		current   string
		available bool
	}{
		{"older", "v1.1.9", true},
		{"same", "v1.2.0", false},
		{"newer", "v1.3.0", false},
		{"missing v prefix", "1.0.0", true},
		{"dev build", "(devel)", false},
	}

	server := latestServer(t, body, http.StatusOK)
	checker := NewChecker(WithBaseURL(server.URL))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := checker.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.available, res.UpdateAvailable)
			assert.Equal(t, "v1.2.0", res.LatestVersion)
			assert.Equal(t, "https://example.com/v1.2.0", res.ReleaseURL)
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		server := latestServer(t, "", http.StatusInternalServerError)
		_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 500")
	})

	t.Run("bad tag", func(t *testing.T) {
		server := latestServer(t, `{"tag_name":"nightly"}`, http.StatusOK)
		_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a semantic version")
	})

	t.Run("bad json", func(t *testing.T) {
		server := latestServer(t, `{`, http.StatusOK)
		_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode release")
	})
}

func TestNewChecker_Options(t *testing.T) {
	c := NewChecker(WithRepository("school", "coach"), WithTimeout(time.Minute))
	assert.Equal(t, "school", c.owner)
	assert.Equal(t, "coach", c.repo)
	assert.Equal(t, time.Minute, c.client.Timeout)
	assert.Equal(t, defaultDownloadBaseURL, c.downloadBaseURL)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "v1.2.0", canonical("1.2"))
	assert.Equal(t, "v2.0.0", canonical(" v2.0.0 "))
	assert.Empty(t, canonical("(devel)"))
	assert.Empty(t, canonical(""))
}
