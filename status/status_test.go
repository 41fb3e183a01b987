package status_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tooltime/tooltime/status"
)

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		body          string
		wantReachable bool
		wantIndicator string
	}{
		{
			name:       "statuspage indicator",
			statusCode: http.StatusOK,
			body: `<html><head><title>OpenAI Status</title></head><body>
<div class="page-status status-none"><span class="status font-large">
  All Systems Operational
</span></div></body></html>`,
			wantReachable: true,
			wantIndicator: "All Systems Operational",
		},
		{
			name:          "title fallback",
			statusCode:    http.StatusOK,
			body:          `<html><head><title> Google Cloud Service Health </title></head><body></body></html>`,
			wantReachable: true,
			wantIndicator: "Google Cloud Service Health",
		},
		{
			name:          "non-200 success status",
			statusCode:    http.StatusNonAuthoritativeInfo,
			body:          `<html><head><title>Axiom Status</title></head></html>`,
			wantReachable: true,
			wantIndicator: "Axiom Status",
		},
		{
			name:       "server error",
			statusCode: http.StatusServiceUnavailable,
			body:       "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			got := status.NewChecker().Check(ts.URL)
			assert.Equal(t, ts.URL, got.URL)
			assert.Equal(t, tt.wantReachable, got.Reachable)
			assert.Equal(t, tt.wantIndicator, got.Indicator)
		})
	}
}

func TestChecker_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	got := status.NewChecker().Check(url)
	assert.False(t, got.Reachable)
	assert.Empty(t, got.Indicator)
}
