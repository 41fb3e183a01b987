package eoldates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tooltime/tooltime/eoldates"
	"github.com/tooltime/tooltime/types"
)

const nodejsCycles = `[
  {"cycle": "23", "releaseDate": "2024-10-16", "eol": "2025-06-01", "latest": "23.3.0", "lts": false, "support": "2025-04-01"},
  {"cycle": "22", "releaseDate": "2024-04-24", "eol": "2027-04-30", "latest": "22.12.0", "lts": "2024-10-29", "support": "2025-10-21"},
  "garbage",
  {"cycle": "0.10", "releaseDate": "2013-03-11", "eol": true, "latest": "0.10.48"}
]`

func Test_Fetch(t *testing.T) {
	tests := []struct {
		name       string
		product    string
		body       string
		status     int
		wantCycles []string
		wantErr    string
	}{
		{
			name:       "happy path",
			product:    "nodejs",
			body:       nodejsCycles,
			status:     http.StatusOK,
			wantCycles: []string{"23", "22", "0.10"},
		},
		{
			name:    "sad path - unknown product",
			product: "unknown",
			status:  http.StatusNotFound,
			wantErr: "status code: 404",
		},
		{
			name:    "sad path - unable to unmarshal JSON",
			product: "nodejs",
			body:    `{"cycle": "23"}`,
			status:  http.StatusOK,
			wantErr: "unable to parse JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/"+tt.product+".json", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := eoldates.NewConfig(eoldates.WithURL(server.URL))
			got, err := c.Fetch(tt.product)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var cycles []string
			for _, r := range got {
				cycles = append(cycles, r.Cycle)
			}
			assert.Equal(t, tt.wantCycles, cycles)
		})
	}
}

func TestParseCycles(t *testing.T) {
	got, err := eoldates.ParseCycles([]byte(nodejsCycles))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, types.Dated, got[0].EOL.Kind)
	assert.False(t, got[0].LTS)
	assert.Equal(t, "23.3.0", got[0].Latest)

	assert.True(t, got[1].LTS)
	assert.Equal(t, "2027-04-30", got[1].EOL.String())

	assert.Equal(t, types.Unknown, got[2].EOL.Kind)
	assert.True(t, got[2].EOL.Declared())
}
