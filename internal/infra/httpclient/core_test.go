package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibhusapra/phoenix/internal/config"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *CoreClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCoreClient(&config.Config{Core: config.CoreCfg{BaseURL: srv.URL + "/"}}, zap.NewNop())
}

func TestCoreClient_ValidateSpanFilter(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantValid bool
		wantMsg   string
		wantErr   bool
	}{
		{
			name:      "valid condition",
			status:    http.StatusOK,
			body:      `{"is_valid":true,"error_message":null}`,
			wantValid: true,
		},
		{
			name:    "invalid condition",
			status:  http.StatusOK,
			body:    `{"is_valid":false,"error_message":"unknown attribute spam"}`,
			wantMsg: "unknown attribute spam",
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"is_valid":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/project/7/span_filter/validate", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				raw, _ := io.ReadAll(r.Body)
				var req SpanFilterValidateRequest
				assert.NoError(t, sonic.Unmarshal(raw, &req))
				assert.Equal(t, `span_kind = "LLM"`, req.Condition)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.ValidateSpanFilter(context.Background(), 7, `span_kind = "LLM"`)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, got.IsValid)
			if tt.wantMsg != "" {
				require.NotNil(t, got.ErrorMessage)
				assert.Equal(t, tt.wantMsg, *got.ErrorMessage)
			} else {
				assert.Nil(t, got.ErrorMessage)
			}
		})
	}
}
