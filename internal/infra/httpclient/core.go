package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/vibhusapra/phoenix/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// CoreClient is the HTTP client for the Phoenix core service that owns the span filter grammar.
type CoreClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewCoreClient creates a new CoreClient
func NewCoreClient(cfg *config.Config, log *zap.Logger) *CoreClient {
	return &CoreClient{
		BaseURL: strings.TrimRight(cfg.Core.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   cfg.Core.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: log,
	}
}

// SpanFilterValidateRequest is the body of the span_filter/validate endpoint
type SpanFilterValidateRequest struct {
	Condition string `json:"condition"`
}

// SpanFilterValidation is the verdict of the span_filter/validate endpoint
type SpanFilterValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorMessage *string `json:"error_message"`
}

// ValidateSpanFilter asks the core service whether condition is a valid span filter in the project.
func (c *CoreClient) ValidateSpanFilter(ctx context.Context, projectID int64, condition string) (*SpanFilterValidation, error) {
	endpoint := fmt.Sprintf("%s/api/v1/project/%d/span_filter/validate", c.BaseURL, projectID)

	body, err := sonic.Marshal(SpanFilterValidateRequest{Condition: condition})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Logger.Error("span_filter_validate request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result SpanFilterValidation
	if err := sonic.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &result, nil
}
