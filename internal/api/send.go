package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatview/internal/errors"
	"github.com/diogo/chatview/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// Send posts text to the chat endpoint and returns the reply text.
// Every failure after the request is built is a *errors.RequestError.
func (c *Client) Send(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apierrors.ErrEmptyMessage
	}
	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(models.ChatRequest{Message: text})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.Debug("chat request sent", "endpoint", c.endpoint, "bytes", len(body))

	reply, status, err := c.do(ctx, req)
	attrs := []any{"endpoint", c.endpoint, "status", status, "duration", time.Since(start).Round(time.Millisecond)}
	if err != nil {
		c.logger.Warn("chat request failed", append(attrs, "kind", apierrors.KindOf(err).String(), "error", err)...)
		return "", err
	}
	c.logger.Info("chat request settled", append(attrs, "reply_bytes", len(reply))...)
	return reply, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (string, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, c.transportError(ctx, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.Body == nil {
		return "", resp.StatusCode, apierrors.NewParseError(c.endpoint, "empty response body")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, models.MaxResponseBytes+1))
	if err != nil {
		return "", resp.StatusCode, c.transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		if snippet == "" {
			snippet = http.StatusText(resp.StatusCode)
		}
		return "", resp.StatusCode, apierrors.NewStatusError(resp.StatusCode, c.endpoint, snippet)
	}

	if len(data) > models.MaxResponseBytes {
		return "", resp.StatusCode, apierrors.NewParseError(c.endpoint, "response body too large")
	}

	reply, err := parseResponse(c.endpoint, data)
	return reply, resp.StatusCode, err
}

// transportError classifies a failure to obtain or read a response.
func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(c.endpoint, err)
	}
	return apierrors.NewNetworkError(c.endpoint, err)
}

// parseResponse extracts the "response" string from a chat response body.
func parseResponse(endpoint string, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError(endpoint, "response is not valid JSON")
	}

	result := gjson.GetBytes(body, "response")
	if !result.Exists() {
		return "", apierrors.NewParseError(endpoint, "response field missing")
	}
	if result.Type != gjson.String {
		return "", apierrors.NewParseError(endpoint, fmt.Sprintf("response field is %s, not a string", result.Type))
	}

	return result.String(), nil
}
