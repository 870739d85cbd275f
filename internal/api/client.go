package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/session"
)

// Backend endpoints, relative to the base URL.
const (
	EndpointUpload   = "/api/upload_photo"
	EndpointFast     = "/api/analyze_cv"
	EndpointLLM      = "/api/llm_analyze_cv"
	EndpointSave     = "/api/cv"
	EndpointGenerate = "/api/generate_cv"
	EndpointRegister = "/api/auth/register"
	EndpointLogin    = "/api/auth/login"
	EndpointMe       = "/api/auth/me"
	EndpointMyCVs    = "/api/cvs"
	EndpointStatus   = "/api/status"
)

// Client talks to the résumé backend. It injects the session's bearer token
// into every request and normalises failures into the model error types.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	session        *session.Session
	onUnauthorized func()
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUnauthorizedHandler registers fn to run after a 401 has cleared the
// session. The shell uses it to route back to the sign-in screen.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, httpClient *http.Client, sess *session.Session, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		session:    sess,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the session the client authorises with.
func (c *Client) Session() *session.Session { return c.session }

// Logout clears the session locally; the backend keeps no server-side state.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// do sends one request. A transport failure becomes *model.NetworkError and a
// 401 clears the session and becomes model.ErrUnauthorized; any other status
// is left for the caller to interpret.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.session.Authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		c.logger.Error("backend unreachable", "method", method, "path", path, "error", err)
		return nil, &model.NetworkError{Err: err}
	}

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.unauthorized()
		return nil, model.ErrUnauthorized
	}
	return resp, nil
}

func (c *Client) unauthorized() {
	if err := c.session.Clear(); err != nil {
		c.logger.Warn("failed to clear expired session", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// doJSON marshals in (when non-nil), sends it, and decodes the response into out
// (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	data, err := readBody(resp)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readBody reads and closes resp.Body, returning an error for non-2xx statuses.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromBody(resp.StatusCode, data)
	}
	return data, nil
}

// errorFromBody turns a failed response into a DomainError when the backend
// explained itself (FastAPI "detail", or "message"), else a RequestError.
func errorFromBody(status int, body []byte) error {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &model.RequestError{StatusCode: status}
	}
	if msg := detailMessage(payload.Detail); msg != "" {
		return &model.DomainError{StatusCode: status, Message: msg}
	}
	if payload.Message != "" {
		return &model.DomainError{StatusCode: status, Message: payload.Message}
	}
	return &model.RequestError{StatusCode: status}
}

// detailMessage renders a FastAPI detail, which is a string for HTTPException
// and a list of objects for request validation failures.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}
	return string(raw)
}
