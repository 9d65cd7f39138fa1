// Package api implements the HTTP client for the documentation-assistant
// service: session management, chat, and history maintenance.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 60 * time.Second
)

// Client talks to the documentation-assistant service
type Client struct {
	options    ClientOptions
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*Client, error) {
	options := ClientOptions{
		BaseURL: defaultBaseURL,
		Timeout: defaultTimeout,
		Headers: make(map[string]string),
	}

	// Apply options
	for _, opt := range opts {
		opt(&options)
	}

	// Fall back to environment for the API key; the service may run without one
	if options.APIKey == "" {
		options.APIKey = os.Getenv("DOCCHAT_API_KEY")
	}

	options.BaseURL = strings.TrimSuffix(options.BaseURL, "/")

	return &Client{
		options: options,
		httpClient: &http.Client{
			Timeout: options.Timeout,
		},
	}, nil
}

// CreateSession creates a new session on the service
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	var envelope sessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/sessions", req, &envelope); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if envelope.Session == nil {
		return nil, fmt.Errorf("create session response missing session object")
	}
	return envelope.Session, nil
}

// GetSession fetches the full session detail, including its stored history
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var envelope sessionEnvelope
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	if envelope.Session == nil {
		return nil, fmt.Errorf("get session response missing session object")
	}
	return envelope.Session, nil
}

// ListSessions fetches the sessions visible for the given owner and status
// filters. Either filter may be empty. The service returns the list sorted by
// descending last-accessed-at.
func (c *Client) ListSessions(ctx context.Context, owner, status string) ([]Session, int, error) {
	path := "/sessions"
	query := url.Values{}
	if owner != "" {
		query.Set("owner", owner)
	}
	if status != "" {
		query.Set("status", status)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result ListSessionsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return result.Sessions, result.Total, nil
}

// SendMessage posts a chat message with its trailing conversation window
func (c *Client) SendMessage(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	var result ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &result); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &result, nil
}

// ClearHistory deletes the stored history of a session and returns the
// updated session
func (c *Client) ClearHistory(ctx context.Context, id string) (*Session, error) {
	var envelope sessionEnvelope
	if err := c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id)+"/history", nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to clear history for session %s: %w", id, err)
	}
	if envelope.Session == nil {
		return nil, fmt.Errorf("clear history response missing session object")
	}
	return envelope.Session, nil
}

// do executes a single JSON request against the service
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.options.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			if errResp.Detail != "" {
				return &StatusError{Code: resp.StatusCode, Message: errResp.Detail}
			}
			if errResp.Error != "" {
				return &StatusError{Code: resp.StatusCode, Message: errResp.Error}
			}
		}
		return &StatusError{Code: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// setHeaders sets common request headers
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.options.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.options.APIKey)
	}
	for k, v := range c.options.Headers {
		req.Header.Set(k, v)
	}
}

// StatusError is a non-success response from the service
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service error [%d]: %s", e.Code, e.Message)
}
