// ABOUTME: REST client for the rulings backend, one typed method per endpoint.
// ABOUTME: Non-2xx responses decode the server's JSON error array and surface exactly its first message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is a failed API call: the HTTP status and the human-readable message
// provided by the server as the first element of its error array.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// Client talks to the rulings REST API. All methods take a context and return
// the server's authoritative entity; delete and restore calls return nil when
// the server replies with an empty body, meaning the entity is fully gone.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client for the given base URL, e.g. "https://rulings.example/api".
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues a request and returns the raw body for 2xx responses. For other
// statuses it decodes the JSON error array and returns an *Error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	data, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	if out == nil || emptyBody(data) {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	if out == nil || emptyBody(data) {
		return nil
	}
	return json.Unmarshal(data, out)
}

// emptyBody reports whether a response body means "entity fully removed,
// forget locally": empty, an empty object, or a JSON null.
func emptyBody(data []byte) bool {
	s := strings.TrimSpace(string(data))
	return s == "" || s == "{}" || s == "null"
}

// decodeError extracts the first element of the server's JSON error array.
// Anything else falls back to the raw body.
func decodeError(status int, data []byte) *Error {
	var messages []string
	if err := json.Unmarshal(data, &messages); err == nil && len(messages) > 0 {
		return &Error{Status: status, Message: messages[0]}
	}
	return &Error{Status: status, Message: strings.TrimSpace(string(data))}
}
