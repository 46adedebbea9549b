package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"restaurant-finder/internal/domain"

	"github.com/google/uuid"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource is read on every request so a login or logout takes effect for
// the next call without rebuilding the client.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL string
	http    HTTPClient
	tokens  TokenSource
}

func New(baseURL string, httpClient HTTPClient, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Do sends one JSON request. Non-2xx responses come back as *APIError and
// transport failures as *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	c.authorize(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("ERROR: %s %s failed: %v", method, path, err)
		return &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		log.Printf("Warning: could not read stored token, sending request unauthenticated: %v", err)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeError(status int, raw []byte) *APIError {
	var body domain.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || (body.Message == "" && body.Error == "") {
		msg := strings.TrimSpace(string(raw))
		if msg == "" || strings.HasPrefix(msg, "<") || strings.HasPrefix(msg, "{") {
			msg = http.StatusText(status)
		}
		return &APIError{Message: msg, Status: status}
	}
	return newAPIError(status, body)
}
