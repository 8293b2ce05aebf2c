package apisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client is the request dispatcher. It reads the token store on every request,
// attaches the bearer token when one is present, and passes the response back
// unmodified. The cookie jar on HTTPClient holds the refresh cookie; it is the
// credential channel for renewal and never surfaces to application code.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      *TokenStore
}

// NewClient creates a client with a fresh cookie jar.
func NewClient(baseURL string, store *TokenStore) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("apisdk: create cookie jar: %w", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		Store: store,
	}, nil
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// do performs a single request. Bodies are byte slices rather than readers so
// the Session can replay a request after renewal.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("apisdk: create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Store.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apisdk: send request: %w", err)
	}
	return resp, nil
}

// renewAccessToken exchanges the refresh cookie for a new access token. The
// jar attaches the cookie; no bearer token is sent.
func (c *Client) renewAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/auth/refresh-token"), nil)
	if err != nil {
		return "", fmt.Errorf("apisdk: create renewal request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("apisdk: renewal request failed: %w", err)
	}

	var payload refreshResponse
	if err := decodeEnvelope(resp, http.StatusOK, &payload); err != nil {
		return "", err
	}
	return payload.AccessToken, nil
}

// decodeEnvelope reads and closes the response body, translating non-expected
// statuses into *APIError and unwrapping the data field otherwise.
func decodeEnvelope(resp *http.Response, expectedStatus int, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apisdk: read response body: %w", err)
	}

	var env envelope
	// A failed unmarshal on an error status still yields a useful APIError.
	_ = json.Unmarshal(bodyBytes, &env)

	if resp.StatusCode != expectedStatus {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if target == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("apisdk: decode response data: %w", err)
	}
	return nil
}

// drainAndClose discards a response body so the connection can be reused.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
