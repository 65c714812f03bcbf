package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient is a thin HTTP helper for smoke tests against a running instance.
type APIClient struct {
	BaseURL    string
	AdminToken string
	HTTP       *http.Client
}

// NewAPIClient creates a client for baseURL.
func NewAPIClient(baseURL, adminToken string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		AdminToken: adminToken,
		HTTP:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Do sends a JSON request to path. An admin request carries the bearer token.
func (c *APIClient) Do(method, path string, body interface{}, admin bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+c.AdminToken)
	}

	return c.HTTP.Do(req)
}

// DecodeJSON reads and decodes a response body.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
