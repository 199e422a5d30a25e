package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// APIError is a non-2xx provider reply. Body is truncated raw response text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status error, got status %d. with response body %s", e.StatusCode, e.Body)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateContent runs a single-shot generation. The response body is read
// fully and closed before returning.
func (c *Client) GenerateContent(ctx context.Context, model string, request *GenerateContentRequest) (*GenerateContentResponse, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)

	res, err := c.post(ctx, endpoint, request)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: res.StatusCode, Body: truncate(string(resBody), 2048)}
	}

	var genRes GenerateContentResponse
	if err := json.Unmarshal(resBody, &genRes); err != nil {
		return nil, err
	}

	return &genRes, nil
}

// ListFileSearchStores lists the retrieval stores available to the API key.
func (c *Client) ListFileSearchStores(ctx context.Context) ([]FileSearchStore, error) {
	endpoint := fmt.Sprintf("%s/fileSearchStores", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: res.StatusCode, Body: truncate(string(resBody), 2048)}
	}

	var listRes ListFileSearchStoresResponse
	if err := json.Unmarshal(resBody, &listRes); err != nil {
		return nil, err
	}

	return listRes.FileSearchStores, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) (*http.Response, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
