package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// APIError is an error response returned by the server
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned status %d", e.StatusCode)
	if e.Code != "" {
		msg += fmt.Sprintf(" (%s: %s)", e.Code, e.Message)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Link is a stored link as returned by the API
type Link struct {
	domain.ShortLinkEntry
	ShortURL string `json:"short_url"`
}

// Client represents an HTTP client for the link API
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client authenticating with a bearer token
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		token:     token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateLink creates a short link
func (c *Client) CreateLink(ctx context.Context, req domain.CreateLinkRequest) (*domain.CreateLinkResponse, error) {
	var result domain.CreateLinkResponse
	if err := c.do(ctx, http.MethodPost, "/api/links", req, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLink retrieves information about a short link
func (c *Client) GetLink(ctx context.Context, shortCode string) (*Link, error) {
	var link Link
	if err := c.do(ctx, http.MethodGet, "/api/links/"+url.PathEscape(shortCode), nil, http.StatusOK, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinks retrieves the caller's short links
func (c *Client) ListLinks(ctx context.Context) ([]*Link, error) {
	var links []*Link
	if err := c.do(ctx, http.MethodGet, "/api/links", nil, http.StatusOK, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// DeactivateLink soft-deletes a short link
func (c *Client) DeactivateLink(ctx context.Context, shortCode string) error {
	return c.do(ctx, http.MethodDelete, "/api/links/"+url.PathEscape(shortCode), nil, http.StatusNoContent, nil)
}

// GetDeeplinkConfig retrieves a deeplink's config
func (c *Client) GetDeeplinkConfig(ctx context.Context, shortCode string) (*domain.DeeplinkConfig, error) {
	var cfg domain.DeeplinkConfig
	if err := c.do(ctx, http.MethodGet, "/api/links/"+url.PathEscape(shortCode)+"/deeplink", nil, http.StatusOK, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateDeeplinkConfig replaces a deeplink's config
func (c *Client) UpdateDeeplinkConfig(ctx context.Context, shortCode string, cfg *domain.DeeplinkConfig) error {
	return c.do(ctx, http.MethodPut, "/api/links/"+url.PathEscape(shortCode)+"/deeplink", cfg, http.StatusOK, nil)
}

// CreateProfileLink adds a link to the caller's profile page
func (c *Client) CreateProfileLink(ctx context.Context, req domain.CreateProfileLinkRequest) (*Link, error) {
	var link Link
	if err := c.do(ctx, http.MethodPost, "/api/profile-links", req, http.StatusCreated, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// ListProfileLinks retrieves the caller's profile links
func (c *Client) ListProfileLinks(ctx context.Context) ([]*Link, error) {
	var links []*Link
	if err := c.do(ctx, http.MethodGet, "/api/profile-links", nil, http.StatusOK, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// PreviewDeeplink asks the server which destination a config picks for a user agent
func (c *Client) PreviewDeeplink(ctx context.Context, req domain.PreviewRequest) (*domain.PreviewResponse, error) {
	var result domain.PreviewResponse
	if err := c.do(ctx, http.MethodPost, "/api/deeplinks/preview", req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope); err == nil && envelope.Error != nil {
		apiErr = envelope.Error
		apiErr.StatusCode = resp.StatusCode
	}
	return apiErr
}
