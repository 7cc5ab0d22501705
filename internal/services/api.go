// API service for making HTTP requests to the ice-cream server
package services

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

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scoop/internal/shared"
)

const defaultBaseURL = "https://localhost"

var _ Service = (*APIService)(nil)

// APIService implements [Service] over HTTP.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewAPIService creates a new API service instance for the ice-cream server.
func NewAPIService(baseURL string, client *http.Client, logger *log.Logger) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BaseURL implements [Service].
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// Login implements [Service].
func (a *APIService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", shared.ErrMissingCredentials)
	}

	data, err := json.Marshal(Credentials{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal credentials: %w", err)
	}

	resp, err := a.Do(ctx, http.MethodPost, "/login", "", data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return "", fmt.Errorf("%w: status %d: %s", shared.ErrAuthFailed, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	token := strings.TrimSpace(string(resp.Body))
	if token == "" {
		return "", fmt.Errorf("%w: server returned an empty token", shared.ErrAuthFailed)
	}

	return token, nil
}

// Logout implements [Service].
//
// The token is always sent, even when empty. Any response counts as success once its headers arrive; the body is
// never read.
func (a *APIService) Logout(ctx context.Context, token string) error {
	req, requestID, err := a.newRequest(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("logout failed", "request_id", requestID, "error", err)
		return transportCause(err)
	}
	resp.Body.Close()

	a.logger.Debug("logout completed", "status", resp.StatusCode, "request_id", requestID)
	return nil
}

// Flavors implements [Service].
func (a *APIService) Flavors(ctx context.Context, token string) (map[string]int, error) {
	resp, err := a.Do(ctx, http.MethodGet, "/ice-cream", token, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	flavors := map[string]int{}
	if err := json.Unmarshal(resp.Body, &flavors); err != nil {
		return nil, fmt.Errorf("%w: failed to decode flavors: %v", shared.ErrAPIRequest, err)
	}

	return flavors, nil
}

// SetFlavor implements [Service].
func (a *APIService) SetFlavor(ctx context.Context, token, flavor string, count int) error {
	if flavor == "" {
		return fmt.Errorf("%w: flavor name is required", shared.ErrInvalidInput)
	}
	if count < 0 {
		return fmt.Errorf("%w: count %d is negative", shared.ErrInvalidInput, count)
	}

	data, err := json.Marshal(FlavorCount{Count: count})
	if err != nil {
		return fmt.Errorf("failed to marshal count: %w", err)
	}

	resp, err := a.Do(ctx, http.MethodPut, flavorPath(flavor), token, data)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	return checkStatus(resp)
}

// DeleteFlavor implements [Service].
func (a *APIService) DeleteFlavor(ctx context.Context, token, flavor string) error {
	resp, err := a.Do(ctx, http.MethodDelete, flavorPath(flavor), token, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrFlavorNotFound, flavor)
	}

	return checkStatus(resp)
}

// Do performs a request against path and returns the raw response.
//
// A non-empty token is sent as the Authorization header. A non-nil body is sent as JSON.
// Transport failures are returned without the [url.Error] wrapper so callers see the underlying cause.
func (a *APIService) Do(ctx context.Context, method, path, token string, body []byte) (*APIResponse, error) {
	req, requestID, err := a.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("request failed", "method", method, "url", req.URL.String(), "request_id", requestID, "error", err)
		return nil, transportCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}, nil
}

// newRequest builds a request for path carrying a fresh X-Request-ID. A non-nil body is sent as JSON.
func (a *APIService) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, string, error) {
	fullURL := a.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	a.logger.Debug("sending request", "method", method, "url", fullURL, "request_id", requestID)
	return req, requestID, nil
}

func checkStatus(resp *APIResponse) error {
	switch {
	case resp.OK():
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}
}

func flavorPath(flavor string) string {
	return "/ice-cream/" + url.PathEscape(flavor)
}

func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
