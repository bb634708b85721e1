// Package github implements domain.Tracker on the GitHub GraphQL API.
package github

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/runoshun/issuebot/internal/domain"
	"github.com/shurcooL/githubv4"
)

// Ensure Client implements domain.Tracker.
var _ domain.Tracker = (*Client)(nil)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Config holds the settings of a Client.
// Fields are ordered to minimize memory padding.
type Config struct {
	HTTPClient   *http.Client // defaults to a client on http.DefaultTransport
	APIURL       string       // GraphQL endpoint
	Token        string
	Organization string
	Triage       domain.TriageConfig
	PageSize     int
}

// Client is a GitHub GraphQL client scoped to one organization.
type Client struct {
	gql          *githubv4.Client
	apiURL       string
	organization string
	triage       domain.TriageConfig
	pageSize     int
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: %w", domain.ErrMissingToken)
	}
	if cfg.Organization == "" {
		return nil, fmt.Errorf("github: organization is required")
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = domain.DefaultGitHubAPIURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	var httpClient http.Client
	if cfg.HTTPClient != nil {
		httpClient = *cfg.HTTPClient
	}
	httpClient.Transport = &apiTransport{base: httpClient.Transport, token: cfg.Token}

	return &Client{
		gql:          githubv4.NewEnterpriseClient(apiURL, &httpClient),
		apiURL:       apiURL,
		organization: cfg.Organization,
		triage:       cfg.Triage,
		pageSize:     pageSize,
	}, nil
}

// apiTransport authenticates requests and turns failed responses into
// domain errors before the GraphQL decoder sees them.
type apiTransport struct {
	base  http.RoundTripper
	token string
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "bearer "+t.token)
	req.Header.Set("Accept", "application/json")

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if err != nil {
		return nil, &domain.TransportError{Op: "github", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}

	var envelope struct {
		Errors []graphQLError `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Errors) > 0 {
		return nil, queryError(envelope.Errors)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// graphQLError is one entry of the "errors" array of a response.
type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// mapError labels a failed operation. Tracker errors pass through; network
// failures become domain.TransportError.
func mapError(op string, err error) error {
	var trackerErr *domain.TrackerError
	if errors.As(err, &trackerErr) {
		return trackerErr
	}
	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) {
		return &domain.TransportError{Op: "github " + op, Err: transportErr.Err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &domain.TransportError{Op: "github " + op, Err: urlErr.Err}
	}
	return fmt.Errorf("github %s: %w", op, err)
}

// statusError maps a non-2xx HTTP response. Server errors are treated as
// transport failures since the request may be retried as is.
func statusError(status int, body []byte) error {
	var wire struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &wire) == nil && wire.Message != "" {
		msg = wire.Message
	}

	switch {
	case status == http.StatusTooManyRequests,
		status == http.StatusForbidden && isRateLimitMessage(msg):
		return &domain.TrackerError{Reason: domain.ReasonRateLimited, Message: msg}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &domain.TrackerError{Reason: domain.ReasonForbidden, Message: msg}
	case status == http.StatusNotFound:
		return &domain.TrackerError{Reason: domain.ReasonNotFound, Message: msg}
	case status >= 500:
		return &domain.TransportError{Op: "github", Err: fmt.Errorf("HTTP %d: %s", status, msg)}
	default:
		return &domain.TrackerError{Reason: domain.ReasonOther, Message: fmt.Sprintf("HTTP %d: %s", status, msg)}
	}
}

// queryError maps the first GraphQL error to a tracker reason.
func queryError(errs []graphQLError) error {
	first := errs[0]
	reason := domain.ReasonOther
	switch first.Type {
	case "NOT_FOUND":
		reason = domain.ReasonNotFound
	case "FORBIDDEN", "INSUFFICIENT_SCOPES":
		reason = domain.ReasonForbidden
	case "RATE_LIMITED":
		reason = domain.ReasonRateLimited
	default:
		if isRateLimitMessage(first.Message) {
			reason = domain.ReasonRateLimited
		}
	}
	return &domain.TrackerError{Reason: reason, Message: first.Message}
}

// isRateLimitMessage checks whether an error message indicates a rate
// limit rather than a permission issue.
func isRateLimitMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "abuse detection")
}
