package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/passage-hq/passage/pkg/domain"
)

// Client is the Passage API client. All outbound traffic to the backend goes
// through it: it injects the bearer token, normalizes error responses, and
// reports 401s to the registered unauthorized handler.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// token and the unauthorized handler are read from tea.Cmd goroutines
	// while login/logout mutate them, hence the lock.
	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// New creates a new API client. token may be empty for unauthenticated use.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetLogger enables request-level debug logging.
func (c *Client) SetLogger(l *slog.Logger) {
	c.logger = l
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// OnUnauthorized registers the handler invoked whenever any call comes back
// with HTTP 401. The handler runs once per 401 response, before the error is
// returned to the call site.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// TokenResponse is the body of a successful credential exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Token exchanges credentials for a bearer token. The token endpoint takes
// form-encoded username/password per the backend contract.
func (c *Client) Token(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp TokenResponse
	if err := c.postForm(ctx, "/token", form, &resp); err != nil {
		return "", fmt.Errorf("api.Token: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("api.Token: empty access_token in response")
	}
	return resp.AccessToken, nil
}

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Course    string `json:"course,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Register creates a new account. It does not authenticate the client.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.doRequest(ctx, http.MethodPost, "/users/register", req, nil); err != nil {
		return fmt.Errorf("api.Register: %w", err)
	}
	return nil
}

// ProfileResponse is the raw profile payload. Some backend routes send a
// single display name, others first/last; pkg/auth normalizes this into the
// canonical domain.User.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Course    string    `json:"course,omitempty"`
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*ProfileResponse, error) {
	var p ProfileResponse
	if err := c.get(ctx, "/users/me", &p); err != nil {
		return nil, fmt.Errorf("api.Me: %w", err)
	}
	return &p, nil
}

// Profile returns the dashboard copy of the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var p ProfileResponse
	if err := c.get(ctx, "/dashboard/profile", &p); err != nil {
		return nil, fmt.Errorf("api.Profile: %w", err)
	}
	return &p, nil
}

// UpdateProfileRequest is the payload for editing the user's profile.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Course    string `json:"course,omitempty"`
}

// UpdateProfile replaces the user's editable profile fields and returns the
// updated profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	var p ProfileResponse
	if err := c.doRequest(ctx, http.MethodPut, "/dashboard/profile", req, &p); err != nil {
		return nil, fmt.Errorf("api.UpdateProfile: %w", err)
	}
	return &p, nil
}

// Assignments fetches the student's assignments, optionally filtered by status.
func (c *Client) Assignments(ctx context.Context, status string) ([]domain.Assignment, error) {
	path := "/dashboard/assignments"
	if status != "" {
		params := url.Values{}
		params.Set("status", status)
		path += "?" + params.Encode()
	}

	var items []domain.Assignment
	if err := c.get(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("api.Assignments: %w", err)
	}
	return items, nil
}

// Classes fetches the student's classes. When upcoming is true only future
// sessions are returned.
func (c *Client) Classes(ctx context.Context, upcoming bool) ([]domain.Class, error) {
	params := url.Values{}
	params.Set("upcoming", strconv.FormatBool(upcoming))

	var items []domain.Class
	if err := c.get(ctx, "/dashboard/classes?"+params.Encode(), &items); err != nil {
		return nil, fmt.Errorf("api.Classes: %w", err)
	}
	return items, nil
}

// Resources fetches study resources with optional category filter and text
// search.
func (c *Client) Resources(ctx context.Context, category, search string) ([]domain.Resource, error) {
	params := url.Values{}
	if category != "" {
		params.Set("category", category)
	}
	if search != "" {
		params.Set("search", search)
	}
	path := "/dashboard/resources"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var items []domain.Resource
	if err := c.get(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("api.Resources: %w", err)
	}
	return items, nil
}

// ListOptions narrows a paginated admin list call.
type ListOptions struct {
	Skip       int
	Limit      int
	SortBy     string // "created_at" or "name"
	SortOrder  string // "asc" or "desc"
	ReadStatus string // "", "read", or "unread"
}

// SubmissionPage is one window of contact submissions plus pagination info.
type SubmissionPage struct {
	Data       []domain.ContactSubmission `json:"data"`
	Pagination domain.Pagination          `json:"pagination"`
}

// ContactSubmissions fetches a page of contact-form submissions (admin only).
func (c *Client) ContactSubmissions(ctx context.Context, opts ListOptions) (*SubmissionPage, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(opts.Skip))
	params.Set("limit", strconv.Itoa(opts.Limit))
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if opts.SortOrder != "" {
		params.Set("sort_order", opts.SortOrder)
	}
	if opts.ReadStatus != "" {
		params.Set("read_status", opts.ReadStatus)
	}

	var page SubmissionPage
	if err := c.get(ctx, "/admin/contact-submissions/list/?"+params.Encode(), &page); err != nil {
		return nil, fmt.Errorf("api.ContactSubmissions: %w", err)
	}
	return &page, nil
}

// ContactSubmission fetches a single submission by ID (admin only).
func (c *Client) ContactSubmission(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	var sub domain.ContactSubmission
	if err := c.get(ctx, "/admin/contact-submissions/"+url.PathEscape(id), &sub); err != nil {
		return nil, fmt.Errorf("api.ContactSubmission: %w", err)
	}
	return &sub, nil
}

// MarkSubmissionRead marks a submission as read.
func (c *Client) MarkSubmissionRead(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodPut, "/admin/contact-submissions/"+url.PathEscape(id)+"/read", nil, nil); err != nil {
		return fmt.Errorf("api.MarkSubmissionRead: %w", err)
	}
	return nil
}

// MarkSubmissionUnread marks a submission as unread.
func (c *Client) MarkSubmissionUnread(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodPut, "/admin/contact-submissions/"+url.PathEscape(id)+"/unread", nil, nil); err != nil {
		return fmt.Errorf("api.MarkSubmissionUnread: %w", err)
	}
	return nil
}

// DeleteSubmission deletes a submission.
func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/admin/contact-submissions/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("api.DeleteSubmission: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.logger != nil {
		c.logger.Debug("api request", "method", req.Method, "path", req.URL.Path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if c.logger != nil {
		c.logger.Debug("api response", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
	}

	// Global logout path: a 401 from any call means the token is no longer
	// honored. The handler fires here, centrally, so no call site needs its
	// own expiry check.
	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.RLock()
		fn := c.onUnauthorized
		c.mu.RUnlock()
		if fn != nil {
			fn()
		}
	}

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls the backend's error message out of a response body.
// The backend uses {"detail": ...} on most routes and {"message": ...} on a
// few older ones.
func errorMessage(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
