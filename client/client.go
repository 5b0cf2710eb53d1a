// Package client is the Go API client for the Speaks backend. It wraps the
// HTTP surface and layers speculative toggles on top: interaction state flips
// locally before the request settles and is reconciled or rolled back when it
// does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"speaks/internal/domain"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Speaks API. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the Bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken swaps the Bearer token, e.g. after login.
func (c *Client) SetToken(token string) { c.token = token }

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// DiscoverQuery is the filter and pagination set for DiscoverEvents.
type DiscoverQuery struct {
	Category string
	DateFrom string // YYYY-MM-DD
	DateTo   string
	Location string
	Search   string
	Sort     domain.SortOrder
	Offset   int
	Limit    int
}

func (q DiscoverQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.DateFrom != "" {
		v.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("date_to", q.DateTo)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// DiscoverEvents fetches a page of published events.
func (c *Client) DiscoverEvents(ctx context.Context, q DiscoverQuery) (*domain.EventPage, error) {
	path := "/events"
	if vals := q.values(); len(vals) > 0 {
		path += "?" + vals.Encode()
	}
	var page domain.EventPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetEvent fetches a single event annotated for the viewer.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*domain.DiscoveredEvent, error) {
	var event domain.DiscoveredEvent
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListBookmarkedEvents fetches the authenticated user's bookmarks.
func (c *Client) ListBookmarkedEvents(ctx context.Context) ([]*domain.DiscoveredEvent, error) {
	var events []*domain.DiscoveredEvent
	if err := c.do(ctx, http.MethodGet, "/me/bookmarks", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

type bookmarkToggleResult struct {
	IsBookmarked bool `json:"is_bookmarked"`
}

// ToggleBookmark flips the bookmark on the server and returns the stored state.
func (c *Client) ToggleBookmark(ctx context.Context, eventID string) (bool, error) {
	var res bookmarkToggleResult
	if err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/bookmark", nil, &res); err != nil {
		return false, err
	}
	return res.IsBookmarked, nil
}

type rsvpToggleResult struct {
	Status *string `json:"status"`
}

// ToggleRSVP flips the RSVP on the server and returns the stored status,
// "going" or nil.
func (c *Client) ToggleRSVP(ctx context.Context, eventID string) (*string, error) {
	var res rsvpToggleResult
	if err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/rsvp", nil, &res); err != nil {
		return nil, err
	}
	return res.Status, nil
}

type followToggleResult struct {
	IsFollowing bool `json:"is_following"`
}

// ToggleFollow flips the follow on the server and returns the stored state.
func (c *Client) ToggleFollow(ctx context.Context, userID string) (bool, error) {
	var res followToggleResult
	if err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/follow", nil, &res); err != nil {
		return false, err
	}
	return res.IsFollowing, nil
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var res struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return res.User, nil
}
