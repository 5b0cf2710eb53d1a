package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"speaks/internal/delivery/http/helpers"
	"speaks/internal/delivery/http/middleware"
	"speaks/internal/domain"
)

type DiscoveryController struct {
	Logger  *slog.Logger
	Service domain.DiscoveryService
}

func NewDiscoveryController(logger *slog.Logger, svc domain.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{
		Logger:  logger,
		Service: svc,
	}
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	return nil, false
}

// DiscoverEventsSuccessResponse is the success response envelope for GET /events (200).
type DiscoverEventsSuccessResponse struct {
	Data  *domain.EventPage `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DiscoverEvents godoc
// @Summary Browse published events
// @Description Returns a page of verified live events matching the query filters, annotated with the viewer's bookmark and RSVP state when a Bearer token is sent. Anonymous requests are served with is_bookmarked=false and user_rsvp_status=null.
// @Tags discovery
// @Produce json
// @Param category query string false "Category name; 'All Categories' or empty means no filter"
// @Param date_from query string false "Inclusive lower bound (YYYY-MM-DD or RFC 3339)"
// @Param date_to query string false "Inclusive upper bound (YYYY-MM-DD or RFC 3339)"
// @Param location query string false "Substring match against the venue"
// @Param search query string false "Whitespace-separated terms, OR-matched against title, description, venue, and tags"
// @Param sort query string false "date_asc (default), date_desc, participants_desc, participants_asc, created_desc"
// @Param offset query int false "Pagination offset (default 0)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.DiscoverEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *DiscoveryController) DiscoverEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dateFrom, ok := parseDate(q.Get("date_from"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date_from")
		return
	}
	dateTo, ok := parseDate(q.Get("date_to"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date_to")
		return
	}
	sort := domain.SortOrder(q.Get("sort"))
	if sort != "" && !domain.ValidSortOrder(sort) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sort")
		return
	}

	filters := domain.EventFilters{
		Category: strings.TrimSpace(q.Get("category")),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Location: strings.TrimSpace(q.Get("location")),
		Search:   strings.TrimSpace(q.Get("search")),
		Sort:     sort,
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())

	page, err := c.Service.DiscoverEvents(r.Context(), viewerID, filters, helpers.ParsePage(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.DiscoveredEvent `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GetEvent godoc
// @Summary Get one event
// @Description Returns a single event annotated for the viewer. Events that are not verified and live are visible only to their creator and otherwise reported as not found.
// @Tags discovery
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *DiscoveryController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())

	event, err := c.Service.GetEvent(r.Context(), viewerID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListBookmarkedEventsSuccessResponse is the success response envelope for GET /me/bookmarks (200).
type ListBookmarkedEventsSuccessResponse struct {
	Data  []*domain.DiscoveredEvent `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListBookmarkedEvents godoc
// @Summary Get the current user's bookmarked events
// @Description Returns the authenticated user's bookmarked events, most recently bookmarked first.
// @Tags discovery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListBookmarkedEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/bookmarks [get]
func (c *DiscoveryController) ListBookmarkedEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	events, err := c.Service.ListBookmarkedEvents(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
