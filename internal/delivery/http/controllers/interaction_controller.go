package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"speaks/internal/delivery/http/helpers"
	"speaks/internal/delivery/http/middleware"
	"speaks/internal/domain"
)

type InteractionController struct {
	Logger  *slog.Logger
	Service domain.InteractionService
}

func NewInteractionController(logger *slog.Logger, svc domain.InteractionService) *InteractionController {
	return &InteractionController{
		Logger:  logger,
		Service: svc,
	}
}

// BookmarkToggleResult is the authoritative bookmark state after a toggle.
type BookmarkToggleResult struct {
	IsBookmarked bool `json:"is_bookmarked"`
}

// ToggleBookmarkSuccessResponse is the success response envelope for POST /events/{eventID}/bookmark (200).
type ToggleBookmarkSuccessResponse struct {
	Data  *BookmarkToggleResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ToggleBookmark godoc
// @Summary Toggle a bookmark on an event
// @Description Adds the bookmark if absent, removes it if present, and returns the resulting state. Safe to retry: the response always reflects the stored state.
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ToggleBookmarkSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/bookmark [post]
func (c *InteractionController) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	bookmarked, err := c.Service.ToggleBookmark(r.Context(), userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &BookmarkToggleResult{IsBookmarked: bookmarked})
}

// RSVPToggleResult is the authoritative RSVP state after a toggle. Status is
// "going" or null.
type RSVPToggleResult struct {
	Status *string `json:"status"`
}

// ToggleRSVPSuccessResponse is the success response envelope for POST /events/{eventID}/rsvp (200).
type ToggleRSVPSuccessResponse struct {
	Data  *RSVPToggleResult `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ToggleRSVP godoc
// @Summary Toggle an RSVP on an event
// @Description Joins the event if the user has no RSVP, withdraws it otherwise, and returns the resulting state. The participant counter moves in the same transaction; joining a full event fails with 409.
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ToggleRSVPSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event is full)"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *InteractionController) ToggleRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	status, err := c.Service.ToggleRSVP(r.Context(), userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrEventFull):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event is full")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &RSVPToggleResult{Status: status})
}

// FollowToggleResult is the authoritative follow state after a toggle.
type FollowToggleResult struct {
	IsFollowing bool `json:"is_following"`
}

// ToggleFollowSuccessResponse is the success response envelope for POST /users/{userID}/follow (200).
type ToggleFollowSuccessResponse struct {
	Data  *FollowToggleResult `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ToggleFollow godoc
// @Summary Toggle following a user
// @Description Follows the target user if not yet followed, unfollows otherwise, and returns the resulting state. Following yourself is rejected.
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Target user ID (UUID)"
// @Success 200 {object} controllers.ToggleFollowSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (includes self-follow)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/follow [post]
func (c *InteractionController) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	followedID := r.PathValue("userID")
	if !uuidRegex.MatchString(followedID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid userID")
		return
	}
	followerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	following, err := c.Service.ToggleFollow(r.Context(), followerID, followedID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		case errors.Is(err, domain.ErrSelfFollow):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot follow yourself")
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &FollowToggleResult{IsFollowing: following})
}
