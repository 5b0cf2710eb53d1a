package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"speaks/internal/delivery/http/helpers"
	"speaks/internal/delivery/http/middleware"
	"speaks/internal/domain"
)

const testUserID = "1f2e3d4c-5b6a-4789-8abc-def012345678"

type mockInteractionService struct {
	bookmarked bool
	rsvpStatus *string
	following  bool
	err        error

	gotUserID   string
	gotTargetID string
}

func (m *mockInteractionService) ToggleBookmark(ctx context.Context, userID, eventID string) (bool, error) {
	m.gotUserID, m.gotTargetID = userID, eventID
	return m.bookmarked, m.err
}

func (m *mockInteractionService) ToggleRSVP(ctx context.Context, userID, eventID string) (*string, error) {
	m.gotUserID, m.gotTargetID = userID, eventID
	return m.rsvpStatus, m.err
}

func (m *mockInteractionService) ToggleFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	m.gotUserID, m.gotTargetID = followerID, followedID
	return m.following, m.err
}

func toggleRequest(t *testing.T, path, pathKey, pathVal, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.SetPathValue(pathKey, pathVal)
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	return req
}

func TestInteractionController_ToggleBookmark(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockInteractionService{bookmarked: true}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/events/"+testEventID+"/bookmark", "eventID", testEventID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleBookmark(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		if svc.gotUserID != "u1" || svc.gotTargetID != testEventID {
			t.Fatalf("service called with %q/%q", svc.gotUserID, svc.gotTargetID)
		}
		var resp ToggleBookmarkSuccessResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data == nil || !resp.Data.IsBookmarked {
			t.Fatalf("unexpected payload: %+v", resp.Data)
		}
	})

	t.Run("unauthorized without user", func(t *testing.T) {
		ctrl := NewInteractionController(discardLogger(), &mockInteractionService{})

		req := toggleRequest(t, "/events/"+testEventID+"/bookmark", "eventID", testEventID, "")
		w := httptest.NewRecorder()
		ctrl.ToggleBookmark(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})

	t.Run("malformed event id", func(t *testing.T) {
		ctrl := NewInteractionController(discardLogger(), &mockInteractionService{})

		req := toggleRequest(t, "/events/abc/bookmark", "eventID", "abc", "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleBookmark(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := &mockInteractionService{err: domain.ErrNotFound}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/events/"+testEventID+"/bookmark", "eventID", testEventID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleBookmark(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestInteractionController_ToggleRSVP(t *testing.T) {
	t.Run("joined", func(t *testing.T) {
		status := domain.RSVPStatusGoing
		svc := &mockInteractionService{rsvpStatus: &status}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/events/"+testEventID+"/rsvp", "eventID", testEventID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleRSVP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp ToggleRSVPSuccessResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data.Status == nil || *resp.Data.Status != domain.RSVPStatusGoing {
			t.Fatalf("unexpected payload: %+v", resp.Data)
		}
	})

	t.Run("withdrawn returns null status", func(t *testing.T) {
		svc := &mockInteractionService{rsvpStatus: nil}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/events/"+testEventID+"/rsvp", "eventID", testEventID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleRSVP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp ToggleRSVPSuccessResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data.Status != nil {
			t.Fatalf("expected null status, got %q", *resp.Data.Status)
		}
	})

	t.Run("full event maps to conflict", func(t *testing.T) {
		svc := &mockInteractionService{err: domain.ErrEventFull}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/events/"+testEventID+"/rsvp", "eventID", testEventID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleRSVP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}
		var resp helpers.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error == nil || resp.Error.Code != helpers.ErrCodeConflict {
			t.Fatalf("unexpected error payload: %+v", resp.Error)
		}
	})
}

func TestInteractionController_ToggleFollow(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockInteractionService{following: true}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/users/"+testUserID+"/follow", "userID", testUserID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleFollow(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp ToggleFollowSuccessResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data == nil || !resp.Data.IsFollowing {
			t.Fatalf("unexpected payload: %+v", resp.Data)
		}
	})

	t.Run("self follow maps to bad request", func(t *testing.T) {
		svc := &mockInteractionService{err: domain.ErrSelfFollow}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/users/"+testUserID+"/follow", "userID", testUserID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleFollow(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("unknown target user", func(t *testing.T) {
		svc := &mockInteractionService{err: domain.ErrUserNotFound}
		ctrl := NewInteractionController(discardLogger(), svc)

		req := toggleRequest(t, "/users/"+testUserID+"/follow", "userID", testUserID, "u1")
		w := httptest.NewRecorder()
		ctrl.ToggleFollow(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}
