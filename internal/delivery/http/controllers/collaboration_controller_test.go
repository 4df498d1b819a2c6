package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"venturebridge/internal/delivery/http/helpers"
	"venturebridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollabService implements domain.CollaborationService for handler tests.
type fakeCollabService struct {
	collab   *domain.Collaboration
	collabs  []*domain.Collaboration
	counts   domain.CollaborationCounts
	users    []*domain.User
	accepted bool
	err      error

	lastRequestID string
	lastAccept    bool
}

func (f *fakeCollabService) IsAccepted(ctx context.Context, a, b string) (bool, error) {
	return f.accepted, f.err
}

func (f *fakeCollabService) SendRequest(ctx context.Context, investorID, entrepreneurID, startupName, message string) (*domain.Collaboration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.collab, nil
}

func (f *fakeCollabService) Respond(ctx context.Context, requestID, entrepreneurID string, accept bool) (*domain.Collaboration, error) {
	f.lastRequestID = requestID
	f.lastAccept = accept
	if f.err != nil {
		return nil, f.err
	}
	return f.collab, nil
}

func (f *fakeCollabService) Withdraw(ctx context.Context, requestID, investorID string) (*domain.Collaboration, error) {
	f.lastRequestID = requestID
	if f.err != nil {
		return nil, f.err
	}
	return f.collab, nil
}

func (f *fakeCollabService) ListForUser(ctx context.Context, userID string) ([]*domain.Collaboration, domain.CollaborationCounts, error) {
	if f.err != nil {
		return nil, domain.CollaborationCounts{}, f.err
	}
	return f.collabs, f.counts, nil
}

func (f *fakeCollabService) ListAcceptedCollaborators(ctx context.Context, userID string) ([]*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func TestCollaborationController_Send(t *testing.T) {
	validBody := `{"entrepreneur_id":"ent-1","startup_name":"Acme","message":"let's talk"}`

	tests := []struct {
		name         string
		userID       string
		body         string
		serviceErr   error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			userID:     "inv-1",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "unauthenticated",
			body:         validBody,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "missing startup name",
			userID:       "inv-1",
			body:         `{"entrepreneur_id":"ent-1"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "caller is not an investor",
			userID:       "ent-2",
			body:         validBody,
			serviceErr:   domain.ErrForbidden,
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:         "duplicate active request",
			userID:       "inv-1",
			body:         validBody,
			serviceErr:   domain.ErrConflict,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "unknown entrepreneur",
			userID:       "inv-1",
			body:         validBody,
			serviceErr:   domain.ErrUserNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCollabService{
				collab: &domain.Collaboration{ID: "col-1", Status: domain.CollaborationPending},
				err:    tt.serviceErr,
			}
			ctrl := NewCollaborationController(testLogger(), fake)

			req := authedRequest(http.MethodPost, "http://test/collaborations", tt.body, tt.userID)
			rr := httptest.NewRecorder()
			ctrl.Send(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			} else {
				assert.Nil(t, envelope.Error)
			}
		})
	}
}

func TestCollaborationController_List(t *testing.T) {
	fake := &fakeCollabService{
		collabs: []*domain.Collaboration{
			{ID: "col-1", Status: domain.CollaborationPending},
			{ID: "col-2", Status: domain.CollaborationAccepted},
		},
		counts: domain.CollaborationCounts{Total: 2, Pending: 1, Accepted: 1},
	}
	ctrl := NewCollaborationController(testLogger(), fake)

	req := authedRequest(http.MethodGet, "http://test/collaborations", "", "inv-1")
	rr := httptest.NewRecorder()
	ctrl.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.Nil(t, envelope.Error)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var body CollaborationListResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Len(t, body.Collaborations, 2)
	assert.Equal(t, 2, body.Counts.Total)
	assert.Equal(t, 1, body.Counts.Pending)
}

func TestCollaborationController_Respond(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		fake := &fakeCollabService{collab: &domain.Collaboration{ID: "col-1", Status: domain.CollaborationAccepted}}
		ctrl := NewCollaborationController(testLogger(), fake)

		req := authedRequest(http.MethodPost, "http://test/collaborations/col-1/respond", `{"accept":true}`, "ent-1")
		req.SetPathValue("requestID", "col-1")
		rr := httptest.NewRecorder()
		ctrl.Respond(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "col-1", fake.lastRequestID)
		assert.True(t, fake.lastAccept)
	})

	t.Run("reject", func(t *testing.T) {
		fake := &fakeCollabService{collab: &domain.Collaboration{ID: "col-1", Status: domain.CollaborationRejected}}
		ctrl := NewCollaborationController(testLogger(), fake)

		req := authedRequest(http.MethodPost, "http://test/collaborations/col-1/respond", `{"accept":false}`, "ent-1")
		req.SetPathValue("requestID", "col-1")
		rr := httptest.NewRecorder()
		ctrl.Respond(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, fake.lastAccept)
	})

	t.Run("already resolved maps to conflict", func(t *testing.T) {
		ctrl := NewCollaborationController(testLogger(), &fakeCollabService{err: domain.ErrInvalidTransition})

		req := authedRequest(http.MethodPost, "http://test/collaborations/col-1/respond", `{"accept":true}`, "ent-1")
		req.SetPathValue("requestID", "col-1")
		rr := httptest.NewRecorder()
		ctrl.Respond(rr, req)

		require.Equal(t, http.StatusConflict, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeConflict, envelope.Error.Code)
	})
}

func TestCollaborationController_Withdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeCollabService{collab: &domain.Collaboration{ID: "col-1", Status: domain.CollaborationWithdrawn}}
		ctrl := NewCollaborationController(testLogger(), fake)

		req := authedRequest(http.MethodPost, "http://test/collaborations/col-1/withdraw", "", "inv-1")
		req.SetPathValue("requestID", "col-1")
		rr := httptest.NewRecorder()
		ctrl.Withdraw(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "col-1", fake.lastRequestID)
	})

	t.Run("not the sender", func(t *testing.T) {
		ctrl := NewCollaborationController(testLogger(), &fakeCollabService{err: domain.ErrForbidden})

		req := authedRequest(http.MethodPost, "http://test/collaborations/col-1/withdraw", "", "inv-2")
		req.SetPathValue("requestID", "col-1")
		rr := httptest.NewRecorder()
		ctrl.Withdraw(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestCollaborationController_Accepted(t *testing.T) {
	fake := &fakeCollabService{
		users: []*domain.User{
			{ID: "ent-1", Name: "Evan", Role: domain.RoleEntrepreneur},
		},
	}
	ctrl := NewCollaborationController(testLogger(), fake)

	req := authedRequest(http.MethodGet, "http://test/collaborations/accepted", "", "inv-1")
	rr := httptest.NewRecorder()
	ctrl.Accepted(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.Nil(t, envelope.Error)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var users []*domain.User
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "ent-1", users[0].ID)
}
