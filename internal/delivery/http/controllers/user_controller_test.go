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

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	token string
	user  *domain.User
	err   error

	lastEmail string
	lastRole  string
	updated   *domain.User
}

func (f *fakeUserService) SignUp(ctx context.Context, email, password, name, role string) (string, *domain.User, error) {
	f.lastEmail = email
	f.lastRole = role
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail = email
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, user *domain.User) error {
	f.updated = user
	return f.err
}

func TestUserController_SignUp(t *testing.T) {
	validBody := `{"email":"Iris@Example.com","password":"secret123","name":"Iris","role":"Investor"}`

	tests := []struct {
		name         string
		body         string
		serviceErr   error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "invalid role",
			body:         `{"email":"a@b.c","password":"secret123","name":"A","role":"admin"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "missing password",
			body:         `{"email":"a@b.c","name":"A","role":"investor"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "malformed json",
			body:         `{"email":`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "duplicate email",
			body:         validBody,
			serviceErr:   domain.ErrDuplicateEmail,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{
				token: "tok-1",
				user:  &domain.User{ID: "u-1", Email: "iris@example.com", Role: domain.RoleInvestor},
				err:   tt.serviceErr,
			}
			ctrl := NewUserController(testLogger(), fake)

			req := authedRequest(http.MethodPost, "http://test/auth/signup", tt.body, "")
			rr := httptest.NewRecorder()
			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)

			// Email and role are normalized before reaching the service.
			assert.Equal(t, "iris@example.com", fake.lastEmail)
			assert.Equal(t, domain.RoleInvestor, fake.lastRole)

			raw, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var body AuthResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "tok-1", body.Token)
			assert.Equal(t, "Bearer", body.TokenType)
			require.NotNil(t, body.User)
			assert.Equal(t, "u-1", body.User.ID)
		})
	}
}

func TestUserController_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeUserService{token: "tok-1", user: &domain.User{ID: "u-1"}}
		ctrl := NewUserController(testLogger(), fake)

		req := authedRequest(http.MethodPost, "http://test/auth/login", `{"email":"iris@example.com","password":"secret123"}`, "")
		rr := httptest.NewRecorder()
		ctrl.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		ctrl := NewUserController(testLogger(), &fakeUserService{err: domain.ErrInvalidCredentials})

		req := authedRequest(http.MethodPost, "http://test/auth/login", `{"email":"iris@example.com","password":"nope"}`, "")
		rr := httptest.NewRecorder()
		ctrl.Login(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
	})
}

func TestUserController_GetMe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeUserService{user: &domain.User{ID: "u-1", Name: "Iris"}}
		ctrl := NewUserController(testLogger(), fake)

		req := authedRequest(http.MethodGet, "http://test/users/me", "", "u-1")
		rr := httptest.NewRecorder()
		ctrl.GetMe(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := NewUserController(testLogger(), &fakeUserService{})

		req := authedRequest(http.MethodGet, "http://test/users/me", "", "")
		rr := httptest.NewRecorder()
		ctrl.GetMe(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUserController_UpdateMe(t *testing.T) {
	t.Run("updates only supplied fields", func(t *testing.T) {
		fake := &fakeUserService{
			user: &domain.User{ID: "u-1", Name: "Iris", Bio: "old bio", AvatarURL: "http://a/old.png"},
		}
		ctrl := NewUserController(testLogger(), fake)

		req := authedRequest(http.MethodPatch, "http://test/users/me", `{"bio":"new bio"}`, "u-1")
		rr := httptest.NewRecorder()
		ctrl.UpdateMe(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.updated)
		assert.Equal(t, "new bio", fake.updated.Bio)
		assert.Equal(t, "Iris", fake.updated.Name)
		assert.Equal(t, "http://a/old.png", fake.updated.AvatarURL)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		ctrl := NewUserController(testLogger(), &fakeUserService{user: &domain.User{ID: "u-1"}})

		req := authedRequest(http.MethodPatch, "http://test/users/me", `{"name":"   "}`, "u-1")
		rr := httptest.NewRecorder()
		ctrl.UpdateMe(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
