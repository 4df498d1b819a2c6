package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"venturebridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHasher is a deterministic PasswordHasher for tests.
type fakeHasher struct {
	saltErr error
	hashErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakeHasher) Hash(salt, password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return salt + ":" + password, nil
}

func (f *fakeHasher) Compare(hash, salt, password string) error {
	if hash == salt+":"+password {
		return nil
	}
	return errors.New("mismatch")
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

func newUserFixture() (*fakeUserRepo, domain.UserService) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeHasher{}, &fakeTokenIssuer{}, time.Hour, 2*time.Second)
	return repo, svc
}

func TestUserService_SignUp(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, svc := newUserFixture()

		token, user, err := svc.SignUp(context.Background(), "Ada@Example.com", "password123", "Ada", domain.RoleInvestor)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, domain.RoleInvestor, user.Role)
		assert.Equal(t, "token-"+user.ID, token)
		assert.NotEmpty(t, user.PasswordHash)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name     string
			email    string
			password string
			userName string
			role     string
		}{
			{"bad email", "not-an-email", "password123", "Ada", domain.RoleInvestor},
			{"short password", "ada@example.com", "short", "Ada", domain.RoleInvestor},
			{"missing name", "ada@example.com", "password123", "  ", domain.RoleInvestor},
			{"bad role", "ada@example.com", "password123", "Ada", "admin"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, svc := newUserFixture()
				_, _, err := svc.SignUp(context.Background(), tt.email, tt.password, tt.userName, tt.role)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, svc := newUserFixture()
		_, _, err := svc.SignUp(context.Background(), "ada@example.com", "password123", "Ada", domain.RoleInvestor)
		require.NoError(t, err)

		_, _, err = svc.SignUp(context.Background(), "ada@example.com", "password123", "Other", domain.RoleEntrepreneur)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, svc := newUserFixture()
		_, created, err := svc.SignUp(context.Background(), "ada@example.com", "password123", "Ada", domain.RoleInvestor)
		require.NoError(t, err)

		token, user, err := svc.Login(context.Background(), "ADA@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "token-"+user.ID, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, svc := newUserFixture()
		_, _, err := svc.SignUp(context.Background(), "ada@example.com", "password123", "Ada", domain.RoleInvestor)
		require.NoError(t, err)

		_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, svc := newUserFixture()
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, svc := newUserFixture()
		user := repo.add(&domain.User{Email: "ada@example.com", Name: "Ada", Role: domain.RoleInvestor})

		user.Name = "  Ada L.  "
		user.Bio = "Early-stage investor"
		require.NoError(t, svc.UpdateProfile(context.Background(), user))
		assert.Equal(t, "Ada L.", user.Name)
	})

	t.Run("invalid email", func(t *testing.T) {
		repo, svc := newUserFixture()
		user := repo.add(&domain.User{Email: "ada@example.com", Name: "Ada"})

		user.Email = "broken"
		err := svc.UpdateProfile(context.Background(), user)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, svc := newUserFixture()
		err := svc.UpdateProfile(context.Background(), &domain.User{ID: "missing", Email: "a@b.co", Name: "A"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
