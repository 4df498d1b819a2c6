package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"venturebridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollabRepo is an in-memory CollaborationRepository for tests.
type fakeCollabRepo struct {
	byID   map[string]*domain.Collaboration
	nextID int
	err    error // if set, Create returns this error
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{byID: make(map[string]*domain.Collaboration), nextID: 1}
}

func (f *fakeCollabRepo) add(c *domain.Collaboration) *domain.Collaboration {
	if c.ID == "" {
		c.ID = fmt.Sprintf("cb-%d", f.nextID)
		f.nextID++
	}
	f.byID[c.ID] = c
	return c
}

func (f *fakeCollabRepo) Create(ctx context.Context, c *domain.Collaboration) error {
	if f.err != nil {
		return f.err
	}
	f.add(c)
	return nil
}

func (f *fakeCollabRepo) GetByID(ctx context.Context, id string) (*domain.Collaboration, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCollabRepo) ExistsAccepted(ctx context.Context, a, b string) (bool, error) {
	for _, c := range f.byID {
		if c.Status != domain.CollaborationAccepted {
			continue
		}
		if (c.InvestorID == a && c.EntrepreneurID == b) || (c.InvestorID == b && c.EntrepreneurID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCollabRepo) FindActive(ctx context.Context, investorID, entrepreneurID string) (*domain.Collaboration, error) {
	for _, c := range f.byID {
		if c.InvestorID == investorID && c.EntrepreneurID == entrepreneurID &&
			(c.Status == domain.CollaborationPending || c.Status == domain.CollaborationAccepted) {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCollabRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Collaboration, error) {
	var out []*domain.Collaboration
	for _, c := range f.byID {
		if c.InvestorID == userID || c.EntrepreneurID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) UpdateStatus(ctx context.Context, id string, status domain.CollaborationStatus, respondedAt *time.Time) error {
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	if respondedAt != nil {
		c.RespondedAt = respondedAt
	}
	return nil
}

type collabFixture struct {
	repo   *fakeCollabRepo
	users  *fakeUserRepo
	emails *fakeEmailSink
	svc    domain.CollaborationService
}

func newCollabFixture() *collabFixture {
	f := &collabFixture{
		repo:   newFakeCollabRepo(),
		users:  newFakeUserRepo(),
		emails: &fakeEmailSink{},
	}
	f.users.add(&domain.User{ID: "inv-1", Name: "Iris", Email: "iris@example.com", Role: domain.RoleInvestor})
	f.users.add(&domain.User{ID: "ent-1", Name: "Evan", Email: "evan@example.com", Role: domain.RoleEntrepreneur})
	f.svc = NewCollaborationService(f.repo, f.users, f.emails, testLogger(), 2*time.Second)
	return f
}

func TestCollaborationService_SendRequest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newCollabFixture()

		c, err := f.svc.SendRequest(context.Background(), "inv-1", "ent-1", "Acme", "let's talk")
		require.NoError(t, err)
		assert.Equal(t, domain.CollaborationPending, c.Status)
		assert.Equal(t, "Acme", c.StartupName)

		require.Len(t, f.emails.requests, 1)
		assert.Equal(t, "evan@example.com", f.emails.requests[0].Email)
		assert.Equal(t, "Iris", f.emails.requests[0].InvestorName)
	})

	t.Run("startup name required", func(t *testing.T) {
		f := newCollabFixture()
		_, err := f.svc.SendRequest(context.Background(), "inv-1", "ent-1", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("only investors can send", func(t *testing.T) {
		f := newCollabFixture()
		_, err := f.svc.SendRequest(context.Background(), "ent-1", "ent-1", "Acme", "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("target must be an entrepreneur", func(t *testing.T) {
		f := newCollabFixture()
		f.users.add(&domain.User{ID: "inv-2", Role: domain.RoleInvestor})
		_, err := f.svc.SendRequest(context.Background(), "inv-1", "inv-2", "Acme", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown parties", func(t *testing.T) {
		f := newCollabFixture()
		_, err := f.svc.SendRequest(context.Background(), "missing", "ent-1", "Acme", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.svc.SendRequest(context.Background(), "inv-1", "missing", "Acme", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate pending or accepted request", func(t *testing.T) {
		for _, status := range []domain.CollaborationStatus{domain.CollaborationPending, domain.CollaborationAccepted} {
			f := newCollabFixture()
			f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: status})

			_, err := f.svc.SendRequest(context.Background(), "inv-1", "ent-1", "Acme", "")
			assert.ErrorIs(t, err, domain.ErrConflict, "status %s", status)
		}
	})

	t.Run("rejected request can be re-sent", func(t *testing.T) {
		f := newCollabFixture()
		f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationRejected})

		c, err := f.svc.SendRequest(context.Background(), "inv-1", "ent-1", "Acme", "")
		require.NoError(t, err)
		assert.Equal(t, domain.CollaborationPending, c.Status)
	})
}

func TestCollaborationService_Respond(t *testing.T) {
	t.Run("accept sets responded_at", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationPending})

		got, err := f.svc.Respond(context.Background(), c.ID, "ent-1", true)
		require.NoError(t, err)
		assert.Equal(t, domain.CollaborationAccepted, got.Status)
		assert.NotNil(t, got.RespondedAt)
	})

	t.Run("reject", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationPending})

		got, err := f.svc.Respond(context.Background(), c.ID, "ent-1", false)
		require.NoError(t, err)
		assert.Equal(t, domain.CollaborationRejected, got.Status)
	})

	t.Run("only the addressed entrepreneur", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationPending})

		_, err := f.svc.Respond(context.Background(), c.ID, "inv-1", true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("already resolved", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationAccepted})

		_, err := f.svc.Respond(context.Background(), c.ID, "ent-1", true)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestCollaborationService_Withdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationPending})

		got, err := f.svc.Withdraw(context.Background(), c.ID, "inv-1")
		require.NoError(t, err)
		assert.Equal(t, domain.CollaborationWithdrawn, got.Status)
	})

	t.Run("only the requesting investor", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationPending})

		_, err := f.svc.Withdraw(context.Background(), c.ID, "ent-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("pending only", func(t *testing.T) {
		f := newCollabFixture()
		c := f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationAccepted})

		_, err := f.svc.Withdraw(context.Background(), c.ID, "inv-1")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestCollaborationService_IsAccepted(t *testing.T) {
	f := newCollabFixture()
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationAccepted})

	ok, err := f.svc.IsAccepted(context.Background(), "inv-1", "ent-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Unordered pair: either argument order matches.
	ok, err = f.svc.IsAccepted(context.Background(), "ent-1", "inv-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.IsAccepted(context.Background(), "inv-1", "ent-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollaborationService_ListForUser(t *testing.T) {
	f := newCollabFixture()
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationAccepted})
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-2", Status: domain.CollaborationPending})
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-3", Status: domain.CollaborationRejected})
	f.repo.add(&domain.Collaboration{InvestorID: "inv-9", EntrepreneurID: "ent-9", Status: domain.CollaborationPending})

	collabs, counts, err := f.svc.ListForUser(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Len(t, collabs, 3)
	assert.Equal(t, domain.CollaborationCounts{Total: 3, Pending: 1, Accepted: 1, Rejected: 1}, counts)
}

func TestCollaborationService_ListAcceptedCollaborators(t *testing.T) {
	f := newCollabFixture()
	f.users.add(&domain.User{ID: "ent-2", Role: domain.RoleEntrepreneur})
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-1", Status: domain.CollaborationAccepted})
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-2", Status: domain.CollaborationAccepted})
	f.repo.add(&domain.Collaboration{InvestorID: "inv-1", EntrepreneurID: "ent-3", Status: domain.CollaborationPending})

	users, err := f.svc.ListAcceptedCollaborators(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = f.svc.ListAcceptedCollaborators(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
