package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"venturebridge/internal/domain"
)

type collaborationService struct {
	collabRepo     domain.CollaborationRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewCollaborationService creates a CollaborationService. emailService may be
// nil; request notification emails are then skipped.
func NewCollaborationService(collabRepo domain.CollaborationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CollaborationService {
	return &collaborationService{
		collabRepo:     collabRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *collaborationService) IsAccepted(ctx context.Context, a, b string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.collabRepo.ExistsAccepted(ctx, a, b)
}

func (s *collaborationService) SendRequest(ctx context.Context, investorID, entrepreneurID, startupName, message string) (*domain.Collaboration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if startupName == "" {
		return nil, fmt.Errorf("%w: startup name is required", domain.ErrInvalidInput)
	}

	investor, err := s.userRepo.GetByID(ctx, investorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: investor not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get investor: %w", err)
	}
	if investor.Role != domain.RoleInvestor {
		return nil, fmt.Errorf("%w: only investors can send collaboration requests", domain.ErrForbidden)
	}
	entrepreneur, err := s.userRepo.GetByID(ctx, entrepreneurID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: entrepreneur not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get entrepreneur: %w", err)
	}
	if entrepreneur.Role != domain.RoleEntrepreneur {
		return nil, fmt.Errorf("%w: requests can only target entrepreneurs", domain.ErrInvalidInput)
	}

	existing, err := s.collabRepo.FindActive(ctx, investorID, entrepreneurID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if existing != nil {
		if existing.Status == domain.CollaborationPending {
			return nil, fmt.Errorf("%w: request already pending", domain.ErrConflict)
		}
		return nil, fmt.Errorf("%w: collaboration already accepted", domain.ErrConflict)
	}

	now := time.Now()
	c := &domain.Collaboration{
		InvestorID:     investorID,
		EntrepreneurID: entrepreneurID,
		StartupName:    startupName,
		Message:        message,
		Status:         domain.CollaborationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.collabRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create collaboration: %w", err)
	}

	if s.emailService != nil {
		data := &domain.CollaborationRequestEmailData{
			Email:        entrepreneur.Email,
			InvestorName: investor.Name,
			StartupName:  startupName,
		}
		if err := s.emailService.SendCollaborationRequest(ctx, data); err != nil {
			s.logger.Warn("collaboration request email failed", "collaboration_id", c.ID, "err", err)
		}
	}
	return c, nil
}

func (s *collaborationService) Respond(ctx context.Context, requestID, entrepreneurID string, accept bool) (*domain.Collaboration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.collabRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get collaboration: %w", err)
	}
	if c.EntrepreneurID != entrepreneurID {
		return nil, fmt.Errorf("%w: only the addressed entrepreneur can respond", domain.ErrForbidden)
	}
	if c.Status != domain.CollaborationPending {
		return nil, fmt.Errorf("%w: request already %s", domain.ErrConflict, c.Status)
	}

	status := domain.CollaborationRejected
	if accept {
		status = domain.CollaborationAccepted
	}
	respondedAt := time.Now()
	if err := s.collabRepo.UpdateStatus(ctx, requestID, status, &respondedAt); err != nil {
		return nil, fmt.Errorf("update collaboration status: %w", err)
	}
	c.Status = status
	c.RespondedAt = &respondedAt
	return c, nil
}

func (s *collaborationService) Withdraw(ctx context.Context, requestID, investorID string) (*domain.Collaboration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.collabRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get collaboration: %w", err)
	}
	if c.InvestorID != investorID {
		return nil, fmt.Errorf("%w: only the requesting investor can withdraw", domain.ErrForbidden)
	}
	if c.Status != domain.CollaborationPending {
		return nil, fmt.Errorf("%w: only pending requests can be withdrawn", domain.ErrConflict)
	}
	if err := s.collabRepo.UpdateStatus(ctx, requestID, domain.CollaborationWithdrawn, nil); err != nil {
		return nil, fmt.Errorf("update collaboration status: %w", err)
	}
	c.Status = domain.CollaborationWithdrawn
	return c, nil
}

func (s *collaborationService) ListForUser(ctx context.Context, userID string) ([]*domain.Collaboration, domain.CollaborationCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	collabs, err := s.collabRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, domain.CollaborationCounts{}, fmt.Errorf("list collaborations: %w", err)
	}
	if collabs == nil {
		collabs = []*domain.Collaboration{}
	}
	counts := domain.CollaborationCounts{Total: len(collabs)}
	for _, c := range collabs {
		switch c.Status {
		case domain.CollaborationPending:
			counts.Pending++
		case domain.CollaborationAccepted:
			counts.Accepted++
		case domain.CollaborationRejected:
			counts.Rejected++
		}
	}
	return collabs, counts, nil
}

func (s *collaborationService) ListAcceptedCollaborators(ctx context.Context, userID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	collabs, err := s.collabRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	ids := make([]string, 0, len(collabs))
	seen := make(map[string]struct{})
	for _, c := range collabs {
		if c.Status != domain.CollaborationAccepted {
			continue
		}
		counterpart := c.InvestorID
		if counterpart == userID {
			counterpart = c.EntrepreneurID
		}
		if _, ok := seen[counterpart]; ok {
			continue
		}
		seen[counterpart] = struct{}{}
		ids = append(ids, counterpart)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get collaborators: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
