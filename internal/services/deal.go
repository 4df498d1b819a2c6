package services

import (
	"context"
	"fmt"
	"time"

	"venturebridge/internal/domain"
)

type dealService struct {
	dealRepo       domain.DealRepository
	contextTimeout time.Duration
}

func NewDealService(dealRepo domain.DealRepository, timeout time.Duration) domain.DealService {
	return &dealService{dealRepo: dealRepo, contextTimeout: timeout}
}

func (s *dealService) Record(ctx context.Context, d *domain.Deal) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if d.InvestorID == "" || d.EntrepreneurID == "" {
		return nil, fmt.Errorf("%w: both parties are required", domain.ErrInvalidInput)
	}
	if d.StartupName == "" {
		return nil, fmt.Errorf("%w: startup name is required", domain.ErrInvalidInput)
	}
	if d.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if !domain.ValidDealStage(d.Stage) {
		return nil, fmt.Errorf("%w: unknown deal stage %q", domain.ErrInvalidInput, d.Stage)
	}
	if d.Status == "" {
		d.Status = domain.DefaultDealStatus
	}

	now := time.Now()
	d.LastActivity = now
	d.CreatedAt = now
	d.UpdatedAt = now
	if err := s.dealRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	return d, nil
}

func (s *dealService) ListForUser(ctx context.Context, userID, role string) ([]*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		deals []*domain.Deal
		err   error
	)
	if role == domain.RoleInvestor {
		deals, err = s.dealRepo.ListByInvestorID(ctx, userID)
	} else {
		deals, err = s.dealRepo.ListByEntrepreneurID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}
	return deals, nil
}
