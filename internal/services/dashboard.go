package services

import (
	"context"
	"fmt"
	"time"

	"venturebridge/internal/domain"
)

type dashboardService struct {
	collabRepo     domain.CollaborationRepository
	dealRepo       domain.DealRepository
	meetingRepo    domain.MeetingRepository
	contextTimeout time.Duration
}

// NewDashboardService creates a DashboardService over the collaboration,
// deal, and meeting stores.
func NewDashboardService(collabRepo domain.CollaborationRepository,
	dealRepo domain.DealRepository,
	meetingRepo domain.MeetingRepository,
	timeout time.Duration,
) domain.DashboardService {
	return &dashboardService{
		collabRepo:     collabRepo,
		dealRepo:       dealRepo,
		meetingRepo:    meetingRepo,
		contextTimeout: timeout,
	}
}

func (s *dashboardService) InvestorDashboard(ctx context.Context, investorID string) (*domain.InvestorDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	collabs, err := s.collabRepo.ListByUserID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	deals, err := s.dealRepo.ListByInvestorID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	if collabs == nil {
		collabs = []*domain.Collaboration{}
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}

	var totalInvested float64
	startups := make(map[string]struct{})
	for _, d := range deals {
		totalInvested += d.Amount
		startups[d.StartupName] = struct{}{}
	}

	return &domain.InvestorDashboard{
		CollaborationsCount: len(collabs),
		DealsCount:          len(deals),
		TotalInvested:       totalInvested,
		TotalStartups:       len(startups),
		Collaborations:      collabs,
		Deals:               deals,
	}, nil
}

func (s *dashboardService) EntrepreneurDashboard(ctx context.Context, entrepreneurID string) (*domain.EntrepreneurDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	collabs, err := s.collabRepo.ListByUserID(ctx, entrepreneurID)
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	deals, err := s.dealRepo.ListByEntrepreneurID(ctx, entrepreneurID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	meetings, err := s.meetingRepo.ListByUserID(ctx, entrepreneurID)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	if collabs == nil {
		collabs = []*domain.Collaboration{}
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}
	if meetings == nil {
		meetings = []*domain.Meeting{}
	}

	var totalRaised float64
	investors := make(map[string]struct{})
	for _, d := range deals {
		totalRaised += d.Amount
		investors[d.InvestorID] = struct{}{}
	}
	now := time.Now()
	upcoming := 0
	for _, m := range meetings {
		if m.StartTime.After(now) {
			upcoming++
		}
	}

	return &domain.EntrepreneurDashboard{
		CollaborationsCount: len(collabs),
		DealsCount:          len(deals),
		MeetingsCount:       len(meetings),
		TotalRaised:         totalRaised,
		TotalInvestors:      len(investors),
		UpcomingMeetings:    upcoming,
		Collaborations:      collabs,
		Deals:               deals,
		Meetings:            meetings,
	}, nil
}
