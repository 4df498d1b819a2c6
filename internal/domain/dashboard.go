package domain

import "context"

// InvestorDashboard aggregates an investor's collaborations and deals.
type InvestorDashboard struct {
	CollaborationsCount int              `json:"collaborations_count"`
	DealsCount          int              `json:"deals_count"`
	TotalInvested       float64          `json:"total_invested"`
	TotalStartups       int              `json:"total_startups"`
	Collaborations      []*Collaboration `json:"collaborations"`
	Deals               []*Deal          `json:"deals"`
}

// EntrepreneurDashboard aggregates an entrepreneur's collaborations, deals,
// and meetings.
type EntrepreneurDashboard struct {
	CollaborationsCount int              `json:"collaborations_count"`
	DealsCount          int              `json:"deals_count"`
	MeetingsCount       int              `json:"meetings_count"`
	TotalRaised         float64          `json:"total_raised"`
	TotalInvestors      int              `json:"total_investors"`
	UpcomingMeetings    int              `json:"upcoming_meetings"`
	Collaborations      []*Collaboration `json:"collaborations"`
	Deals               []*Deal          `json:"deals"`
	Meetings            []*Meeting       `json:"meetings"`
}

// DashboardService computes read-only rollups per identity. Read errors are
// propagated untouched.
type DashboardService interface {
	InvestorDashboard(ctx context.Context, investorID string) (*InvestorDashboard, error)
	EntrepreneurDashboard(ctx context.Context, entrepreneurID string) (*EntrepreneurDashboard, error)
}
