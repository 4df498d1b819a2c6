package domain

import (
	"context"
	"time"
)

// Investment stages a deal can be made at.
var DealStages = []string{"Seed", "Series A", "Series B", "Series C", "IPO"}

// Deal pipeline states.
var DealStatuses = []string{"Due Diligence", "Term Sheet", "Negotiation", "Closed", "Passed"}

// DefaultDealStatus is the pipeline state a new deal starts in.
const DefaultDealStatus = "Due Diligence"

// Deal records an investment between an investor and an entrepreneur's startup.
type Deal struct {
	ID             string    `json:"id"`
	InvestorID     string    `json:"investor_id"`
	EntrepreneurID string    `json:"entrepreneur_id"`
	StartupName    string    `json:"startup_name"`
	Industry       string    `json:"industry"`
	Amount         float64   `json:"amount"`
	Equity         float64   `json:"equity"`
	Stage          string    `json:"stage"`
	Status         string    `json:"status"`
	LastActivity   time.Time `json:"last_activity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidDealStage reports whether stage is a known investment stage.
func ValidDealStage(stage string) bool {
	for _, s := range DealStages {
		if s == stage {
			return true
		}
	}
	return false
}

// DealRepository defines storage operations for deals.
type DealRepository interface {
	Create(ctx context.Context, d *Deal) error
	// ListByInvestorID and ListByEntrepreneurID return deals newest first.
	ListByInvestorID(ctx context.Context, investorID string) ([]*Deal, error)
	ListByEntrepreneurID(ctx context.Context, entrepreneurID string) ([]*Deal, error)
}

// DealService records and lists deals. Payment-provider settlement is outside
// this service; it only keeps the ledger.
type DealService interface {
	Record(ctx context.Context, d *Deal) (*Deal, error)
	ListForUser(ctx context.Context, userID, role string) ([]*Deal, error)
}
