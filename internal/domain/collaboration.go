package domain

import (
	"context"
	"time"
)

// Collaboration request states.
type CollaborationStatus string

const (
	CollaborationPending   CollaborationStatus = "pending"
	CollaborationAccepted  CollaborationStatus = "accepted"
	CollaborationRejected  CollaborationStatus = "rejected"
	CollaborationWithdrawn CollaborationStatus = "withdrawn"
)

// Collaboration relates one investor and one entrepreneur around a startup.
// Only accepted collaborations authorize meeting creation between the pair.
type Collaboration struct {
	ID             string              `json:"id"`
	InvestorID     string              `json:"investor_id"`
	EntrepreneurID string              `json:"entrepreneur_id"`
	StartupName    string              `json:"startup_name"`
	Message        string              `json:"message"`
	Status         CollaborationStatus `json:"status"`
	RespondedAt    *time.Time          `json:"responded_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CollaborationRepository defines storage operations for collaborations.
type CollaborationRepository interface {
	Create(ctx context.Context, c *Collaboration) error
	GetByID(ctx context.Context, id string) (*Collaboration, error)
	// ExistsAccepted reports whether an accepted collaboration exists
	// between the unordered pair {a, b}.
	ExistsAccepted(ctx context.Context, a, b string) (bool, error)
	// FindActive returns the latest pending or accepted collaboration for
	// the (investor, entrepreneur) pair, or ErrNotFound.
	FindActive(ctx context.Context, investorID, entrepreneurID string) (*Collaboration, error)
	// ListByUserID returns collaborations where the user is either party,
	// newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Collaboration, error)
	UpdateStatus(ctx context.Context, id string, status CollaborationStatus, respondedAt *time.Time) error
}

// CollaborationCounts summarizes a user's requests by status.
type CollaborationCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// CollaborationGate answers whether two identities may schedule meetings
// together. Pure read, used only as a guard.
type CollaborationGate interface {
	IsAccepted(ctx context.Context, a, b string) (bool, error)
}

// CollaborationService defines the request/response flow between investors
// and entrepreneurs, and implements CollaborationGate.
type CollaborationService interface {
	CollaborationGate

	// SendRequest creates a pending request from an investor to an
	// entrepreneur. Rejects duplicates that are still pending or accepted.
	SendRequest(ctx context.Context, investorID, entrepreneurID, startupName, message string) (*Collaboration, error)
	// Respond lets the entrepreneur accept or reject a pending request.
	Respond(ctx context.Context, requestID, entrepreneurID string, accept bool) (*Collaboration, error)
	// Withdraw lets the investor retract a pending request.
	Withdraw(ctx context.Context, requestID, investorID string) (*Collaboration, error)
	ListForUser(ctx context.Context, userID string) ([]*Collaboration, CollaborationCounts, error)
	// ListAcceptedCollaborators returns the counterpart users of every
	// accepted collaboration for userID.
	ListAcceptedCollaborators(ctx context.Context, userID string) ([]*User, error)
}
