package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"venturebridge/internal/delivery/http/helpers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/domain"
)

// RecordDealRequest is the request body for POST /deals
type RecordDealRequest struct {
	EntrepreneurID string  `json:"entrepreneur_id"`
	StartupName    string  `json:"startup_name"`
	Industry       string  `json:"industry"`
	Amount         float64 `json:"amount"`
	Equity         float64 `json:"equity"`
	Stage          string  `json:"stage"`
}

// Validate implements Validator.
func (d RecordDealRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.EntrepreneurID) == "" {
		errs = append(errs, "entrepreneur_id is required")
	}
	if strings.TrimSpace(d.StartupName) == "" {
		errs = append(errs, "startup_name is required")
	}
	if d.Amount <= 0 {
		errs = append(errs, "amount must be positive")
	}
	return errs
}

// DealController handles the deal ledger endpoints.
type DealController struct {
	Logger  *slog.Logger
	Service domain.DealService
	Users   domain.UserService
}

func NewDealController(logger *slog.Logger, svc domain.DealService, users domain.UserService) *DealController {
	return &DealController{
		Logger:  logger,
		Service: svc,
		Users:   users,
	}
}

// Record handles POST /deals. Investor only; the caller becomes the deal's
// investor.
func (c *DealController) Record(w http.ResponseWriter, r *http.Request) {
	user, ok := c.caller(w, r)
	if !ok {
		return
	}
	if user.Role != domain.RoleInvestor {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only investors can record deals")
		return
	}
	var req RecordDealRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	deal, err := c.Service.Record(r.Context(), &domain.Deal{
		InvestorID:     user.ID,
		EntrepreneurID: req.EntrepreneurID,
		StartupName:    req.StartupName,
		Industry:       req.Industry,
		Amount:         req.Amount,
		Equity:         req.Equity,
		Stage:          req.Stage,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, deal)
}

// List handles GET /deals. Returns the caller's deals for their side of the
// table.
func (c *DealController) List(w http.ResponseWriter, r *http.Request) {
	user, ok := c.caller(w, r)
	if !ok {
		return
	}
	deals, err := c.Service.ListForUser(r.Context(), user.ID, user.Role)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, deals)
}

func (c *DealController) caller(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	user, err := c.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return nil, false
	}
	return user, true
}
