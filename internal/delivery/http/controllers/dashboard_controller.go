package controllers

import (
	"log/slog"
	"net/http"

	"venturebridge/internal/delivery/http/helpers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/domain"
)

// DashboardController serves the role-specific aggregate views.
type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
	Users   domain.UserService
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService, users domain.UserService) *DashboardController {
	return &DashboardController{
		Logger:  logger,
		Service: svc,
		Users:   users,
	}
}

// Investor handles GET /dashboard/investor.
func (c *DashboardController) Investor(w http.ResponseWriter, r *http.Request) {
	user, ok := c.caller(w, r)
	if !ok {
		return
	}
	if user.Role != domain.RoleInvestor {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "investor dashboard requires an investor account")
		return
	}
	dash, err := c.Service.InvestorDashboard(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, dash)
}

// Entrepreneur handles GET /dashboard/entrepreneur.
func (c *DashboardController) Entrepreneur(w http.ResponseWriter, r *http.Request) {
	user, ok := c.caller(w, r)
	if !ok {
		return
	}
	if user.Role != domain.RoleEntrepreneur {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "entrepreneur dashboard requires an entrepreneur account")
		return
	}
	dash, err := c.Service.EntrepreneurDashboard(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, dash)
}

func (c *DashboardController) caller(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
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
