package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"venturebridge/internal/delivery/http/helpers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/domain"
)

// SendCollaborationRequest is the request body for POST /collaborations
type SendCollaborationRequest struct {
	EntrepreneurID string `json:"entrepreneur_id"`
	StartupName    string `json:"startup_name"`
	Message        string `json:"message"`
}

// Validate implements Validator.
func (s SendCollaborationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.EntrepreneurID) == "" {
		errs = append(errs, "entrepreneur_id is required")
	}
	if strings.TrimSpace(s.StartupName) == "" {
		errs = append(errs, "startup_name is required")
	}
	return errs
}

// RespondCollaborationRequest is the request body for POST /collaborations/{requestID}/respond
type RespondCollaborationRequest struct {
	Accept bool `json:"accept"`
}

// CollaborationListResponse is the response body for GET /collaborations
type CollaborationListResponse struct {
	Collaborations []*domain.Collaboration    `json:"collaborations"`
	Counts         domain.CollaborationCounts `json:"counts"`
}

// CollaborationController handles collaboration request endpoints.
type CollaborationController struct {
	Logger  *slog.Logger
	Service domain.CollaborationService
}

func NewCollaborationController(logger *slog.Logger, svc domain.CollaborationService) *CollaborationController {
	return &CollaborationController{
		Logger:  logger,
		Service: svc,
	}
}

// Send handles POST /collaborations. Investor only.
func (c *CollaborationController) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SendCollaborationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	collab, err := c.Service.SendRequest(r.Context(), userID, req.EntrepreneurID, req.StartupName, req.Message)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, collab)
}

// List handles GET /collaborations. Returns the caller's requests with status counts.
func (c *CollaborationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	collabs, counts, err := c.Service.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CollaborationListResponse{Collaborations: collabs, Counts: counts})
}

// Respond handles POST /collaborations/{requestID}/respond. Entrepreneur only.
func (c *CollaborationController) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RespondCollaborationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	collab, err := c.Service.Respond(r.Context(), r.PathValue("requestID"), userID, req.Accept)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, collab)
}

// Withdraw handles POST /collaborations/{requestID}/withdraw. Investor only.
func (c *CollaborationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	collab, err := c.Service.Withdraw(r.Context(), r.PathValue("requestID"), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, collab)
}

// Accepted handles GET /collaborations/accepted. Returns the caller's
// accepted counterparts, the pool a meeting's invitees come from.
func (c *CollaborationController) Accepted(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	users, err := c.Service.ListAcceptedCollaborators(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}
