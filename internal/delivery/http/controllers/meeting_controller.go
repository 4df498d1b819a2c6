package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"venturebridge/internal/delivery/http/helpers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/domain"
)

// CreateMeetingRequest is the request body for POST /meetings
type CreateMeetingRequest struct {
	Participants []string  `json:"participants"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	RoomURL      string    `json:"room_url"`
}

// Validate implements Validator.
func (m CreateMeetingRequest) Validate() []string {
	var errs []string
	if len(m.Participants) == 0 {
		errs = append(errs, "participants are required")
	}
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, "title is required")
	}
	if m.StartTime.IsZero() {
		errs = append(errs, "start_time is required")
	}
	if m.EndTime.IsZero() {
		errs = append(errs, "end_time is required")
	}
	return errs
}

// MeetingController handles meeting scheduling and lifecycle endpoints.
type MeetingController struct {
	Logger  *slog.Logger
	Service domain.MeetingService
}

func NewMeetingController(logger *slog.Logger, svc domain.MeetingService) *MeetingController {
	return &MeetingController{
		Logger:  logger,
		Service: svc,
	}
}

// Create handles POST /meetings.
func (c *MeetingController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateMeetingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	meeting, err := c.Service.Create(r.Context(), userID, domain.CreateMeetingInput{
		ParticipantIDs: req.Participants,
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RoomURL:        req.RoomURL,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, meeting)
}

// List handles GET /meetings. Returns the caller's meetings, start time ascending.
func (c *MeetingController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	meetings, err := c.Service.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meetings)
}

// Get handles GET /meetings/{meetingID}. Only listed participants may view.
func (c *MeetingController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	meeting, err := c.Service.GetByID(r.Context(), r.PathValue("meetingID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if _, ok := meeting.ParticipantByUserID(userID); !ok {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not a participant")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meeting)
}

// Accept handles POST /meetings/{meetingID}/accept.
func (c *MeetingController) Accept(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, true)
}

// Reject handles POST /meetings/{meetingID}/reject.
func (c *MeetingController) Reject(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, false)
}

func (c *MeetingController) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	meeting, err := c.Service.Respond(r.Context(), r.PathValue("meetingID"), userID, accept)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meeting)
}

// Start handles POST /meetings/{meetingID}/start. Organizer only.
func (c *MeetingController) Start(w http.ResponseWriter, r *http.Request) {
	c.lifecycle(w, r, c.Service.Start)
}

// End handles POST /meetings/{meetingID}/end. Organizer only.
func (c *MeetingController) End(w http.ResponseWriter, r *http.Request) {
	c.lifecycle(w, r, c.Service.End)
}

// Cancel handles POST /meetings/{meetingID}/cancel. Organizer only.
func (c *MeetingController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.lifecycle(w, r, c.Service.Cancel)
}

func (c *MeetingController) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, meetingID, callerID string) (*domain.Meeting, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	meeting, err := op(r.Context(), r.PathValue("meetingID"), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meeting)
}
