package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"venturebridge/internal/delivery/http/helpers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/domain"
)

// SendMessageRequest is the request body for POST /messages
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// Validate implements Validator.
func (s SendMessageRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.ReceiverID) == "" {
		errs = append(errs, "receiver_id is required")
	}
	if strings.TrimSpace(s.Content) == "" {
		errs = append(errs, "content is required")
	}
	return errs
}

// MessageController handles chat persistence endpoints. Live delivery goes
// through the notifier so open websocket clients see HTTP-sent messages too.
type MessageController struct {
	Logger   *slog.Logger
	Service  domain.MessageService
	Notifier domain.MessageNotifier
}

func NewMessageController(logger *slog.Logger, svc domain.MessageService, notifier domain.MessageNotifier) *MessageController {
	return &MessageController{
		Logger:   logger,
		Service:  svc,
		Notifier: notifier,
	}
}

// Send handles POST /messages.
func (c *MessageController) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SendMessageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	msg, err := c.Service.Send(r.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if c.Notifier != nil {
		c.Notifier.MessageSent(msg)
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, msg)
}

// Conversation handles GET /messages/{peerID}. Both directions, oldest first.
func (c *MessageController) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	peerID := r.PathValue("peerID")
	if peerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing peer id")
		return
	}
	params := helpers.ParsePagination(r)
	messages, err := c.Service.Conversation(r.Context(), userID, peerID, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, messages)
}
