package http

import (
	"log/slog"
	"net/http"

	"venturebridge/internal/delivery/http/controllers"
	"venturebridge/internal/delivery/http/middleware"
	"venturebridge/internal/domain"
	"venturebridge/internal/realtime"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Users          *controllers.UserController
	Meetings       *controllers.MeetingController
	Collaborations *controllers.CollaborationController
	Deals          *controllers.DealController
	Messages       *controllers.MessageController
	Dashboards     *controllers.DashboardController
}

// NewRouter initializes the HTTP router with all application routes. Every
// route except signup and login sits behind RequireAuth; the websocket
// endpoint authenticates inside the hub so browser clients can pass the
// token as a query parameter.
func NewRouter(c Controllers, hub *realtime.Hub, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Users.SignUp)
	mux.HandleFunc("POST /auth/login", c.Users.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.Users.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.Users.UpdateMe))
	mux.HandleFunc("GET /users/{userID}", auth(c.Users.GetUser))

	// Meetings
	mux.HandleFunc("POST /meetings", auth(c.Meetings.Create))
	mux.HandleFunc("GET /meetings", auth(c.Meetings.List))
	mux.HandleFunc("GET /meetings/{meetingID}", auth(c.Meetings.Get))
	mux.HandleFunc("POST /meetings/{meetingID}/accept", auth(c.Meetings.Accept))
	mux.HandleFunc("POST /meetings/{meetingID}/reject", auth(c.Meetings.Reject))
	mux.HandleFunc("POST /meetings/{meetingID}/start", auth(c.Meetings.Start))
	mux.HandleFunc("POST /meetings/{meetingID}/end", auth(c.Meetings.End))
	mux.HandleFunc("POST /meetings/{meetingID}/cancel", auth(c.Meetings.Cancel))

	// Collaborations
	mux.HandleFunc("POST /collaborations", auth(c.Collaborations.Send))
	mux.HandleFunc("GET /collaborations", auth(c.Collaborations.List))
	mux.HandleFunc("GET /collaborations/accepted", auth(c.Collaborations.Accepted))
	mux.HandleFunc("POST /collaborations/{requestID}/respond", auth(c.Collaborations.Respond))
	mux.HandleFunc("POST /collaborations/{requestID}/withdraw", auth(c.Collaborations.Withdraw))

	// Deals
	mux.HandleFunc("POST /deals", auth(c.Deals.Record))
	mux.HandleFunc("GET /deals", auth(c.Deals.List))

	// Messages
	mux.HandleFunc("POST /messages", auth(c.Messages.Send))
	mux.HandleFunc("GET /messages/{peerID}", auth(c.Messages.Conversation))

	// Dashboards
	mux.HandleFunc("GET /dashboard/investor", auth(c.Dashboards.Investor))
	mux.HandleFunc("GET /dashboard/entrepreneur", auth(c.Dashboards.Entrepreneur))

	// Realtime
	mux.HandleFunc("GET /ws", hub.HandleWS)

	return mux
}
