package domain

import (
	"context"
	"time"
)

// Meeting lifecycle states.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingLive      MeetingStatus = "live"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Per-participant invitation states.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantRejected ParticipantStatus = "rejected"
)

// MeetingEvent is an organizer-driven lifecycle transition.
type MeetingEvent string

const (
	MeetingEventStart  MeetingEvent = "start"
	MeetingEventEnd    MeetingEvent = "end"
	MeetingEventCancel MeetingEvent = "cancel"
)

// meetingTransitions is the full transition table. Any (state, event) pair
// not listed here is invalid.
var meetingTransitions = map[MeetingStatus]map[MeetingEvent]MeetingStatus{
	MeetingScheduled: {
		MeetingEventStart:  MeetingLive,
		MeetingEventCancel: MeetingCancelled,
	},
	MeetingLive: {
		MeetingEventEnd: MeetingCompleted,
	},
}

// NextMeetingStatus returns the state reached by applying event in the given
// state, or false if the transition is not allowed.
func NextMeetingStatus(from MeetingStatus, event MeetingEvent) (MeetingStatus, bool) {
	to, ok := meetingTransitions[from][event]
	return to, ok
}

// Participant is a user invited to a meeting, with their invitation status.
// The organizer is always present with status accepted.
type Participant struct {
	UserID string            `json:"user_id"`
	Status ParticipantStatus `json:"status"`
}

// Meeting is a scheduled or live session between an organizer and invited
// collaborators. RoomID and RoomURL are nil until assigned; once set they
// never change.
type Meeting struct {
	ID           string        `json:"id"`
	OrganizerID  string        `json:"organizer_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Status       MeetingStatus `json:"status"`
	RoomID       *string       `json:"room_id"`
	RoomURL      *string       `json:"room_url"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ParticipantByUserID returns the participant entry for userID, if present.
func (m *Meeting) ParticipantByUserID(userID string) (Participant, bool) {
	for _, p := range m.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// ParticipantIDs returns the user ids of all participants, organizer included.
func (m *Meeting) ParticipantIDs() []string {
	ids := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// MeetingRepository defines storage operations for meetings and their
// participant rows.
type MeetingRepository interface {
	Create(ctx context.Context, m *Meeting) error
	GetByID(ctx context.Context, id string) (*Meeting, error)
	// ListByUserID returns meetings where the user is organizer or
	// participant, ordered by start time ascending.
	ListByUserID(ctx context.Context, userID string) ([]*Meeting, error)
	// CountOverlapping counts meetings that share any of userIDs as a
	// participant and intersect the half-open interval [start, end).
	CountOverlapping(ctx context.Context, userIDs []string, start, end time.Time) (int, error)
	UpdateStatus(ctx context.Context, id string, status MeetingStatus) error
	// AssignRoom sets room_id and room_url only if room_id is still null.
	AssignRoom(ctx context.Context, id, roomID, roomURL string) error
	UpdateParticipantStatus(ctx context.Context, meetingID, userID string, status ParticipantStatus) error
}

// CreateMeetingInput carries the organizer-supplied fields for meeting creation.
type CreateMeetingInput struct {
	ParticipantIDs []string
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        time.Time
	RoomURL        string
}

// MeetingNotifier publishes meeting lifecycle events to connected clients.
// Implementations must be safe for concurrent use; publishing to nobody is a
// no-op.
type MeetingNotifier interface {
	MeetingStarted(meetingID, roomID, roomURL string)
}

// MeetingService owns the meeting state machine, the collaboration gating
// rule, and time-conflict detection.
type MeetingService interface {
	Create(ctx context.Context, organizerID string, in CreateMeetingInput) (*Meeting, error)
	// Respond records the caller's accept/reject of their own invitation.
	Respond(ctx context.Context, meetingID, callerID string, accept bool) (*Meeting, error)
	Start(ctx context.Context, meetingID, callerID string) (*Meeting, error)
	End(ctx context.Context, meetingID, callerID string) (*Meeting, error)
	Cancel(ctx context.Context, meetingID, callerID string) (*Meeting, error)
	ListForUser(ctx context.Context, userID string) ([]*Meeting, error)
	GetByID(ctx context.Context, meetingID string) (*Meeting, error)
}
