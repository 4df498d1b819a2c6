package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"venturebridge/internal/domain"
)

type meetingService struct {
	meetingRepo    domain.MeetingRepository
	gate           domain.CollaborationGate
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	notifier       domain.MeetingNotifier
	logger         *slog.Logger
	clientURL      string
	contextTimeout time.Duration
}

// NewMeetingService creates a MeetingService. emailService and notifier may be
// nil; invitation emails and start broadcasts are then skipped.
func NewMeetingService(meetingRepo domain.MeetingRepository,
	gate domain.CollaborationGate,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	notifier domain.MeetingNotifier,
	logger *slog.Logger,
	clientURL string,
	timeout time.Duration,
) domain.MeetingService {
	return &meetingService{
		meetingRepo:    meetingRepo,
		gate:           gate,
		userRepo:       userRepo,
		emailService:   emailService,
		notifier:       notifier,
		logger:         logger,
		clientURL:      clientURL,
		contextTimeout: timeout,
	}
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	roomTokenLength   = 12
)

var roomTokenAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateRoomToken() (string, error) {
	b := make([]rune, roomTokenLength)
	max := big.NewInt(int64(len(roomTokenAlphabet)))
	for i := 0; i < roomTokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = roomTokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *meetingService) Create(ctx context.Context, organizerID string, in domain.CreateMeetingInput) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Validation runs before any gate or store access.
	if len(in.ParticipantIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", domain.ErrInvalidInput)
	}
	if in.Title == "" || len(in.Title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title is required and at most %d characters", domain.ErrInvalidInput, maxTitleLen)
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description is at most %d characters", domain.ErrInvalidInput, maxDescriptionLen)
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}

	// Dedupe invitees; the organizer is added separately.
	seen := map[string]struct{}{organizerID: {}}
	invitees := make([]string, 0, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty participant id", domain.ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		invitees = append(invitees, id)
	}
	if len(invitees) == 0 {
		return nil, fmt.Errorf("%w: at least one participant besides the organizer is required", domain.ErrInvalidInput)
	}

	// Every invitee must have an accepted collaboration with the organizer.
	for _, id := range invitees {
		ok, err := s.gate.IsAccepted(ctx, organizerID, id)
		if err != nil {
			return nil, fmt.Errorf("check collaboration: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: meetings can only be created with accepted collaborators", domain.ErrForbidden)
		}
	}

	// Conflict detection over the full participant set, organizer included.
	// Check-then-insert: not isolated against concurrent creations.
	allIDs := append(append([]string{}, invitees...), organizerID)
	count, err := s.meetingRepo.CountOverlapping(ctx, allIDs, in.StartTime, in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: one or more participants already have a meeting in this time range", domain.ErrConflict)
	}

	token, err := generateRoomToken()
	if err != nil {
		return nil, fmt.Errorf("generate room token: %w", err)
	}

	now := time.Now()
	m := &domain.Meeting{
		OrganizerID: organizerID,
		Title:       in.Title,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      domain.MeetingScheduled,
		RoomID:      &token,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.RoomURL != "" {
		m.RoomURL = &in.RoomURL
	}
	for _, id := range invitees {
		m.Participants = append(m.Participants, domain.Participant{UserID: id, Status: domain.ParticipantPending})
	}
	m.Participants = append(m.Participants, domain.Participant{UserID: organizerID, Status: domain.ParticipantAccepted})

	if err := s.meetingRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	s.sendInvitations(ctx, m, invitees)
	return m, nil
}

// sendInvitations emails the invitees. Failures are logged, never surfaced:
// the meeting is already persisted.
func (s *meetingService) sendInvitations(ctx context.Context, m *domain.Meeting, invitees []string) {
	if s.emailService == nil {
		return
	}
	organizer, err := s.userRepo.GetByID(ctx, m.OrganizerID)
	if err != nil {
		s.logger.Warn("skip invitation emails", "meeting_id", m.ID, "err", err)
		return
	}
	users, err := s.userRepo.GetByIDs(ctx, invitees)
	if err != nil {
		s.logger.Warn("skip invitation emails", "meeting_id", m.ID, "err", err)
		return
	}
	for _, u := range users {
		data := &domain.MeetingInvitationEmailData{
			Email:         u.Email,
			OrganizerName: organizer.Name,
			Title:         m.Title,
			StartTime:     m.StartTime.Format(time.RFC1123),
			EndTime:       m.EndTime.Format(time.RFC1123),
		}
		if err := s.emailService.SendMeetingInvitation(ctx, data); err != nil {
			s.logger.Warn("invitation email failed", "meeting_id", m.ID, "email", u.Email, "err", err)
		}
	}
}

func (s *meetingService) Respond(ctx context.Context, meetingID, callerID string, accept bool) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if _, ok := m.ParticipantByUserID(callerID); !ok {
		return nil, fmt.Errorf("%w: you are not a participant in this meeting", domain.ErrForbidden)
	}
	if m.Status != domain.MeetingScheduled {
		return nil, fmt.Errorf("%w: can only respond to a scheduled meeting", domain.ErrInvalidTransition)
	}

	status := domain.ParticipantRejected
	if accept {
		status = domain.ParticipantAccepted
	}
	if err := s.meetingRepo.UpdateParticipantStatus(ctx, meetingID, callerID, status); err != nil {
		return nil, fmt.Errorf("update participant status: %w", err)
	}
	for i := range m.Participants {
		if m.Participants[i].UserID == callerID {
			m.Participants[i].Status = status
		}
	}
	return m, nil
}

func (s *meetingService) Start(ctx context.Context, meetingID, callerID string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.transition(ctx, meetingID, callerID, domain.MeetingEventStart)
	if err != nil {
		return nil, err
	}

	if m.RoomID == nil {
		token, err := generateRoomToken()
		if err != nil {
			return nil, fmt.Errorf("generate room token: %w", err)
		}
		roomURL := fmt.Sprintf("%s/meeting/%s", s.clientURL, token)
		if err := s.meetingRepo.AssignRoom(ctx, meetingID, token, roomURL); err != nil {
			return nil, fmt.Errorf("assign room: %w", err)
		}
		// Re-read: a concurrent start may have won the room assignment.
		m, err = s.meetingRepo.GetByID(ctx, meetingID)
		if err != nil {
			return nil, fmt.Errorf("get meeting: %w", err)
		}
	}

	// Broadcast only after the durable state change.
	if s.notifier != nil {
		roomID, roomURL := "", ""
		if m.RoomID != nil {
			roomID = *m.RoomID
		}
		if m.RoomURL != nil {
			roomURL = *m.RoomURL
		}
		s.notifier.MeetingStarted(m.ID, roomID, roomURL)
	}
	return m, nil
}

func (s *meetingService) End(ctx context.Context, meetingID, callerID string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.transition(ctx, meetingID, callerID, domain.MeetingEventEnd)
}

func (s *meetingService) Cancel(ctx context.Context, meetingID, callerID string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.transition(ctx, meetingID, callerID, domain.MeetingEventCancel)
}

// transition applies an organizer-only lifecycle event through the transition
// table and persists the new status.
func (s *meetingService) transition(ctx context.Context, meetingID, callerID string, event domain.MeetingEvent) (*domain.Meeting, error) {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if m.OrganizerID != callerID {
		return nil, fmt.Errorf("%w: only the organizer can %s this meeting", domain.ErrForbidden, event)
	}
	next, ok := domain.NextMeetingStatus(m.Status, event)
	if !ok {
		return nil, fmt.Errorf("%w: cannot %s a %s meeting", domain.ErrInvalidTransition, event, m.Status)
	}
	if err := s.meetingRepo.UpdateStatus(ctx, meetingID, next); err != nil {
		return nil, fmt.Errorf("update meeting status: %w", err)
	}
	m.Status = next
	return m, nil
}

func (s *meetingService) ListForUser(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meetings, err := s.meetingRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	if meetings == nil {
		meetings = []*domain.Meeting{}
	}
	return meetings, nil
}

func (s *meetingService) GetByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return m, nil
}
