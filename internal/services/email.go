package services

import (
	"context"
	"fmt"
	"log"

	"venturebridge/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendMeetingInvitation sends the meeting invitation email using the "meeting_invitation" template.
func (s *emailService) SendMeetingInvitation(ctx context.Context, data *domain.MeetingInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("meeting invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("meeting_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render meeting_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send meeting invitation email: %w", err)
	}
	log.Printf("[EMAIL] Meeting invitation sent to %s", data.Email)
	return nil
}

// SendCollaborationRequest sends the collaboration request email using the "collaboration_request" template.
func (s *emailService) SendCollaborationRequest(ctx context.Context, data *domain.CollaborationRequestEmailData) error {
	if data == nil {
		return fmt.Errorf("collaboration request data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("collaboration_request", data)
	if err != nil {
		return fmt.Errorf("failed to render collaboration_request template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send collaboration request email: %w", err)
	}
	log.Printf("[EMAIL] Collaboration request sent to %s", data.Email)
	return nil
}
