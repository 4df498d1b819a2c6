package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// MeetingInvitationEmailData holds data for the meeting invitation email.
type MeetingInvitationEmailData struct {
	Email         string
	OrganizerName string
	Title         string
	StartTime     string
	EndTime       string
}

// CollaborationRequestEmailData holds data for the collaboration request email.
type CollaborationRequestEmailData struct {
	Email        string
	InvestorName string
	StartupName  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendMeetingInvitation(ctx context.Context, data *MeetingInvitationEmailData) error
	SendCollaborationRequest(ctx context.Context, data *CollaborationRequestEmailData) error
}
