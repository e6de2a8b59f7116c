// Package mail composes and sends the application's templated HTML emails.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
)

type iMailer interface {
	Send(to, subject, htmlBody string) error
}

type Service struct {
	mailer    iMailer
	clientURL string
	logger    *slog.Logger
}

func NewService(mailer iMailer, clientURL string, logger *slog.Logger) *Service {
	return &Service{
		mailer:    mailer,
		clientURL: clientURL,
		logger:    logger,
	}
}

func (s *Service) SendProjectInvitation(ctx context.Context, to, projectName, inviterName, token string) error {
	var body bytes.Buffer
	err := invitationTmpl.Execute(&body, map[string]string{
		"ProjectName": projectName,
		"InviterName": inviterName,
		"AcceptURL":   fmt.Sprintf("%s/invite/%s", s.clientURL, token),
	})
	if err != nil {
		return fmt.Errorf("failed to render invitation email: %w", err)
	}

	subject := fmt.Sprintf("%s invited you to %s", inviterName, projectName)
	if err := s.mailer.Send(to, subject, body.String()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "invitation email sent", "to", to, "project", projectName)

	return nil
}

// SendWelcome greets a new member. projectName may be empty for users who
// registered without an invitation.
func (s *Service) SendWelcome(ctx context.Context, to, name, projectName string) error {
	var body bytes.Buffer
	err := welcomeTmpl.Execute(&body, map[string]string{
		"Name":        name,
		"ProjectName": projectName,
		"ClientURL":   s.clientURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	if err := s.mailer.Send(to, "Welcome to WORKORG", body.String()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "welcome email sent", "to", to)

	return nil
}

func (s *Service) SendVerification(ctx context.Context, to, name, token string) error {
	var body bytes.Buffer
	err := verificationTmpl.Execute(&body, map[string]string{
		"Name":      name,
		"VerifyURL": fmt.Sprintf("%s/verify-email?token=%s", s.clientURL, token),
	})
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	if err := s.mailer.Send(to, "Verify your email address", body.String()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "verification email sent", "to", to)

	return nil
}
