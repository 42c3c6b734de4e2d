package utils

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/config"
	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/services"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService tells submitters about moderation decisions over SMTP
type EmailService struct {
	config   *config.EmailConfig
	logger   *zap.Logger
	sendMail sendMailFunc
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig, log *zap.Logger) *EmailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmailService{
		config:   cfg,
		logger:   log,
		sendMail: smtp.SendMail,
	}
}

// Notify emails the submitter, if the profile carries a contact email
func (e *EmailService) Notify(ctx context.Context, ev services.ModerationEvent) error {
	if ev.Profile.Email == nil || strings.TrimSpace(*ev.Profile.Email) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := strings.TrimSpace(*ev.Profile.Email)
	subject, body := moderationMessage(ev)
	if err := e.sendEmail(to, subject, body); err != nil {
		return err
	}

	e.logger.Info("moderation email sent",
		zap.String("handle", ev.Profile.Handle),
		zap.String("action", string(ev.Action)),
		zap.String("to", logger.MaskEmail(to)),
	)
	return nil
}

func moderationMessage(ev services.ModerationEvent) (string, string) {
	handle := "@" + ev.Profile.Handle
	switch ev.Action {
	case services.ActionApproved:
		return "Your profile is now listed", fmt.Sprintf(`
Hello,

Good news: %s has been approved and is now listed in the IG Directory.

You can see it here: %s

Best regards,
IG Directory Team
`, handle, ev.Profile.InstagramURL)
	case services.ActionRejected:
		return "Your profile submission was not approved", fmt.Sprintf(`
Hello,

Your submission for %s was reviewed and was not approved.

You are welcome to submit again.

Best regards,
IG Directory Team
`, handle)
	default:
		return "Your profile was removed", fmt.Sprintf(`
Hello,

%s has been removed from the IG Directory.

Best regards,
IG Directory Team
`, handle)
	}
}

// sendEmail sends an email using SMTP
func (e *EmailService) sendEmail(to, subject, body string) error {
	if e.config.SMTPUsername == "" || e.config.SMTPPassword == "" {
		return fmt.Errorf("email credentials not configured")
	}
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient address")
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)

	fromEmail := e.config.FromEmail
	if fromEmail == "" {
		fromEmail = e.config.SMTPUsername
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		e.config.FromName, fromEmail, to, subject, body))

	addr := e.config.SMTPHost + ":" + e.config.SMTPPort
	if err := e.sendMail(addr, auth, fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var _ services.Notifier = (*EmailService)(nil)
