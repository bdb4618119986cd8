package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/matthewaubert/horizons-api/internal/config"
	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
)

// SendGridMailer implements Mailer using the SendGrid API.
type SendGridMailer struct {
	client *sendgrid.Client
	cfg    config.EmailConfig
}

// NewSendGridMailer creates a SendGridMailer from the email configuration.
// Returns an error if the key or from address is missing.
func NewSendGridMailer(cfg config.EmailConfig) (*SendGridMailer, error) {
	if cfg.SendGridKey == "" || cfg.FromAddress == "" {
		return nil, errors.New("sendgrid key and from address are required")
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.SendGridKey),
		cfg:    cfg,
	}, nil
}

// SendVerification implements the Mailer interface using SendGrid.
func (m *SendGridMailer) SendVerification(ctx context.Context, user *domain.User, token string) error {
	log := logger.FromContext(ctx)

	from := sgmail.NewEmail(m.cfg.FromName, m.cfg.FromAddress)
	to := sgmail.NewEmail(user.FullName(), user.Email)
	link := VerificationURL(m.cfg.FrontendBaseURL, token)

	subject := "Horizons Email Verification"
	plain := fmt.Sprintf("Hi, %s. Verify your email address: %s", user.FirstName, link)
	html := verificationHTML(user.FirstName, link, m.cfg.FromAddress)
	message := sgmail.NewSingleEmail(from, subject, to, plain, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Error("failed to send verification email",
			"error", err,
			"user_id", user.ID.Hex())
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	if response.StatusCode != http.StatusAccepted {
		err := fmt.Errorf("failed to send verification email, status code: %d", response.StatusCode)
		log.Error("verification email rejected",
			"status_code", response.StatusCode,
			"user_id", user.ID.Hex())
		return err
	}

	log.Info("verification email sent",
		"user_id", user.ID.Hex())
	return nil
}
