// Package mail sends transactional email for the application.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
)

// Mailer delivers the account verification email.
type Mailer interface {
	// SendVerification sends the verification link carrying token to the
	// user's email address.
	SendVerification(ctx context.Context, user *domain.User, token string) error
}

// VerificationURL builds the frontend link the email points at.
func VerificationURL(baseURL, token string) string {
	return fmt.Sprintf("%sverify-email?token=%s", baseURL, url.QueryEscape(token))
}

// verificationHTML renders the email body for the given recipient name and
// verification link.
func verificationHTML(name, link, supportAddress string) string {
	return fmt.Sprintf(`
    <p>Hi, %s. Thanks for using Horizons!</p>
    <p>
      To verify that this is your email address, <a href="%[2]s">please click here</a>
      or copy and paste the link below into your browser, and you'll be sent to a page
      where you can get started writing your own posts.
    </p>
    <p>Link: <a href="%[2]s">%[2]s</a></p>
    <p>
      If you have any trouble, please feel free to email
      <a href="mailto:%[3]s">%[3]s</a>
    </p>
    <p>Sincerely,<br />The Horizons team</p>
  `, name, link, supportAddress)
}

// LogMailer is a no-delivery Mailer that logs the verification link. It backs
// development and test configurations without a SendGrid key.
type LogMailer struct{}

// SendVerification implements Mailer by logging instead of delivering.
func (LogMailer) SendVerification(ctx context.Context, user *domain.User, token string) error {
	logger.FromContext(ctx).Info("verification email suppressed (no mail provider configured)",
		slog.String("email", user.Email),
		slog.String("user_id", user.ID.Hex()))
	return nil
}
