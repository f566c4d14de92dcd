package sink

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// MailSender submits one raw RFC 2822 message, base64url-encoded.
type MailSender interface {
	Send(ctx context.Context, raw string) error
}

// EmailSink renders the payment-failure alert and dispatches it through a
// MailSender. Transport failure is error-logged and returned as a failed
// Outcome; it is never raised and never retried.
type EmailSink struct {
	sender MailSender
	to     string
	log    activitylog.Log
}

func NewEmailSink(sender MailSender, to string, log activitylog.Log) *EmailSink {
	return &EmailSink{sender: sender, to: to, log: log}
}

func (s *EmailSink) Notify(ctx context.Context, payment domain.FailedPayment) Outcome {
	raw := EncodeMessage(s.to, alertSubject(payment), AlertBody(payment))

	if err := s.sender.Send(ctx, raw); err != nil {
		s.log.Record(ctx, fmt.Sprintf("Failed to send alert email for %s: %v", payment.ID, err), domain.LevelError)
		return Outcome{Sink: "email", Err: fmt.Errorf("sending alert email: %w", err)}
	}

	s.log.Record(ctx, fmt.Sprintf("Alert email sent for %s", payment.ID), domain.LevelSuccess)
	return Outcome{Sink: "email"}
}

func alertSubject(payment domain.FailedPayment) string {
	return fmt.Sprintf("Payment failed: $%s %s", payment.AmountDisplay(), payment.CurrencyDisplay())
}

// AlertBody renders the fixed HTML alert template.
func AlertBody(payment domain.FailedPayment) string {
	var b strings.Builder

	b.WriteString("<h2>Payment Failed</h2>")
	fmt.Fprintf(&b, "<p><strong>Amount:</strong> $%s %s</p>", payment.AmountDisplay(), payment.CurrencyDisplay())
	fmt.Fprintf(&b, "<p><strong>Reason:</strong> %s</p>", payment.FailureReason)
	if payment.CustomerEmail != "" {
		fmt.Fprintf(&b, "<p><strong>Customer:</strong> %s</p>", payment.CustomerEmail)
	}
	fmt.Fprintf(&b, "<p><strong>Failed at:</strong> %s</p>", time.Unix(payment.CreatedAt, 0).UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, `<p><a href="%s">View in Stripe dashboard</a></p>`, payment.DashboardURL())

	return b.String()
}

// EncodeMessage assembles a MIME text/html message and encodes it the way the
// Gmail API requires: base64url with padding stripped.
func EncodeMessage(to, subject, htmlBody string) string {
	var msg strings.Builder

	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(msg.String()))
}

// GmailSender sends through the Gmail API as the authenticated account.
type GmailSender struct {
	svc *gmail.Service
}

// GmailCredentials holds the OAuth material for the sending account.
type GmailCredentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// NewGmailSender builds a Gmail client backed by a self-refreshing token
// source seeded from the configured access and refresh tokens.
func NewGmailSender(ctx context.Context, creds GmailCredentials) (*GmailSender, error) {
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}

	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       time.Now(), // force a refresh on first use
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}

	return &GmailSender{svc: svc}, nil
}

func (g *GmailSender) Send(ctx context.Context, raw string) error {
	_, err := g.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	return err
}
