package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/delbi-restaurant/reservations-api/internal/config"
	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/utils"
)

// Mailer dispatches transactional email to customers.
type Mailer interface {
	// SendVerificationCode emails a verification code to a customer.
	SendVerificationCode(ctx context.Context, email, name, code string) error
	// SendStatusEmail emails a status-specific notification for a reservation.
	SendStatusEmail(ctx context.Context, reservation *models.Reservation) error
}

// statusMessage holds the customer-facing copy for one reservation status.
type statusMessage struct {
	Title string
	Body  string
}

var statusMessages = map[string]statusMessage{
	models.StatusPending: {
		Title: "Reservation Request Received",
		Body:  "We have received your reservation request and it is currently under review. We will notify you once it has been confirmed.",
	},
	models.StatusConfirmed: {
		Title: "Reservation Confirmed",
		Body:  "We are pleased to inform you that your reservation has been confirmed! We look forward to serving you.",
	},
	models.StatusCancelled: {
		Title: "Reservation Cancelled",
		Body:  "Your reservation has been cancelled. If you did not request this cancellation, please contact us.",
	},
	models.StatusCompleted: {
		Title: "Thank You for Dining With Us",
		Body:  "Thank you for dining with us! We hope you enjoyed your experience.",
	},
}

// SMTPMailer sends email through a configured SMTP relay using gomail.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer creates a mailer bound to the SMTP settings in cfg.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// send dispatches a message with a bounded wait; SMTP stalls must not block
// the workflow that triggered the email.
func (m *SMTPMailer) send(ctx context.Context, msg *gomail.Message) error {
	if m.cfg.SMTPHost == "" || m.cfg.EmailFrom == "" {
		return fmt.Errorf("smtp transport not configured")
	}

	done := make(chan error, 1)
	go func() {
		d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
		done <- d.DialAndSend(msg)
	}()

	timeout := m.cfg.EmailTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("send email: timed out after %s", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendVerificationCode emails a 6-digit verification code to the customer.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, name, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("Delbi Restaurant <%s>", m.cfg.EmailFrom))
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your Reservation Verification Code - Delbi Restaurant")
	msg.SetBody("text/html", buildVerificationBody(name, code, m.cfg.VerificationCodeTTL))

	if err := m.send(ctx, msg); err != nil {
		return err
	}

	observability.Logger().Info("verification code email sent",
		zap.String("email", observability.MaskEmail(email)))
	return nil
}

// SendStatusEmail emails the status-specific notification for a reservation.
func (m *SMTPMailer) SendStatusEmail(ctx context.Context, reservation *models.Reservation) error {
	if reservation.Email == "" {
		return fmt.Errorf("no email address on reservation")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("Delbi Restaurant <%s>", m.cfg.EmailFrom))
	msg.SetHeader("To", reservation.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Reservation %s: Delbi Restaurant", titleCase(reservation.Status)))
	msg.SetBody("text/html", buildStatusBody(reservation))

	if err := m.send(ctx, msg); err != nil {
		return err
	}

	observability.Logger().Info("status email sent",
		zap.String("email", observability.MaskEmail(reservation.Email)),
		zap.String("status", reservation.Status))
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func buildVerificationBody(name, code string, ttl time.Duration) string {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Hello %s,</h2>
  <p>Thank you for booking with Delbi Restaurant. Please use the following verification code to complete your reservation:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0;">
    <h1 style="color: #2d3748; margin: 0; font-size: 32px;">%s</h1>
  </div>
  <p>This code expires in %d minutes.</p>
  <p>If you did not request this code, please ignore this email.</p>
  <p>Best regards,<br>The Delbi Restaurant Team</p>
</div>`, name, code, int(ttl.Minutes()))
}

func buildStatusBody(reservation *models.Reservation) string {
	msg, ok := statusMessages[reservation.Status]
	if !ok {
		msg = statusMessage{Title: "Reservation Update", Body: "Your reservation status has been updated."}
	}

	formattedDate := reservation.Date
	if d, err := time.Parse(utils.DateLayout, reservation.Date); err == nil {
		formattedDate = d.Format("Monday, January 2, 2006")
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eaeaea; border-radius: 5px;">
  <div style="text-align: center; padding-bottom: 20px; border-bottom: 1px solid #eaeaea;">
    <h1 style="color: #333; margin-bottom: 5px;">%s</h1>
  </div>
  <div style="padding: 20px 0;">
    <p>Dear %s,</p>
    <p>%s</p>
    <p>Reservation Details:</p>
    <ul>
      <li>Date: %s</li>
      <li>Time: %s</li>
      <li>Status: <strong>%s</strong></li>
    </ul>
    <p>If you have any questions or need to make changes, please contact us.</p>
  </div>
  <div style="padding-top: 20px; border-top: 1px solid #eaeaea; text-align: center; color: #666; font-size: 14px;">
    <p>Delbi Restaurant</p>
    <p>Thank you for choosing us!</p>
  </div>
</div>`, msg.Title, reservation.Name, msg.Body, formattedDate, reservation.Time, titleCase(reservation.Status))
}
