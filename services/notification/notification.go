// Package notification delivers booking confirmation email. Delivery
// failures never roll back a reservation; callers log and tell the guest the
// mail is pending.
package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"george/models"
)

// Service sends booking mail to guests.
type Service interface {
	SendBookingConfirmation(ctx context.Context, res *models.Reservation) error
	SendCheckInReminder(ctx context.Context, res *models.Reservation) error
}

// SMTPService sends confirmation mail through a plain SMTP relay.
type SMTPService struct {
	Host     string
	Port     int
	User     string
	Password string
	Logger   *zap.Logger
}

func NewSMTPService(host string, port int, user, password string, logger *zap.Logger) *SMTPService {
	return &SMTPService{Host: host, Port: port, User: user, Password: password, Logger: logger}
}

func (s *SMTPService) SendBookingConfirmation(_ context.Context, res *models.Reservation) error {
	subject := fmt.Sprintf("Booking Confirmation - %s", res.BookingNumber)
	if err := s.send(res.Email, subject, confirmationBody(res)); err != nil {
		return fmt.Errorf("failed to send confirmation email to %s: %w", res.Email, err)
	}

	s.Logger.Info("confirmation email sent",
		zap.String("to", res.Email),
		zap.String("bookingNumber", res.BookingNumber),
	)
	return nil
}

func (s *SMTPService) SendCheckInReminder(_ context.Context, res *models.Reservation) error {
	subject := fmt.Sprintf("Your stay at Chez Govinda - %s", res.BookingNumber)
	if err := s.send(res.Email, subject, reminderBody(res)); err != nil {
		return fmt.Errorf("failed to send check-in reminder to %s: %w", res.Email, err)
	}

	s.Logger.Info("check-in reminder sent",
		zap.String("to", res.Email),
		zap.String("bookingNumber", res.BookingNumber),
	)
	return nil
}

func (s *SMTPService) send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.User)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	return smtp.SendMail(addr, auth, s.User, []string{to}, []byte(msg.String()))
}

func confirmationBody(res *models.Reservation) string {
	return fmt.Sprintf(`Dear %s,

Thank you for booking with Chez Govinda!

Booking Number: %s
Room Type: %s
Guests: %d
Check-in: %s
Check-out: %s
Total Price: EUR %.2f

We look forward to hosting you!

Sincerely,
Chez Govinda
`,
		res.GuestName,
		res.BookingNumber,
		res.RoomType,
		res.Guests,
		res.CheckIn.Format("January 2, 2006"),
		res.CheckOut.Format("January 2, 2006"),
		res.TotalPrice,
	)
}

func reminderBody(res *models.Reservation) string {
	return fmt.Sprintf(`Dear %s,

We look forward to welcoming you to Chez Govinda tomorrow!

Booking Number: %s
Room Type: %s
Check-in: %s (from 3 PM)
Check-out: %s (by 11 AM)

Safe travels,
Chez Govinda
`,
		res.GuestName,
		res.BookingNumber,
		res.RoomType,
		res.CheckIn.Format("January 2, 2006"),
		res.CheckOut.Format("January 2, 2006"),
	)
}
