// Package tasks defines the queued mail jobs. Confirmation retries and
// check-in reminders go through Redis so a slow or flaky SMTP relay never
// blocks a chat turn.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeConfirmationEmail = "mail:booking_confirmation"
	TypeCheckInReminder   = "mail:checkin_reminder"
)

// MailPayload carries only the booking reference; the handler re-reads the
// reservation so the mail always reflects its current state.
type MailPayload struct {
	BookingNumber string `json:"bookingNumber"`
}

// NewConfirmationEmailTask queues a retry of a confirmation email whose
// direct send failed. The first attempt is delayed to give the relay a
// moment to recover.
func NewConfirmationEmailTask(bookingNumber string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(MailPayload{BookingNumber: bookingNumber})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeConfirmationEmail, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.ProcessIn(time.Minute)}

	return task, opts, nil
}

// NewCheckInReminderTask schedules the pre-arrival reminder for fireAt,
// normally the day before check-in.
func NewCheckInReminderTask(bookingNumber string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(MailPayload{BookingNumber: bookingNumber})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCheckInReminder, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
