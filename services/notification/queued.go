package notification

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"george/models"
	"george/services/tasks"
)

// reminderLead is how long before check-in the reminder mail fires.
const reminderLead = 24 * time.Hour

// Enqueuer is the slice of asynq.Client the queued service needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuedService decorates a direct mailer with the Redis queue: a failed
// confirmation send is re-queued for retry, and every confirmed booking gets
// a check-in reminder scheduled the day before arrival.
type QueuedService struct {
	direct Service
	client Enqueuer
	logger *zap.Logger
}

func NewQueuedService(direct Service, client Enqueuer, logger *zap.Logger) *QueuedService {
	return &QueuedService{direct: direct, client: client, logger: logger}
}

// SendBookingConfirmation tries the direct send first and falls back to the
// queue on failure. The send error is still returned so the caller keeps its
// "mail will follow" wording.
func (s *QueuedService) SendBookingConfirmation(ctx context.Context, res *models.Reservation) error {
	s.scheduleReminder(ctx, res)

	err := s.direct.SendBookingConfirmation(ctx, res)
	if err == nil {
		return nil
	}

	task, opts, terr := tasks.NewConfirmationEmailTask(res.BookingNumber)
	if terr != nil {
		s.logger.Error("failed to build confirmation retry task",
			zap.String("bookingNumber", res.BookingNumber), zap.Error(terr))
		return err
	}
	if _, qerr := s.client.EnqueueContext(ctx, task, opts...); qerr != nil {
		s.logger.Error("failed to queue confirmation retry",
			zap.String("bookingNumber", res.BookingNumber), zap.Error(qerr))
		return err
	}

	s.logger.Info("confirmation email queued for retry",
		zap.String("bookingNumber", res.BookingNumber))
	return err
}

func (s *QueuedService) SendCheckInReminder(ctx context.Context, res *models.Reservation) error {
	return s.direct.SendCheckInReminder(ctx, res)
}

// scheduleReminder queues the pre-arrival mail. Stays booked inside the lead
// window get no reminder; the confirmation already covers them.
func (s *QueuedService) scheduleReminder(ctx context.Context, res *models.Reservation) {
	fireAt := res.CheckIn.Add(-reminderLead)
	if !fireAt.After(time.Now()) {
		return
	}

	task, opts, err := tasks.NewCheckInReminderTask(res.BookingNumber, fireAt)
	if err != nil {
		s.logger.Error("failed to build check-in reminder task",
			zap.String("bookingNumber", res.BookingNumber), zap.Error(err))
		return
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		s.logger.Error("failed to queue check-in reminder",
			zap.String("bookingNumber", res.BookingNumber), zap.Error(err))
		return
	}

	s.logger.Info("check-in reminder scheduled",
		zap.String("bookingNumber", res.BookingNumber),
		zap.Time("fireAt", fireAt))
}
