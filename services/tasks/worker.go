package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	reservationRepo "george/database/repository/reservation"
	"george/models"
)

// Mailer is the delivery half of the notification service.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, res *models.Reservation) error
	SendCheckInReminder(ctx context.Context, res *models.Reservation) error
}

// Handler processes queued mail jobs against the reservation store.
type Handler struct {
	reservations reservationRepo.Repository
	mailer       Mailer
	logger       *zap.Logger
}

func NewHandler(reservations reservationRepo.Repository, mailer Mailer, logger *zap.Logger) *Handler {
	return &Handler{reservations: reservations, mailer: mailer, logger: logger}
}

// HandleConfirmationEmail resends a confirmation whose direct delivery
// failed. A send error is returned so the queue retries with backoff.
func (h *Handler) HandleConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	res, err := h.loadReservation(ctx, task)
	if err != nil || res == nil {
		return err
	}
	if err := h.mailer.SendBookingConfirmation(ctx, res); err != nil {
		h.logger.Warn("queued confirmation email failed, will retry",
			zap.String("bookingNumber", res.BookingNumber), zap.Error(err))
		return err
	}
	return nil
}

// HandleCheckInReminder sends the pre-arrival mail. Reservations cancelled
// since scheduling are skipped silently.
func (h *Handler) HandleCheckInReminder(ctx context.Context, task *asynq.Task) error {
	res, err := h.loadReservation(ctx, task)
	if err != nil || res == nil {
		return err
	}
	if res.Status == models.ReservationCancelled {
		h.logger.Info("skipping reminder for cancelled reservation",
			zap.String("bookingNumber", res.BookingNumber))
		return nil
	}
	if err := h.mailer.SendCheckInReminder(ctx, res); err != nil {
		h.logger.Warn("check-in reminder failed, will retry",
			zap.String("bookingNumber", res.BookingNumber), zap.Error(err))
		return err
	}
	return nil
}

// loadReservation resolves the task's booking reference. A malformed payload
// or an unknown booking is dropped rather than retried; retrying cannot fix
// either.
func (h *Handler) loadReservation(ctx context.Context, task *asynq.Task) (*models.Reservation, error) {
	var p MailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return nil, fmt.Errorf("invalid mail payload: %v: %w", err, asynq.SkipRetry)
	}
	res, err := h.reservations.GetByBookingNumber(ctx, p.BookingNumber)
	if err != nil {
		return nil, err
	}
	if res == nil {
		h.logger.Warn("queued mail references unknown booking", zap.String("bookingNumber", p.BookingNumber))
		return nil, nil
	}
	return res, nil
}

// NewServeMux registers the mail handlers on a fresh mux.
func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeConfirmationEmail, h.HandleConfirmationEmail)
	mux.HandleFunc(TypeCheckInReminder, h.HandleCheckInReminder)
	return mux
}

// InitMailWorker runs the queue worker in the background and returns the
// server so the caller can shut it down.
func InitMailWorker(redisOpt asynq.RedisClientOpt, h *Handler, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	go func() {
		logger.Info("starting mail queue worker")
		if err := srv.Run(NewServeMux(h)); err != nil {
			logger.Error("mail queue worker stopped", zap.Error(err))
		}
	}()

	return srv
}
