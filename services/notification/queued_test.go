package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"george/models"
	"george/services/tasks"
)

type fakeDirect struct {
	confirmErr error
	confirms   int
	reminders  int
}

func (f *fakeDirect) SendBookingConfirmation(_ context.Context, _ *models.Reservation) error {
	f.confirms++
	return f.confirmErr
}

func (f *fakeDirect) SendCheckInReminder(_ context.Context, _ *models.Reservation) error {
	f.reminders++
	return nil
}

type fakeEnqueuer struct {
	enqueued []*asynq.Task
	err      error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enqueued = append(f.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

func (f *fakeEnqueuer) typesEnqueued() []string {
	out := make([]string, 0, len(f.enqueued))
	for _, task := range f.enqueued {
		out = append(out, task.Type())
	}
	return out
}

func futureReservation(daysAhead int) *models.Reservation {
	return &models.Reservation{
		BookingNumber: "BKG-20260101-0001",
		RoomType:      "Double Room",
		CheckIn:       time.Now().AddDate(0, 0, daysAhead),
		CheckOut:      time.Now().AddDate(0, 0, daysAhead+2),
		GuestName:     "Maria Keller",
		Email:         "maria@example.com",
		Guests:        2,
	}
}

func TestQueuedConfirmationSchedulesReminder(t *testing.T) {
	direct := &fakeDirect{}
	queue := &fakeEnqueuer{}
	svc := NewQueuedService(direct, queue, zap.NewNop())

	err := svc.SendBookingConfirmation(context.Background(), futureReservation(30))

	require.NoError(t, err)
	assert.Equal(t, 1, direct.confirms)
	assert.Equal(t, []string{tasks.TypeCheckInReminder}, queue.typesEnqueued())
}

func TestQueuedConfirmationNoReminderForImminentStay(t *testing.T) {
	direct := &fakeDirect{}
	queue := &fakeEnqueuer{}
	svc := NewQueuedService(direct, queue, zap.NewNop())

	res := futureReservation(30)
	res.CheckIn = time.Now().Add(2 * time.Hour)

	require.NoError(t, svc.SendBookingConfirmation(context.Background(), res))
	assert.Empty(t, queue.typesEnqueued(), "a same-day arrival gets no separate reminder")
}

func TestQueuedConfirmationFailureQueuesRetryAndPropagates(t *testing.T) {
	direct := &fakeDirect{confirmErr: errors.New("smtp unreachable")}
	queue := &fakeEnqueuer{}
	svc := NewQueuedService(direct, queue, zap.NewNop())

	err := svc.SendBookingConfirmation(context.Background(), futureReservation(30))

	assert.Error(t, err, "the caller must still see the direct failure")
	assert.Contains(t, queue.typesEnqueued(), tasks.TypeConfirmationEmail)
}

func TestQueuedConfirmationEnqueueFailureStillPropagatesSendError(t *testing.T) {
	sendErr := errors.New("smtp unreachable")
	direct := &fakeDirect{confirmErr: sendErr}
	queue := &fakeEnqueuer{err: errors.New("redis down")}
	svc := NewQueuedService(direct, queue, zap.NewNop())

	err := svc.SendBookingConfirmation(context.Background(), futureReservation(30))
	assert.ErrorIs(t, err, sendErr)
}

func TestQueuedReminderDelegatesToDirect(t *testing.T) {
	direct := &fakeDirect{}
	svc := NewQueuedService(direct, &fakeEnqueuer{}, zap.NewNop())

	require.NoError(t, svc.SendCheckInReminder(context.Background(), futureReservation(30)))
	assert.Equal(t, 1, direct.reminders)
}
