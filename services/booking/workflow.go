package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	roomRepo "george/database/repository/room"
	"george/models"
	ai "george/services/intelligence"
	"george/services/notification"
)

const confirmIntentPrompt = `A hotel guest was shown this booking summary and asked to confirm it.

Their reply was: %q

Classify their intent as:
- CONFIRM: they agree to book (yes, confirm, go ahead, sounds good, please book it)
- DECLINE: they do not want the booking (no, cancel, not anymore, changed my mind)
- UNCLEAR: ambiguous or unrelated

Respond with only: CONFIRM, DECLINE, or UNCLEAR`

// cancelPhrases trigger an explicit abandonment regardless of state.
var cancelPhrases = []string{
	"cancel", "never mind", "nevermind", "forget it", "forget the booking", "stop the booking",
}

// Workflow is the stateful booking handler. It owns the session's
// BookingDraft and drives it Collecting -> PendingConfirmation -> Confirmed,
// or to Abandoned on an explicit cancel. Capacity is consumed only at the
// PendingConfirmation -> Confirmed transition, inside Engine.Reserve; no
// earlier state holds anything.
type Workflow struct {
	llm      ai.CompletionClient
	drafts   DraftStore
	rooms    roomRepo.Repository
	engine   *Engine
	notifier notification.Service
	contexts ai.ContextStore
	logger   *zap.Logger
}

func NewWorkflow(
	llm ai.CompletionClient,
	drafts DraftStore,
	rooms roomRepo.Repository,
	engine *Engine,
	notifier notification.Service,
	contexts ai.ContextStore,
	logger *zap.Logger,
) *Workflow {
	return &Workflow{
		llm:      llm,
		drafts:   drafts,
		rooms:    rooms,
		engine:   engine,
		notifier: notifier,
		contexts: contexts,
		logger:   logger,
	}
}

func (w *Workflow) Handle(ctx context.Context, sess *ai.Session, utterance string) (models.Reply, error) {
	draft, err := w.drafts.Get(ctx, sess.ID)
	if err != nil {
		return models.Reply{}, err
	}
	if draft == nil {
		draft = &models.BookingDraft{Status: models.DraftCollecting}
	}

	if isCancellation(utterance) {
		return w.abandon(ctx, sess)
	}

	switch draft.Status {
	case models.DraftPendingConfirmation:
		return w.awaitConfirmation(ctx, sess, draft, utterance)
	default:
		return w.collect(ctx, sess, draft, utterance)
	}
}

// collect tries to pull missing fields out of the utterance and either asks
// for what is still missing or advances to PendingConfirmation.
func (w *Workflow) collect(ctx context.Context, sess *ai.Session, draft *models.BookingDraft, utterance string) (models.Reply, error) {
	rooms, err := w.rooms.GetAll(ctx)
	if err != nil {
		return models.Reply{}, err
	}

	// Nothing below mutates stored state until extraction and validation
	// have finished, so a collaborator timeout leaves the turn retryable.
	fields, err := extractFields(ctx, w.llm, utterance, rooms)
	if err != nil {
		return models.Reply{}, err
	}
	fields.apply(draft)

	if verr := validateDraft(ctx, w.rooms, draft); verr != nil {
		var vErr *ValidationError
		if !errors.As(verr, &vErr) {
			return models.Reply{}, verr
		}
		clearInvalidFields(draft, vErr)
		draft.Status = models.DraftCollecting
		if err := w.saveDraft(ctx, sess, draft); err != nil {
			return models.Reply{}, err
		}
		return models.Reply{
			Text:            fmt.Sprintf("I'm afraid that won't work: the %s %s. Could you give me that again?", vErr.Field, vErr.Constraint),
			DraftStatus:     draft.Status,
			ErrorKind:       models.ErrKindValidation,
			ShowBookingForm: true,
		}, nil
	}

	if !draft.Complete() {
		draft.Status = models.DraftCollecting
		if err := w.saveDraft(ctx, sess, draft); err != nil {
			return models.Reply{}, err
		}
		return models.Reply{
			Text:            "I'd be happy to arrange that. I still need " + joinFields(draft.MissingFields()) + ".",
			DraftStatus:     draft.Status,
			ShowBookingForm: true,
		}, nil
	}

	quote, err := w.engine.CheckAvailability(ctx, draft.RoomType, *draft.CheckIn, *draft.CheckOut)
	if err != nil {
		return models.Reply{}, err
	}
	if !quote.Available {
		draft.CheckIn, draft.CheckOut = nil, nil
		draft.Status = models.DraftCollecting
		if err := w.saveDraft(ctx, sess, draft); err != nil {
			return models.Reply{}, err
		}
		return models.Reply{
			Text:            fmt.Sprintf("Unfortunately the %s is already booked for those dates. Would different dates suit you?", draft.RoomType),
			DraftStatus:     draft.Status,
			ErrorKind:       models.ErrKindConflict,
			ShowBookingForm: true,
		}, nil
	}

	draft.Status = models.DraftPendingConfirmation
	if err := w.saveDraft(ctx, sess, draft); err != nil {
		return models.Reply{}, err
	}
	return models.Reply{
		Text:        summarize(draft, quote) + " Shall I confirm this booking?",
		DraftStatus: draft.Status,
	}, nil
}

// awaitConfirmation handles the guest's answer to the booking summary. The
// reserve call is the single point at which capacity is consumed.
func (w *Workflow) awaitConfirmation(ctx context.Context, sess *ai.Session, draft *models.BookingDraft, utterance string) (models.Reply, error) {
	raw, err := w.llm.Complete(ctx, fmt.Sprintf(confirmIntentPrompt, utterance))
	if err != nil {
		return models.Reply{}, err
	}

	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CONFIRM":
		return w.confirm(ctx, sess, draft)
	case "DECLINE":
		return w.abandon(ctx, sess)
	default:
		return models.Reply{
			Text:        "Just to be sure - shall I confirm the booking? A simple yes or no will do.",
			DraftStatus: draft.Status,
		}, nil
	}
}

func (w *Workflow) confirm(ctx context.Context, sess *ai.Session, draft *models.BookingDraft) (models.Reply, error) {
	res, err := w.engine.Reserve(ctx, ReserveRequest{
		RoomType:  draft.RoomType,
		CheckIn:   *draft.CheckIn,
		CheckOut:  *draft.CheckOut,
		GuestName: draft.GuestName,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Guests:    draft.Guests,
	})
	if errors.Is(err, ErrConflict) {
		// Someone else took the dates between the summary and the confirm.
		draft.CheckIn, draft.CheckOut = nil, nil
		draft.Status = models.DraftCollecting
		if serr := w.saveDraft(ctx, sess, draft); serr != nil {
			return models.Reply{}, serr
		}
		return models.Reply{
			Text:            "I'm terribly sorry - those dates were just taken by another guest. Could you give me new dates?",
			DraftStatus:     draft.Status,
			ErrorKind:       models.ErrKindConflict,
			ShowBookingForm: true,
		}, nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		clearInvalidFields(draft, vErr)
		draft.Status = models.DraftCollecting
		if serr := w.saveDraft(ctx, sess, draft); serr != nil {
			return models.Reply{}, serr
		}
		return models.Reply{
			Text:        fmt.Sprintf("I'm afraid that won't work anymore: the %s %s. Could you give me that again?", vErr.Field, vErr.Constraint),
			DraftStatus: draft.Status,
			ErrorKind:   models.ErrKindValidation,
		}, nil
	}
	if err != nil {
		return models.Reply{}, err
	}

	emailNote := fmt.Sprintf("A confirmation email has been sent to %s.", res.Email)
	if nerr := w.notifier.SendBookingConfirmation(ctx, res); nerr != nil {
		// The reservation stands regardless of mail delivery.
		w.logger.Error("confirmation email failed",
			zap.String("bookingNumber", res.BookingNumber),
			zap.Error(nerr),
		)
		emailNote = "Your booking is confirmed; the confirmation email will follow shortly."
	}

	// The booking flow is over; arm the post-booking follow-up so the next
	// turn offers activity tips.
	sess.Context.InBookingFlow = false
	sess.Context.AwaitingActivityConsent = true
	sess.Context.LastBookingNumber = res.BookingNumber
	sess.Context.LastGuestName = res.GuestName
	if cerr := w.contexts.Set(ctx, sess.ID, sess.Context); cerr != nil {
		w.logger.Warn("failed to persist follow-up state", zap.String("session", sess.ID), zap.Error(cerr))
	}

	if err := w.drafts.Clear(ctx, sess.ID); err != nil {
		w.logger.Warn("failed to clear booking draft", zap.String("session", sess.ID), zap.Error(err))
	}

	w.logger.Info("booking confirmed",
		zap.String("session", sess.ID),
		zap.String("bookingNumber", res.BookingNumber),
		zap.Float64("totalPrice", res.TotalPrice),
	)

	text := fmt.Sprintf(
		"Wonderful, %s - your booking is confirmed! Your booking number is %s and the total is €%.2f. %s\n\nWould you like recommendations for things to see and do during your stay?",
		res.GuestName, res.BookingNumber, res.TotalPrice, emailNote,
	)
	return models.Reply{Text: text, DraftStatus: models.DraftConfirmed}, nil
}

func (w *Workflow) abandon(ctx context.Context, sess *ai.Session) (models.Reply, error) {
	if err := w.drafts.Clear(ctx, sess.ID); err != nil {
		return models.Reply{}, err
	}
	w.releaseRouting(ctx, sess)
	return models.Reply{
		Text:        "Of course - I've set the booking aside. How else can I help you today?",
		DraftStatus: models.DraftAbandoned,
	}, nil
}

// saveDraft persists a non-terminal draft and pins the session's routing to
// the booking tool until the flow confirms or is abandoned.
func (w *Workflow) saveDraft(ctx context.Context, sess *ai.Session, draft *models.BookingDraft) error {
	if err := w.drafts.Set(ctx, sess.ID, draft); err != nil {
		return err
	}
	if !sess.Context.InBookingFlow {
		sess.Context.InBookingFlow = true
		if err := w.contexts.Set(ctx, sess.ID, sess.Context); err != nil {
			w.logger.Warn("failed to persist booking-flow state", zap.String("session", sess.ID), zap.Error(err))
		}
	}
	return nil
}

func (w *Workflow) releaseRouting(ctx context.Context, sess *ai.Session) {
	if !sess.Context.InBookingFlow {
		return
	}
	sess.Context.InBookingFlow = false
	if err := w.contexts.Set(ctx, sess.ID, sess.Context); err != nil {
		w.logger.Warn("failed to persist booking-flow state", zap.String("session", sess.ID), zap.Error(err))
	}
}

func isCancellation(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, phrase := range cancelPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// clearInvalidFields resets whichever fields the violated constraint named,
// so the guest is re-prompted for exactly those.
func clearInvalidFields(draft *models.BookingDraft, vErr *ValidationError) {
	switch vErr.Field {
	case "check-in date", "check-out date":
		draft.CheckIn, draft.CheckOut = nil, nil
	case "number of guests":
		draft.Guests = 0
	case "room type":
		draft.RoomType = ""
	case "email address":
		draft.Email = ""
	}
}

func summarize(draft *models.BookingDraft, quote *Quote) string {
	return fmt.Sprintf(
		"Here is your booking summary: %s for %d guest(s), checking in %s and out %s (%d night(s)), total €%.2f for %s.",
		draft.RoomType,
		draft.Guests,
		draft.CheckIn.Format("January 2, 2006"),
		draft.CheckOut.Format("January 2, 2006"),
		quote.Nights,
		quote.TotalPrice,
		draft.GuestName,
	)
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	}
}
