package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"george/database/repository/conversation"
	"george/models"
)

// Tool is the uniform capability every specialized handler exposes.
type Tool interface {
	Handle(ctx context.Context, sess *Session, utterance string) (models.Reply, error)
}

// Session is the per-turn view of one guest session handed to tools. Turns
// holds the memory window loaded before the tool ran, so a tool never
// observes its own not-yet-produced reply.
type Session struct {
	ID      string
	Turns   []models.ConversationTurn
	Context *SessionContext
}

const (
	apologyUnavailable = "I'm sorry, I'm having a little trouble understanding requests right now. Could you try again in a moment?"
	apologyFailure     = "I'm sorry, I encountered an error processing your request. Please try again or rephrase your question."
)

// Dispatcher routes every incoming utterance to exactly one tool and owns
// all conversation-memory writes.
type Dispatcher struct {
	classifier *Classifier
	tools      map[models.ToolLabel]Tool
	memory     MemoryStore
	contexts   ContextStore
	archive    conversationRepo.Repository
	logger     *zap.Logger
	window     int
}

func NewDispatcher(
	classifier *Classifier,
	tools map[models.ToolLabel]Tool,
	memory MemoryStore,
	contexts ContextStore,
	archive conversationRepo.Repository,
	logger *zap.Logger,
	window int,
) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		tools:      tools,
		memory:     memory,
		contexts:   contexts,
		archive:    archive,
		logger:     logger,
		window:     window,
	}
}

// SubmitTurn processes one guest utterance: classify, invoke the selected
// tool, then append the user and assistant turns. The guest always receives
// a reply; the two turns are always recorded, even when the tool fails.
func (d *Dispatcher) SubmitTurn(ctx context.Context, sessionID, utterance string) models.Reply {
	turns, err := d.memory.Recent(ctx, sessionID, d.window)
	if err != nil {
		d.logger.Warn("failed to load conversation window", zap.String("session", sessionID), zap.Error(err))
	}
	sctx, err := d.contexts.Get(ctx, sessionID)
	if err != nil {
		d.logger.Warn("failed to load session context", zap.String("session", sessionID), zap.Error(err))
		sctx = &SessionContext{}
	}

	sess := &Session{ID: sessionID, Turns: turns, Context: sctx}

	label, reply, handled := d.routeTurn(ctx, sess, utterance)
	if !handled {
		reply = d.invokeTool(ctx, label, sess, utterance)
	}
	reply.SessionID = sessionID
	reply.ToolLabel = label

	d.recordTurn(ctx, sessionID, utterance, reply.Text)
	return reply
}

// EndSession clears all per-session state. The Mongo archive is kept.
func (d *Dispatcher) EndSession(ctx context.Context, sessionID string) {
	if err := d.memory.Clear(ctx, sessionID); err != nil {
		d.logger.Warn("failed to clear conversation window", zap.String("session", sessionID), zap.Error(err))
	}
	if err := d.contexts.Clear(ctx, sessionID); err != nil {
		d.logger.Warn("failed to clear session context", zap.String("session", sessionID), zap.Error(err))
	}
}

// History exposes the current memory window (diagnostics and UI reload).
func (d *Dispatcher) History(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	return d.memory.Recent(ctx, sessionID, d.window)
}

// routeTurn picks the tool label for this turn. A pending follow-up or an
// in-progress booking handles the turn before any classification; a
// classifier outage resolves to a ready-made apology reply routed as chat.
func (d *Dispatcher) routeTurn(ctx context.Context, sess *Session, utterance string) (models.ToolLabel, models.Reply, bool) {
	if sess.Context.AwaitingActivityConsent {
		return models.ToolFollowUp, models.Reply{}, false
	}
	if sess.Context.InBookingFlow {
		return models.ToolBooking, models.Reply{}, false
	}

	label, err := d.classifier.Classify(ctx, utterance, sess.Turns)
	if err != nil {
		d.logger.Error("classification failed", zap.String("session", sess.ID), zap.Error(err))
		return models.ToolChat, models.Reply{
			Text:      apologyUnavailable,
			ErrorKind: models.ErrKindClassifierUnavailable,
		}, true
	}
	d.logger.Info("tool selected", zap.String("session", sess.ID), zap.String("tool", string(label)))
	return label, models.Reply{}, false
}

func (d *Dispatcher) invokeTool(ctx context.Context, label models.ToolLabel, sess *Session, utterance string) models.Reply {
	tool, ok := d.tools[label]
	if !ok {
		// Closed label set; only reachable if wiring forgot a tool.
		d.logger.Error("no tool registered for label", zap.String("tool", string(label)))
		return models.Reply{Text: apologyFailure, ErrorKind: models.ErrKindHandlerFailure}
	}

	reply, err := d.safeHandle(ctx, tool, sess, utterance)
	if err != nil {
		d.logger.Error("tool failed",
			zap.String("session", sess.ID),
			zap.String("tool", string(label)),
			zap.Error(err),
		)
		return models.Reply{Text: apologyFailure, ErrorKind: models.ErrKindHandlerFailure}
	}
	return reply
}

// safeHandle converts tool panics into errors so a single session's fault
// can never take the process down.
func (d *Dispatcher) safeHandle(ctx context.Context, tool Tool, sess *Session, utterance string) (reply models.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return tool.Handle(ctx, sess, utterance)
}

// recordTurn appends the user and assistant turns to the live window and the
// durable archive. This runs after the tool so handlers only ever see turns
// strictly before the current one.
func (d *Dispatcher) recordTurn(ctx context.Context, sessionID, utterance, replyText string) {
	now := time.Now()
	pair := []models.ConversationTurn{
		{Role: models.RoleUser, Text: utterance, Timestamp: now},
		{Role: models.RoleAssistant, Text: replyText, Timestamp: now},
	}
	if err := d.memory.Append(ctx, sessionID, pair...); err != nil {
		d.logger.Error("failed to append conversation turns", zap.String("session", sessionID), zap.Error(err))
	}
	if d.archive != nil {
		if err := d.archive.Append(ctx, sessionID, pair...); err != nil {
			d.logger.Warn("failed to archive conversation turns", zap.String("session", sessionID), zap.Error(err))
		}
	}
}

// IsUnavailable reports whether err stems from the completion collaborator
// being unreachable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrClassifierUnavailable)
}
