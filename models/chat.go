package models

import (
	"strings"
	"time"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one utterance in a session transcript.
type ConversationTurn struct {
	Role      Role      `json:"role" bson:"role"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ToolLabel names the handler a guest utterance is routed to.
type ToolLabel string

const (
	ToolKnowledge       ToolLabel = "knowledge"
	ToolStructuredQuery ToolLabel = "structured_query"
	ToolBooking         ToolLabel = "booking"
	ToolChat            ToolLabel = "chat"

	// ToolFollowUp is never emitted by the classifier; the dispatcher routes
	// to it when the session is awaiting an activity-recommendation answer.
	ToolFollowUp ToolLabel = "followup"
)

// ParseToolLabel maps raw classifier output onto a known label, falling back
// to ToolChat for anything unrecognised. ToolFollowUp is deliberately not
// parseable; only the dispatcher selects it.
func ParseToolLabel(raw string) ToolLabel {
	switch ToolLabel(strings.ToLower(strings.TrimSpace(raw))) {
	case ToolKnowledge:
		return ToolKnowledge
	case ToolStructuredQuery:
		return ToolStructuredQuery
	case ToolBooking:
		return ToolBooking
	default:
		return ToolChat
	}
}

// Error kinds surfaced to the client alongside an apologetic reply.
const (
	ErrKindClassifierUnavailable = "classifier_unavailable"
	ErrKindHandlerFailure        = "handler_failure"
	ErrKindValidation            = "validation_error"
	ErrKindConflict              = "conflict"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// Reply is the assistant's answer to a single guest utterance.
type Reply struct {
	SessionID       string    `json:"sessionId"`
	Text            string    `json:"text"`
	ToolLabel       ToolLabel `json:"toolLabel"`
	ShowBookingForm bool      `json:"showBookingForm,omitempty"`
	DraftStatus     string    `json:"draftStatus,omitempty"`
	ErrorKind       string    `json:"errorKind,omitempty"`
}
