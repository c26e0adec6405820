package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"george/models"
)

// ErrClassifierUnavailable reports that intent classification could not run
// because the completion collaborator was unreachable.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

const routerPromptTemplate = `You are a routing assistant for George, the AI hotel receptionist at Chez Govinda.

Choose the correct tool for the guest's message.

Available tools:
- structured_query: checking room availability, prices, booking status, or existing reservation details
- knowledge: room descriptions, hotel policies, breakfast, amenities, dining information, location, address
- booking: the guest wants to book a room or asks for help booking
- chat: pleasantries AND anything unrelated to the hotel, OR specifically about: website, smoking, quiet hours, parties, events, languages spoken

Routing rules:
1. Basic pleasantries ("How are you?", "Good morning") -> chat
2. Personal questions or advice -> chat
3. External topics (politics, sports, tech, weather) -> chat
4. Questions mentioning smoking, website, quiet hours, parties, events or languages -> chat
5. Hotel services, amenities, policies (except rule 4 topics) -> knowledge
6. Room availability, prices, reservation lookups -> structured_query
7. Booking intent -> booking
8. Breakfast, dining, food options -> knowledge

Recent conversation:
%s

Return only one word: structured_query, knowledge, booking, or chat

Guest: %q
Tool:`

// Classifier maps an utterance plus recent conversation context onto one
// tool label. It is deterministic given the collaborator's response and has
// no side effects; appending to memory is the dispatcher's job.
type Classifier struct {
	llm CompletionClient
}

func NewClassifier(llm CompletionClient) *Classifier {
	return &Classifier{llm: llm}
}

func (c *Classifier) Classify(ctx context.Context, utterance string, recentTurns []models.ConversationTurn) (models.ToolLabel, error) {
	prompt := fmt.Sprintf(routerPromptTemplate, renderTurns(recentTurns), utterance)

	raw, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return models.ToolChat, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	// Unrecognized output (including followup, which the router never offers)
	// falls back to chat.
	return models.ParseToolLabel(raw), nil
}

func renderTurns(turns []models.ConversationTurn) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}
	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(string(t.Role))
		sb.WriteString(": ")
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
