package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"george/models"
	ai "george/services/intelligence"
	"george/services/retrieval"
)

const consentPrompt = `A hotel guest was just asked whether they would like recommendations for things to see and do during their stay.

Their reply was: %q

Classify their answer as:
- POSITIVE: they want recommendations
- NEGATIVE: they do not
- UNCLEAR: ambiguous or unrelated

Respond with only: POSITIVE, NEGATIVE, or UNCLEAR`

const recommendPromptTemplate = `You are George, the warm AI receptionist at Chez Govinda in Brussels. A guest named %s just confirmed a booking and asked for recommendations of things to see and do nearby.

Local suggestions:
%s

Write a short, enthusiastic reply with two or three concrete recommendations drawn from the suggestions above.`

// FollowUpTool runs the one turn after a confirmed booking: it interprets the
// guest's answer to the activity-recommendation offer. The classifier never
// selects it; the dispatcher routes here while the consent flag is set.
type FollowUpTool struct {
	llm      ai.CompletionClient
	searcher retrieval.Searcher
	contexts ai.ContextStore
	logger   *zap.Logger
}

func NewFollowUpTool(llm ai.CompletionClient, searcher retrieval.Searcher, contexts ai.ContextStore, logger *zap.Logger) *FollowUpTool {
	return &FollowUpTool{llm: llm, searcher: searcher, contexts: contexts, logger: logger}
}

func (t *FollowUpTool) Handle(ctx context.Context, sess *ai.Session, utterance string) (models.Reply, error) {
	raw, err := t.llm.Complete(ctx, fmt.Sprintf(consentPrompt, utterance))
	if err != nil {
		return models.Reply{}, fmt.Errorf("consent classification failed: %w", err)
	}

	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE":
		reply, err := t.recommend(ctx, sess)
		if err != nil {
			return models.Reply{}, err
		}
		t.clearConsent(ctx, sess)
		return reply, nil
	case "NEGATIVE":
		t.clearConsent(ctx, sess)
		return models.Reply{
			Text: "Of course! If you change your mind, just ask. We look forward to welcoming you at Chez Govinda.",
		}, nil
	default:
		// Flag stays set; the next turn gets one more chance to answer.
		return models.Reply{
			Text: "Sorry, I didn't quite catch that - would you like some recommendations for things to see and do during your stay?",
		}, nil
	}
}

func (t *FollowUpTool) recommend(ctx context.Context, sess *ai.Session) (models.Reply, error) {
	passages, err := t.searcher.Search(ctx, "activities attractions things to do near the hotel", 5)
	if err != nil {
		t.logger.Warn("activity search failed", zap.Error(err))
		passages = nil
	}

	var sb strings.Builder
	for _, p := range passages {
		sb.WriteString("- ")
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("- The Grand Place, Brussels' central square\n- The Royal Museums of Fine Arts\n- A walk through the Sablon district and its chocolatiers\n")
	}

	name := sess.Context.LastGuestName
	if name == "" {
		name = "our guest"
	}
	answer, err := t.llm.Complete(ctx, fmt.Sprintf(recommendPromptTemplate, name, sb.String()))
	if err != nil {
		return models.Reply{}, fmt.Errorf("recommendation completion failed: %w", err)
	}
	return models.Reply{Text: strings.TrimSpace(answer)}, nil
}

func (t *FollowUpTool) clearConsent(ctx context.Context, sess *ai.Session) {
	sess.Context.AwaitingActivityConsent = false
	if err := t.contexts.Set(ctx, sess.ID, sess.Context); err != nil {
		t.logger.Warn("failed to clear follow-up state", zap.String("session", sess.ID), zap.Error(err))
	}
}
