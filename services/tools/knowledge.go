// Package tools holds the informational handlers the dispatcher routes to:
// knowledge lookup, structured queries, general chat, and the post-booking
// follow-up. All of them are stateless across turns.
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

const knowledgePromptTemplate = `You are George, the warm and well-mannered AI receptionist at Chez Govinda, a boutique hotel in Brussels.

Answer the guest's question using ONLY the passages below. If the passages do not
contain the answer, say so politely and offer to help another way. Keep the reply
short and conversational.

Passages:
%s

Guest question: %s`

// minRelevanceScore filters out passages too dissimilar to be useful.
const minRelevanceScore = 0.45

// KnowledgeTool answers questions about the hotel from the semantic index.
type KnowledgeTool struct {
	searcher retrieval.Searcher
	llm      ai.CompletionClient
	fallback ai.Tool
	topK     int
	logger   *zap.Logger
}

// NewKnowledgeTool builds the knowledge handler. fallback receives the turn
// when retrieval produces nothing usable; it is normally the chat tool.
func NewKnowledgeTool(searcher retrieval.Searcher, llm ai.CompletionClient, fallback ai.Tool, logger *zap.Logger) *KnowledgeTool {
	return &KnowledgeTool{
		searcher: searcher,
		llm:      llm,
		fallback: fallback,
		topK:     4,
		logger:   logger,
	}
}

func (t *KnowledgeTool) Handle(ctx context.Context, sess *ai.Session, utterance string) (models.Reply, error) {
	passages, err := t.searcher.Search(ctx, utterance, t.topK)
	if err != nil {
		// Retrieval outage is not worth failing the guest's turn over.
		t.logger.Warn("knowledge search failed, falling back to chat", zap.Error(err))
		return t.fallback.Handle(ctx, sess, utterance)
	}

	relevant := passages[:0]
	for _, p := range passages {
		if p.Score >= minRelevanceScore {
			relevant = append(relevant, p)
		}
	}
	if len(relevant) == 0 {
		t.logger.Info("no relevant passage for query", zap.String("query", utterance))
		return t.fallback.Handle(ctx, sess, utterance)
	}

	var sb strings.Builder
	for _, p := range relevant {
		sb.WriteString("- ")
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}

	answer, err := t.llm.Complete(ctx, fmt.Sprintf(knowledgePromptTemplate, sb.String(), utterance))
	if err != nil {
		return models.Reply{}, fmt.Errorf("knowledge completion failed: %w", err)
	}
	return models.Reply{Text: strings.TrimSpace(answer)}, nil
}
