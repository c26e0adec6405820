package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"george/models"
	ai "george/services/intelligence"
)

const chatPromptTemplate = `You are George, the warm and well-mannered AI receptionist at Chez Govinda, a boutique hotel in Brussels. You help guests with questions about the hotel and their stay. Stay in character, be concise, and never invent facts that are not in the hotel information below.

Hotel information:
%s

Recent conversation:
%s

Guest: %s
George:`

// ChatTool is the default handler for small talk and anything the other
// tools do not cover. It grounds replies in the static hotel fact sheet.
type ChatTool struct {
	llm    ai.CompletionClient
	facts  string
	logger *zap.Logger
}

func NewChatTool(llm ai.CompletionClient, facts string, logger *zap.Logger) *ChatTool {
	return &ChatTool{llm: llm, facts: facts, logger: logger}
}

// LoadHotelFacts reads the fact sheet from disk. A missing file is a startup
// configuration error, not something to paper over at request time.
func LoadHotelFacts(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to load hotel facts from %s: %w", path, err)
	}
	return string(b), nil
}

func (t *ChatTool) Handle(ctx context.Context, sess *ai.Session, utterance string) (models.Reply, error) {
	answer, err := t.llm.Complete(ctx, fmt.Sprintf(chatPromptTemplate, t.facts, renderHistory(sess.Turns), utterance))
	if err != nil {
		return models.Reply{}, fmt.Errorf("chat completion failed: %w", err)
	}
	return models.Reply{Text: strings.TrimSpace(answer)}, nil
}

func renderHistory(turns []models.ConversationTurn) string {
	if len(turns) == 0 {
		return "(start of conversation)"
	}
	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(string(t.Role))
		sb.WriteString(": ")
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
