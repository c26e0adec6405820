package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"george/models"
	ai "george/services/intelligence"
	"george/services/retrieval"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubSearcher struct {
	passages []retrieval.Passage
	err      error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]retrieval.Passage, error) {
	return s.passages, s.err
}

type stubFallback struct {
	calls int
}

func (s *stubFallback) Handle(_ context.Context, _ *ai.Session, _ string) (models.Reply, error) {
	s.calls++
	return models.Reply{Text: "fallback reply"}, nil
}

func TestKnowledgeComposesFromPassages(t *testing.T) {
	llm := &stubLLM{response: "Yes, small pets are welcome for 15 euro per night."}
	searcher := &stubSearcher{passages: []retrieval.Passage{
		{Content: "Pet policy: small pets welcome, EUR 15 per night.", Score: 0.82},
		{Content: "Quiet hours are from 22:00.", Score: 0.31},
	}}
	fallback := &stubFallback{}
	tool := NewKnowledgeTool(searcher, llm, fallback, zap.NewNop())

	reply, err := tool.Handle(context.Background(), &ai.Session{ID: "s1"}, "Do you allow pets?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "pets are welcome")
	assert.Equal(t, 0, fallback.calls)

	// Only the relevant passage reaches the prompt.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Pet policy")
	assert.NotContains(t, llm.prompts[0], "Quiet hours")
}

func TestKnowledgeFallsBackOnNoRelevantResult(t *testing.T) {
	searcher := &stubSearcher{passages: []retrieval.Passage{
		{Content: "Something unrelated.", Score: 0.12},
	}}
	fallback := &stubFallback{}
	tool := NewKnowledgeTool(searcher, &stubLLM{response: "unused"}, fallback, zap.NewNop())

	reply, err := tool.Handle(context.Background(), &ai.Session{ID: "s1"}, "Do you have a pool?")
	require.NoError(t, err)
	assert.Equal(t, "fallback reply", reply.Text)
	assert.Equal(t, 1, fallback.calls)
}

func TestKnowledgeFallsBackOnSearchError(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("index down")}
	fallback := &stubFallback{}
	tool := NewKnowledgeTool(searcher, &stubLLM{response: "unused"}, fallback, zap.NewNop())

	reply, err := tool.Handle(context.Background(), &ai.Session{ID: "s1"}, "Do you allow pets?")
	require.NoError(t, err, "retrieval outage must never surface to the guest")
	assert.Equal(t, "fallback reply", reply.Text)
	assert.Equal(t, 1, fallback.calls)
}
