package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ai "george/services/intelligence"
	"george/services/retrieval"
)

// consentLLM answers the consent prompt with a verdict and every other
// prompt with a canned recommendation text.
type consentLLM struct {
	verdict string
}

func (c *consentLLM) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Classify their answer") {
		return c.verdict, nil
	}
	return "You should visit the Grand Place and the Sablon chocolatiers.", nil
}

func newFollowUpFixture(verdict string) (*FollowUpTool, *ai.LocalContextStore, *ai.Session) {
	contexts := ai.NewLocalContextStore()
	searcher := &stubSearcher{passages: []retrieval.Passage{
		{Content: "The Grand Place is a five minute walk away.", Score: 0.9},
	}}
	tool := NewFollowUpTool(&consentLLM{verdict: verdict}, searcher, contexts, zap.NewNop())
	sess := &ai.Session{
		ID:      "s1",
		Context: &ai.SessionContext{AwaitingActivityConsent: true, LastGuestName: "Maria Keller"},
	}
	return tool, contexts, sess
}

func TestFollowUpPositiveRecommendsAndClearsFlag(t *testing.T) {
	tool, contexts, sess := newFollowUpFixture("POSITIVE")

	reply, err := tool.Handle(context.Background(), sess, "yes please!")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Grand Place")
	assert.False(t, sess.Context.AwaitingActivityConsent)

	stored, err := contexts.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, stored.AwaitingActivityConsent)
}

func TestFollowUpNegativeClosesPolitely(t *testing.T) {
	tool, contexts, sess := newFollowUpFixture("NEGATIVE")

	reply, err := tool.Handle(context.Background(), sess, "no thanks")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "look forward to welcoming you")
	assert.False(t, sess.Context.AwaitingActivityConsent)

	stored, err := contexts.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, stored.AwaitingActivityConsent)
}

func TestFollowUpUnclearKeepsFlagSet(t *testing.T) {
	tool, _, sess := newFollowUpFixture("UNCLEAR")

	reply, err := tool.Handle(context.Background(), sess, "hmm what?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "recommendations")
	assert.True(t, sess.Context.AwaitingActivityConsent, "an unclear answer gets one more chance")
}
