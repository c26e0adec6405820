package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roomRepo "george/database/repository/room"
	"george/models"
)

type cannedLLM struct {
	response string
}

func (c *cannedLLM) Complete(_ context.Context, _ string) (string, error) {
	return c.response, nil
}

func TestExtractFieldsParsesFencedJSON(t *testing.T) {
	llm := &cannedLLM{response: "```json\n{\"guest_name\": \"Maria Keller\", \"guests\": 2}\n```"}

	fields, err := extractFields(context.Background(), llm, "I'm Maria, two of us", roomRepo.DefaultRooms())
	require.NoError(t, err)
	require.NotNil(t, fields.GuestName)
	assert.Equal(t, "Maria Keller", *fields.GuestName)
	require.NotNil(t, fields.Guests)
	assert.Equal(t, 2, *fields.Guests)
	assert.Nil(t, fields.Email)
}

func TestExtractFieldsToleratesGarbage(t *testing.T) {
	for _, raw := range []string{"", "I could not find any fields.", "{not json}"} {
		fields, err := extractFields(context.Background(), &cannedLLM{response: raw}, "hi", nil)
		require.NoError(t, err, "raw: %q", raw)
		assert.Equal(t, &extractedFields{}, fields, "raw: %q", raw)
	}
}

func TestApplyKeepsExistingValues(t *testing.T) {
	name := "Maria Keller"
	draft := &models.BookingDraft{GuestName: "Original Name", Guests: 2}

	(&extractedFields{GuestName: &name}).apply(draft)
	assert.Equal(t, "Maria Keller", draft.GuestName, "newly stated values overwrite")
	assert.Equal(t, 2, draft.Guests, "unmentioned values survive")

	(&extractedFields{}).apply(draft)
	assert.Equal(t, "Maria Keller", draft.GuestName)
}

func TestApplyDropsUnparseableDates(t *testing.T) {
	bad := "sometime in June"
	draft := &models.BookingDraft{}

	(&extractedFields{CheckIn: &bad}).apply(draft)
	assert.Nil(t, draft.CheckIn)
}

func TestValidateDraftEmailShape(t *testing.T) {
	rooms := roomRepo.NewMemoryRoomRepo()
	draft := &models.BookingDraft{Email: "not-an-email"}

	err := validateDraft(context.Background(), rooms, draft)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email address", vErr.Field)
}

func TestValidateDraftNormalizesRoomCasing(t *testing.T) {
	rooms := roomRepo.NewMemoryRoomRepo()
	draft := &models.BookingDraft{RoomType: "double room"}

	require.NoError(t, validateDraft(context.Background(), rooms, draft))
	assert.Equal(t, "Double Room", draft.RoomType)
}

func TestValidateDraftUnknownRoom(t *testing.T) {
	rooms := roomRepo.NewMemoryRoomRepo()
	draft := &models.BookingDraft{RoomType: "Penthouse"}

	err := validateDraft(context.Background(), rooms, draft)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "room type", vErr.Field)
}

func TestValidateDraftPartialDraftIsFine(t *testing.T) {
	rooms := roomRepo.NewMemoryRoomRepo()
	// A draft with nothing filled in yet has nothing to violate.
	assert.NoError(t, validateDraft(context.Background(), rooms, &models.BookingDraft{}))
}
