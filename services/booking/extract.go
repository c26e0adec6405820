package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	roomRepo "george/database/repository/room"
	"george/models"
	ai "george/services/intelligence"
)

const extractPromptTemplate = `You are extracting booking form fields from a hotel guest's message.

Today's date is %s. The hotel's room types are: %s.

Guest message: %q

Return ONLY a JSON object with these keys, using null for anything the
message does not state:
{
  "guest_name": string or null,
  "email": string or null,
  "phone": string or null,
  "room_type": one of the listed room types or null,
  "check_in": "YYYY-MM-DD" or null,
  "check_out": "YYYY-MM-DD" or null,
  "guests": integer or null
}

Rules:
- Do NOT guess values the guest did not give.
- Resolve relative or partial dates against today's date.
- No markdown fences, no commentary, only the JSON object.`

type extractedFields struct {
	GuestName *string `json:"guest_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	RoomType  *string `json:"room_type"`
	CheckIn   *string `json:"check_in"`
	CheckOut  *string `json:"check_out"`
	Guests    *int    `json:"guests"`
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractFields asks the completion collaborator for the fields present in
// one utterance. The collaborator is constrained to the recognized field
// set; anything it cannot read stays null and the draft is left untouched.
func extractFields(ctx context.Context, llm ai.CompletionClient, utterance string, rooms []models.RoomType) (*extractedFields, error) {
	names := make([]string, 0, len(rooms))
	for _, r := range rooms {
		names = append(names, r.Name)
	}
	prompt := fmt.Sprintf(extractPromptTemplate,
		time.Now().Format("2006-01-02"),
		strings.Join(names, ", "),
		utterance,
	)

	raw, err := llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("field extraction failed: %w", err)
	}

	// Models occasionally wrap the object in fences or prose anyway.
	match := jsonObjectPattern.FindString(raw)
	if match == "" {
		return &extractedFields{}, nil
	}
	var fields extractedFields
	if err := json.Unmarshal([]byte(match), &fields); err != nil {
		return &extractedFields{}, nil
	}
	return &fields, nil
}

// apply merges the extracted fields into the draft. Unparseable dates are
// dropped rather than stored; semantic validation happens afterwards.
func (f *extractedFields) apply(draft *models.BookingDraft) {
	if f.GuestName != nil && *f.GuestName != "" {
		draft.GuestName = strings.TrimSpace(*f.GuestName)
	}
	if f.Email != nil && *f.Email != "" {
		draft.Email = strings.TrimSpace(*f.Email)
	}
	if f.Phone != nil && *f.Phone != "" {
		draft.Phone = strings.TrimSpace(*f.Phone)
	}
	if f.RoomType != nil && *f.RoomType != "" {
		draft.RoomType = strings.TrimSpace(*f.RoomType)
	}
	if f.CheckIn != nil {
		if d, err := time.Parse("2006-01-02", *f.CheckIn); err == nil {
			draft.CheckIn = &d
		}
	}
	if f.CheckOut != nil {
		if d, err := time.Parse("2006-01-02", *f.CheckOut); err == nil {
			draft.CheckOut = &d
		}
	}
	if f.Guests != nil && *f.Guests > 0 {
		draft.Guests = *f.Guests
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateDraft checks every constraint the partially filled draft can
// already violate, returning the first violation.
func validateDraft(ctx context.Context, rooms roomRepo.Repository, draft *models.BookingDraft) error {
	if draft.Email != "" && !emailPattern.MatchString(draft.Email) {
		return newValidationError("email address", fmt.Sprintf("%q does not look like a valid email address", draft.Email))
	}

	var room *models.RoomType
	if draft.RoomType != "" {
		var err error
		room, err = rooms.GetByName(ctx, draft.RoomType)
		if err != nil {
			return fmt.Errorf("room lookup failed: %w", err)
		}
		if room == nil {
			return newValidationError("room type", fmt.Sprintf("%q is not one of our rooms", draft.RoomType))
		}
		// Normalize to the canonical casing.
		draft.RoomType = room.Name
	}

	if draft.CheckIn != nil && draft.CheckOut != nil && !draft.CheckOut.After(*draft.CheckIn) {
		return newValidationError("check-out date", "must be after the check-in date")
	}
	if draft.CheckIn != nil && draft.CheckIn.Before(time.Now().Truncate(24*time.Hour)) {
		return newValidationError("check-in date", "cannot be in the past")
	}
	if room != nil && draft.Guests > room.Capacity {
		return newValidationError("number of guests",
			fmt.Sprintf("cannot exceed %d for the %s", room.Capacity, room.Name))
	}
	return nil
}
