package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParticipationDecodesMixedShapes(t *testing.T) {
	payload := `[
		{"id": 1, "user_id": 5, "score": 80, "created_at": "2024-03-15T11:30:00Z"},
		{"id": "2", "userId": "6", "userName": "Bob", "score": "72.5", "createdAt": [2024, 3, 14, 10, 5, 0, 0]},
		{"id": 3, "guest_id": 9, "score": null, "created_at": 1710500400000},
		{"id": 4, "guestId": 10, "score": "n/a", "created_at": true}
	]`

	var participations []Participation
	require.NoError(t, json.Unmarshal([]byte(payload), &participations))
	require.Len(t, participations, 4)

	require.Equal(t, "5", participations[0].RegisteredUserID())
	require.Equal(t, NewNumber(80), participations[0].Score)
	require.Equal(t, "2024-03-15T11:30:00Z", participations[0].Timestamp())

	require.Equal(t, "6", participations[1].RegisteredUserID())
	require.Equal(t, "Bob", participations[1].DisplayUserName())
	require.Equal(t, 72.5, participations[1].Score.Value)
	require.Equal(t, "2024-03-14T10:05:00", participations[1].Timestamp())

	require.Equal(t, "9", participations[2].GuestIdentifier())
	require.False(t, participations[2].Score.Valid)
	require.Nil(t, participations[2].Score.Ptr())
	require.Equal(t, "2024-03-15T11:00:00Z", participations[2].Timestamp())

	require.Equal(t, "10", participations[3].GuestIdentifier())
	require.False(t, participations[3].Score.Valid)
	require.Empty(t, participations[3].Timestamp())
}

func TestFlexibleIDRejectsOtherTypes(t *testing.T) {
	var holder struct {
		ID FlexibleID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": {"nested": 1}}`), &holder))
	require.True(t, holder.ID.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"id": " 17 "}`), &holder))
	require.Equal(t, "17", holder.ID.String())
}

func TestOptionalNumberMarshal(t *testing.T) {
	encoded, err := json.Marshal(struct {
		A OptionalNumber `json:"a"`
		B OptionalNumber `json:"b"`
	}{A: NewNumber(12.5)})
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 12.5, "b": null}`, string(encoded))
	require.Zero(t, OptionalNumber{}.OrZero())
}
