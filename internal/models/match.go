package models

import (
	"time"

	"github.com/google/uuid"
)

type Match struct {
	ID        uuid.UUID `json:"id"`
	UserA     string    `json:"userA"`
	UserB     string    `json:"userB"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Match) Pair() Pair {
	return Pair{Low: m.UserA, High: m.UserB}
}

func (m *Match) OtherUserID(userID string) string {
	return m.Pair().Other(userID)
}

type MatchWithProfile struct {
	Match   Match    `json:"match"`
	Profile *Profile `json:"profile"`
}
