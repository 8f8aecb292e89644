package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	Ethnicity  *string   `json:"ethnicity"`
	Religion   *string   `json:"religion"`
	Bio        *string   `json:"bio"`
	LookingFor *string   `json:"lookingFor"`
	Location   *string   `json:"location"`
	Photos     []string  `json:"photos"`
	VideoURL   *string   `json:"videoUrl"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Preferences struct {
	ID                uuid.UUID `json:"id"`
	UserID            string    `json:"userId"`
	MinAge            int       `json:"minAge"`
	MaxAge            int       `json:"maxAge"`
	PreferredGender   *string   `json:"preferredGender"`
	PreferredReligion *string   `json:"preferredReligion"`
	MaxDistance       int       `json:"maxDistance"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type DiscoveryCandidate struct {
	Profile Profile `json:"profile"`
	Score   int     `json:"score"`
}
