package models

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID            uuid.UUID `json:"id"`
	UserA         string    `json:"userA"`
	UserB         string    `json:"userB"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (c *Conversation) Pair() Pair {
	return Pair{Low: c.UserA, High: c.UserB}
}

func (c *Conversation) OtherUserID(userID string) string {
	return c.Pair().Other(userID)
}

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationSummary struct {
	Conversation Conversation `json:"conversation"`
	Profile      *Profile     `json:"profile"`
	LastMessage  *Message     `json:"lastMessage,omitempty"`
}
