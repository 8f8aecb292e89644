package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

const (
	EventNewMessage = "new_message"
	EventMatch      = "match"
	EventError      = "error"
)

// Event is the realtime frame pushed to connected clients.
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	Match   *models.Match   `json:"match,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Publisher delivers an event to every open connection of the given users.
type Publisher interface {
	Publish(event Event, userIDs ...string) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event, ...string) error { return nil }

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
