package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateOrGet returns the single conversation for pair, creating it when absent.
// The no-op update makes RETURNING yield the existing row on conflict, and
// xmax = 0 only holds for a freshly inserted tuple.
func (r *ConversationRepository) CreateOrGet(
	ctx context.Context,
	pair models.Pair,
) (*models.Conversation, bool, error) {
	query := `
		INSERT INTO conversations (user_a, user_b)
		VALUES ($1, $2)
		ON CONFLICT (user_a, user_b)
		DO UPDATE SET user_a = conversations.user_a
		RETURNING id, user_a, user_b, last_message_at, created_at, (xmax = 0)
	`

	var conversation models.Conversation
	var created bool
	err := r.db.QueryRow(ctx, query, pair.Low, pair.High).Scan(
		&conversation.ID,
		&conversation.UserA,
		&conversation.UserB,
		&conversation.LastMessageAt,
		&conversation.CreatedAt,
		&created,
	)
	if err != nil {
		return nil, false, err
	}

	return &conversation, created, nil
}

// GetByIDForParticipant returns pgx.ErrNoRows both for unknown ids and for
// conversations the participant is not part of.
func (r *ConversationRepository) GetByIDForParticipant(
	ctx context.Context,
	conversationID uuid.UUID,
	participantID string,
) (*models.Conversation, error) {
	query := `
		SELECT id, user_a, user_b, last_message_at, created_at
		FROM conversations
		WHERE id = $1 AND (user_a = $2 OR user_b = $2)
	`
	return scanConversation(r.db.QueryRow(ctx, query, conversationID, participantID))
}

func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	participantID string,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.user_a,
			c.user_b,
			c.last_message_at,
			c.created_at,
			lm.id,
			lm.conversation_id,
			lm.sender_id,
			lm.content,
			lm.created_at
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, content, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.user_a = $1 OR c.user_b = $1
		ORDER BY c.last_message_at DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var messageID *uuid.UUID
		var messageConversationID *uuid.UUID
		var messageSenderID *string
		var messageContent *string
		var messageCreatedAt *time.Time

		if err := rows.Scan(
			&summary.Conversation.ID,
			&summary.Conversation.UserA,
			&summary.Conversation.UserB,
			&summary.Conversation.LastMessageAt,
			&summary.Conversation.CreatedAt,
			&messageID,
			&messageConversationID,
			&messageSenderID,
			&messageContent,
			&messageCreatedAt,
		); err != nil {
			return nil, err
		}

		if messageID != nil {
			summary.LastMessage = &models.Message{
				ID:             *messageID,
				ConversationID: *messageConversationID,
				SenderID:       *messageSenderID,
				Content:        *messageContent,
				CreatedAt:      *messageCreatedAt,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// TouchAt moves last_message_at forward to at. It never moves it backwards, so
// concurrent appends committing out of order keep the latest timestamp.
func (r *ConversationRepository) TouchAt(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET last_message_at = GREATEST(last_message_at, $2)
		WHERE id = $1
	`, conversationID, at)
	return err
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var conversation models.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.UserA,
		&conversation.UserB,
		&conversation.LastMessageAt,
		&conversation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
