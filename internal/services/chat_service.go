package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/metrics"
	"github.com/Bipinmahat1/NepaliLove/internal/models"
	"github.com/Bipinmahat1/NepaliLove/internal/repository"
)

const MaxMessageLength = 4000

type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type ConversationStore interface {
	CreateOrGet(ctx context.Context, pair models.Pair) (*models.Conversation, bool, error)
	GetByIDForParticipant(ctx context.Context, conversationID uuid.UUID, participantID string) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, participantID string) ([]models.ConversationSummary, error)
}

type MessageLister interface {
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
}

type ChatService struct {
	db            TxBeginner
	conversations ConversationStore
	messages      MessageLister
	users         UserChecker
	profiles      ProfileReader
	publisher     Publisher
	log           zerolog.Logger
}

type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.Message
	RecipientID  string
}

func NewChatService(
	db TxBeginner,
	conversations ConversationStore,
	messages MessageLister,
	users UserChecker,
	profiles ProfileReader,
	publisher Publisher,
	log zerolog.Logger,
) *ChatService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &ChatService{
		db:            db,
		conversations: conversations,
		messages:      messages,
		users:         users,
		profiles:      profiles,
		publisher:     publisher,
		log:           log.With().Str("component", "chat").Logger(),
	}
}

// GetOrCreateConversation returns the pair's only conversation regardless of
// which side asks or how many callers race.
func (s *ChatService) GetOrCreateConversation(
	ctx context.Context,
	actorID string,
	otherUserID string,
) (*models.Conversation, error) {
	pair, err := models.NewPair(actorID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.users.Exists(ctx, pair.Other(strings.TrimSpace(actorID)))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	conversation, created, err := s.conversations.CreateOrGet(ctx, pair)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if created {
		s.log.Info().
			Str("conversation_id", conversation.ID.String()).
			Str("user_a", conversation.UserA).
			Str("user_b", conversation.UserB).
			Msg("conversation created")
	}

	return conversation, nil
}

func (s *ChatService) ListConversations(ctx context.Context, actorID string) ([]models.ConversationSummary, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, ErrInvalidInput
	}

	summaries, err := s.conversations.ListForParticipant(ctx, actorID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]string, 0, len(summaries))
	for i := range summaries {
		otherIDs = append(otherIDs, summaries[i].Conversation.OtherUserID(actorID))
	}

	profiles, err := s.profiles.GetMany(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		if profile, ok := profiles[summaries[i].Conversation.OtherUserID(actorID)]; ok {
			profile := profile
			summaries[i].Profile = &profile
		}
	}

	return summaries, nil
}

// ListMessages returns the whole history, oldest first. Non-participants get
// ErrConversationNotFound so conversation ids can not be guessed.
func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID string,
	conversationID uuid.UUID,
) ([]models.Message, error) {
	if _, err := s.participantConversation(ctx, actorID, conversationID); err != nil {
		return nil, err
	}

	return s.messages.ListByConversation(ctx, conversationID)
}

// SendMessage appends a message and advances the conversation's
// lastMessageAt to the message timestamp in one transaction, then pushes the
// message to both participants.
func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID string,
	conversationID uuid.UUID,
	content string,
) (*ChatDelivery, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return nil, ErrInvalidInput
	}

	conversation, err := s.participantConversation(ctx, actorID, conversationID)
	if err != nil {
		return nil, err
	}
	actorID = strings.TrimSpace(actorID)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	message, err := txMessageRepo.Create(ctx, conversationID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.TouchAt(ctx, conversationID, message.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if message.CreatedAt.After(conversation.LastMessageAt) {
		conversation.LastMessageAt = message.CreatedAt
	}
	metrics.RecordMessage()

	delivery := &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  conversation.OtherUserID(actorID),
	}

	event := Event{Type: EventNewMessage, Message: message}
	if err := s.publisher.Publish(event, conversation.UserA, conversation.UserB); err != nil {
		s.log.Warn().Err(err).Str("message_id", message.ID.String()).Msg("message notification failed")
	}

	return delivery, nil
}

// Participants returns the users other than actorID that share the
// conversation. Used to scope relayed realtime frames.
func (s *ChatService) Participants(
	ctx context.Context,
	actorID string,
	conversationID uuid.UUID,
) ([]string, error) {
	conversation, err := s.participantConversation(ctx, actorID, conversationID)
	if err != nil {
		return nil, err
	}
	return []string{conversation.OtherUserID(strings.TrimSpace(actorID))}, nil
}

func (s *ChatService) participantConversation(
	ctx context.Context,
	actorID string,
	conversationID uuid.UUID,
) (*models.Conversation, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" || conversationID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversations.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return conversation, nil
}
