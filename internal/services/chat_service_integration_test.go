package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
	"github.com/Bipinmahat1/NepaliLove/internal/repository"
)

func TestGetOrCreateConversationIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	svc := newIntegrationServices(pool, nil)

	alice := createTestUser(t, ctx, pool, "alice")
	bob := createTestUser(t, ctx, pool, "bob")

	fromAlice, err := svc.chat.GetOrCreateConversation(ctx, alice, bob)
	if err != nil {
		t.Fatalf("GetOrCreateConversation(alice, bob): %v", err)
	}
	fromBob, err := svc.chat.GetOrCreateConversation(ctx, bob, alice)
	if err != nil {
		t.Fatalf("GetOrCreateConversation(bob, alice): %v", err)
	}

	if fromAlice.ID != fromBob.ID {
		t.Fatalf("expected one conversation, got %s and %s", fromAlice.ID, fromBob.ID)
	}
}

func TestGetOrCreateConversationConcurrentCallersShareOneRow(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	svc := newIntegrationServices(pool, nil)

	alice := createTestUser(t, ctx, pool, "alice")
	bob := createTestUser(t, ctx, pool, "bob")

	const callers = 12
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor, other := alice, bob
			if i%2 == 1 {
				actor, other = bob, alice
			}
			conversation, err := svc.chat.GetOrCreateConversation(ctx, actor, other)
			errs[i] = err
			if err == nil {
				ids[i] = conversation.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("caller %d got %s, caller 0 got %s", i, ids[i], ids[0])
		}
	}

	pair, _ := models.NewPair(alice, bob)
	if count := countConversations(t, ctx, pool, pair); count != 1 {
		t.Fatalf("expected 1 conversation row, got %d", count)
	}
}

func TestGetOrCreateConversationValidatesUsers(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	svc := newIntegrationServices(pool, nil)

	alice := createTestUser(t, ctx, pool, "alice")

	if _, err := svc.chat.GetOrCreateConversation(ctx, alice, alice); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self conversation: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.chat.GetOrCreateConversation(ctx, alice, "missing-user-id"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: expected ErrUserNotFound, got %v", err)
	}
}

func TestSendMessageKeepsOrderAndTouchesConversation(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	alice := createTestUser(t, ctx, pool, "alice")
	bob := createTestUser(t, ctx, pool, "bob")
	mallory := createTestUser(t, ctx, pool, "mallory")

	ctrl := gomock.NewController(t)
	publisher := NewMockPublisher(ctrl)
	svc := newIntegrationServices(pool, publisher)

	conversation, err := svc.chat.GetOrCreateConversation(ctx, alice, bob)
	if err != nil {
		t.Fatalf("GetOrCreateConversation: %v", err)
	}

	publisher.EXPECT().
		Publish(eventTypeMatcher(EventNewMessage), conversation.UserA, conversation.UserB).
		Return(nil).
		Times(3)

	contents := []string{"namaste", "  kasto cha?  ", "ramro"}
	senders := []string{alice, bob, alice}
	var last *ChatDelivery
	for i, content := range contents {
		delivery, err := svc.chat.SendMessage(ctx, senders[i], conversation.ID, content)
		if err != nil {
			t.Fatalf("SendMessage %d: %v", i, err)
		}
		if delivery.RecipientID != conversation.OtherUserID(senders[i]) {
			t.Fatalf("message %d: wrong recipient %q", i, delivery.RecipientID)
		}
		last = delivery
	}

	messages, err := svc.chat.ListMessages(ctx, bob, conversation.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(messages))
	}
	for i, message := range messages {
		if message.Content != strings.TrimSpace(contents[i]) {
			t.Fatalf("message %d: expected %q, got %q", i, strings.TrimSpace(contents[i]), message.Content)
		}
		if i > 0 && message.CreatedAt.Before(messages[i-1].CreatedAt) {
			t.Fatalf("messages out of order at %d", i)
		}
	}

	again, err := svc.chat.ListMessages(ctx, alice, conversation.ID)
	if err != nil {
		t.Fatalf("ListMessages again: %v", err)
	}
	if len(again) != len(messages) || again[0].ID != messages[0].ID {
		t.Fatalf("repeated listing should return the same history")
	}

	stored, err := repository.NewConversationRepository(pool).GetByIDForParticipant(ctx, conversation.ID, alice)
	if err != nil {
		t.Fatalf("GetByIDForParticipant: %v", err)
	}
	if !stored.LastMessageAt.Equal(last.Message.CreatedAt) {
		t.Fatalf("lastMessageAt %s should equal newest message %s", stored.LastMessageAt, last.Message.CreatedAt)
	}

	if _, err := svc.chat.ListMessages(ctx, mallory, conversation.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("non-participant read: expected ErrConversationNotFound, got %v", err)
	}
	if _, err := svc.chat.SendMessage(ctx, mallory, conversation.ID, "hi"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("non-participant send: expected ErrConversationNotFound, got %v", err)
	}
}

func TestMatchToChatScenario(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	alice := createTestUser(t, ctx, pool, "alice")
	bob := createTestUser(t, ctx, pool, "bob")
	location := "Kathmandu"
	createTestProfile(t, ctx, pool, alice, profileFixture{Name: "Alice", Location: &location})
	createTestProfile(t, ctx, pool, bob, profileFixture{Name: "Bob", Gender: "male", Location: &location})

	ctrl := gomock.NewController(t)
	publisher := NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(eventTypeMatcher(EventMatch), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	publisher.EXPECT().Publish(eventTypeMatcher(EventNewMessage), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	svc := newIntegrationServices(pool, publisher)

	feed, err := svc.discovery.Discover(ctx, alice, 50)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !containsProfile(feed, bob) {
		t.Fatalf("bob should be discoverable before any swipe")
	}

	if _, err := svc.matches.Swipe(ctx, alice, bob, "like"); err != nil {
		t.Fatalf("Swipe alice: %v", err)
	}
	result, err := svc.matches.Swipe(ctx, bob, alice, "like")
	if err != nil {
		t.Fatalf("Swipe bob: %v", err)
	}
	if !result.IsMatch {
		t.Fatalf("expected a match")
	}

	feed, err = svc.discovery.Discover(ctx, alice, 50)
	if err != nil {
		t.Fatalf("Discover after swipe: %v", err)
	}
	if containsProfile(feed, bob) {
		t.Fatalf("bob should leave alice's feed once swiped")
	}

	conversation, err := svc.chat.GetOrCreateConversation(ctx, bob, alice)
	if err != nil {
		t.Fatalf("GetOrCreateConversation: %v", err)
	}
	if _, err := svc.chat.SendMessage(ctx, alice, conversation.ID, "Hello Bob"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	summaries, err := svc.chat.ListConversations(ctx, bob)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(summaries))
	}
	summary := summaries[0]
	if summary.Profile == nil || summary.Profile.Name != "Alice" {
		t.Fatalf("expected Alice's profile on bob's conversation, got %+v", summary.Profile)
	}
	if summary.LastMessage == nil || summary.LastMessage.Content != "Hello Bob" {
		t.Fatalf("expected last message preview, got %+v", summary.LastMessage)
	}
}

func containsProfile(feed []models.DiscoveryCandidate, userID string) bool {
	for _, candidate := range feed {
		if candidate.Profile.UserID == userID {
			return true
		}
	}
	return false
}
