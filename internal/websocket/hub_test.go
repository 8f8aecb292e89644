package chatws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
	"github.com/Bipinmahat1/NepaliLove/internal/services"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func connect(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()

	client := NewClient(hub, nil, userID)
	require.NoError(t, hub.Register(client))
	return client
}

func receive(t *testing.T, client *Client) services.Event {
	t.Helper()

	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "send channel closed")
		var event services.Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatalf("no frame for %s", client.userID)
		return services.Event{}
	}
}

func assertSilent(t *testing.T, client *Client) {
	t.Helper()

	select {
	case payload := <-client.send:
		t.Fatalf("unexpected frame for %s: %s", client.userID, payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishReachesOnlyAddressedUsers(t *testing.T) {
	hub := startHub(t)

	alicePhone := connect(t, hub, "alice")
	aliceLaptop := connect(t, hub, "alice")
	bob := connect(t, hub, "bob")
	eve := connect(t, hub, "eve")

	message := &models.Message{ID: uuid.New(), SenderID: "alice", Content: "hi"}
	require.NoError(t, hub.Publish(services.Event{Type: services.EventNewMessage, Message: message}, "alice", "bob"))

	for _, client := range []*Client{alicePhone, aliceLaptop, bob} {
		event := receive(t, client)
		assert.Equal(t, services.EventNewMessage, event.Type)
		require.NotNil(t, event.Message)
		assert.Equal(t, message.ID, event.Message.ID)
	}
	assertSilent(t, eve)
	assert.Equal(t, 4, hub.ConnectionCount())
}

func TestPublishDeduplicatesRecipients(t *testing.T) {
	hub := startHub(t)
	alice := connect(t, hub, "alice")

	require.NoError(t, hub.Publish(services.Event{Type: services.EventMatch}, "alice", "alice"))

	receive(t, alice)
	assertSilent(t, alice)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := connect(t, hub, "slow")

	for i := 0; i < sendBufferSize+1; i++ {
		require.NoError(t, hub.Relay([]byte(`{"type":"typing"}`), "slow"))
	}

	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)

	drained := 0
	for range slow.send {
		drained++
	}
	assert.Equal(t, sendBufferSize, drained)
}

func TestUnregisterClosesQueue(t *testing.T) {
	hub := startHub(t)
	client := connect(t, hub, "alice")

	hub.Unregister(client)

	_, ok := <-client.send
	assert.False(t, ok)
	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestPublishAfterShutdownFails(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := NewClient(hub, nil, "alice")
	require.NoError(t, hub.Register(client))

	require.NoError(t, hub.Context().Err())

	cancel()
	<-hub.done

	assert.ErrorIs(t, hub.Context().Err(), context.Canceled)
	_, ok := <-client.send
	assert.False(t, ok, "shutdown should close client queues")
	assert.ErrorIs(t, hub.Publish(services.Event{Type: services.EventMatch}, "alice"), ErrHubClosed)
	assert.ErrorIs(t, hub.Register(NewClient(hub, nil, "bob")), ErrHubClosed)
}
