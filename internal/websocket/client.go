package chatws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/Bipinmahat1/NepaliLove/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxFrameSize   = 16 * 1024
	sendBufferSize = 32
)

// ChatSender is the slice of the chat service the socket needs.
type ChatSender interface {
	SendMessage(ctx context.Context, actorID string, conversationID uuid.UUID, content string) (*services.ChatDelivery, error)
	Participants(ctx context.Context, actorID string, conversationID uuid.UUID) ([]string, error)
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump handles inbound frames until the connection fails. "message"
// frames are persisted through the chat service, which fans the stored
// message out. Any other frame naming a conversation is relayed verbatim to
// the other participants.
func (c *Client) ReadPump(ctx context.Context, chat ChatSender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleFrame(ctx, chat, payload)
	}
}

func (c *Client) handleFrame(ctx context.Context, chat ChatSender, payload []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		c.writeError("invalid message payload")
		return
	}

	if frame.ConversationID == "" {
		c.writeError("unsupported message type")
		return
	}
	conversationID, err := uuid.Parse(frame.ConversationID)
	if err != nil {
		c.writeError("invalid conversation id")
		return
	}

	if frame.Type == "message" {
		if _, err := chat.SendMessage(ctx, c.userID, conversationID, frame.Content); err != nil {
			c.writeError(errorText(err))
		}
		return
	}

	recipients, err := chat.Participants(ctx, c.userID, conversationID)
	if err != nil {
		c.writeError(errorText(err))
		return
	}
	if err := c.hub.Relay(payload, recipients...); err != nil {
		c.hub.log.Warn().Err(err).Str("user_id", c.userID).Msg("relay failed")
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeError answers only this connection; errors are never fanned out.
func (c *Client) writeError(message string) {
	payload, err := json.Marshal(services.Event{Type: services.EventError, Error: message})
	if err != nil {
		return
	}
	if err := c.hub.enqueue(delivery{event: services.EventError, payload: payload, target: c}); err != nil {
		c.hub.log.Debug().Err(err).Str("user_id", c.userID).Msg("error frame not delivered")
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return "invalid message"
	case errors.Is(err, services.ErrConversationNotFound):
		return "conversation not found"
	default:
		return "failed to send message"
	}
}
