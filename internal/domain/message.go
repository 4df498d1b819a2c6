package domain

import (
	"context"
	"time"
)

// Message is a persisted chat message between two users. IsRead doubles as
// the delivered flag for the offline-delivery flow.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// MessageRepository defines storage operations for chat messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListConversation returns messages between the two users in either
	// direction, oldest first.
	ListConversation(ctx context.Context, a, b string, params PaginationParams) ([]*Message, error)
	// ListUnread returns undelivered messages addressed to receiverID,
	// oldest first.
	ListUnread(ctx context.Context, receiverID string) ([]*Message, error)
	// MarkDelivered marks every unread message for receiverID as read.
	MarkDelivered(ctx context.Context, receiverID string) error
}

// MessageNotifier pushes a freshly persisted message to any live connections
// of the sender and receiver.
type MessageNotifier interface {
	MessageSent(m *Message)
}

// MessageService persists chat traffic and hands queued messages to the
// realtime layer when a user reconnects.
type MessageService interface {
	Send(ctx context.Context, senderID, receiverID, content string) (*Message, error)
	Conversation(ctx context.Context, userID, peerID string, params PaginationParams) ([]*Message, error)
	// DeliverPending returns undelivered messages for userID and marks them
	// delivered. Called once per (re)connection registration.
	DeliverPending(ctx context.Context, userID string) ([]*Message, error)
}
