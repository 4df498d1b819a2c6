package services

import (
	"context"
	"fmt"
	"time"

	"venturebridge/internal/domain"
)

const maxMessageLen = 4000

type messageService struct {
	messageRepo    domain.MessageRepository
	contextTimeout time.Duration
}

func NewMessageService(messageRepo domain.MessageRepository, timeout time.Duration) domain.MessageService {
	return &messageService{messageRepo: messageRepo, contextTimeout: timeout}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if receiverID == "" || receiverID == senderID {
		return nil, fmt.Errorf("%w: invalid receiver", domain.ErrInvalidInput)
	}
	if content == "" || len(content) > maxMessageLen {
		return nil, fmt.Errorf("%w: content is required and at most %d characters", domain.ErrInvalidInput, maxMessageLen)
	}

	m := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.messageRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

func (s *messageService) Conversation(ctx context.Context, userID, peerID string, params domain.PaginationParams) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	msgs, err := s.messageRepo.ListConversation(ctx, userID, peerID, params)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return msgs, nil
}

func (s *messageService) DeliverPending(ctx context.Context, userID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	msgs, err := s.messageRepo.ListUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}
	if len(msgs) == 0 {
		return []*domain.Message{}, nil
	}
	if err := s.messageRepo.MarkDelivered(ctx, userID); err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	return msgs, nil
}
