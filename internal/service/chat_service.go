package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
	"github.com/saurabh-G07/Virtual-court-platform/internal/postgres"
)

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageTooLong = errors.New("message too long")
)

type ChatService struct {
	messages *postgres.MessageRepository
	maxLen   int
}

func NewChatService(messages *postgres.MessageRepository, maxLen int) *ChatService {
	if maxLen <= 0 {
		maxLen = 4000
	}
	return &ChatService{messages: messages, maxLen: maxLen}
}

// Save — контракт Message Store для чат-рассылки. Timestamp приходит от
// вызывающего (серверные часы ядра), не от клиента.
func (s *ChatService) Save(ctx context.Context, roomID string, senderID int64, senderName, text string, sentAt time.Time) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > s.maxLen {
		return nil, ErrMessageTooLong
	}

	return s.messages.Save(ctx, roomID, senderID, senderName, text, sentAt)
}

func (s *ChatService) History(ctx context.Context, roomID, after string, limit int) ([]domain.ChatMessage, string, error) {
	return s.messages.History(ctx, roomID, after, limit)
}
