package ws

import (
	"context"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
)

type MessageStore interface {
	Save(ctx context.Context, roomID string, senderID int64, senderName, text string, sentAt time.Time) (*domain.ChatMessage, error)
}

// ChatBroadcaster: сначала сохранить, потом разослать. Несохранённое
// сообщение не видит никто, кроме отправителя (в виде ошибки).
type ChatBroadcaster struct {
	presence *Presence
	messages MessageStore
	now      func() time.Time
}

func NewChatBroadcaster(presence *Presence, messages MessageStore) *ChatBroadcaster {
	return &ChatBroadcaster{
		presence: presence,
		messages: messages,
		now:      time.Now,
	}
}

// Send персистит сообщение с серверным timestamp (клиентским часам не
// верим) и рассылает его текущим жильцам комнаты, включая отправителя.
// Снапшот получателей берётся на момент доставки: вошедший между save и
// рассылкой может сообщение и не получить, это допустимо.
func (b *ChatBroadcaster) Send(ctx context.Context, roomID string, sender ChatSender, text string) error {
	ts := b.now().UTC()

	saved, err := b.messages.Save(ctx, roomID, sender.UserID, sender.UserName, text, ts)
	if err != nil {
		return err
	}

	b.presence.Broadcast(roomID, Message{
		Type: TypeChatMessage,
		Payload: ChatOutPayload{
			Sender:    sender,
			Message:   saved.Text,
			Timestamp: ts,
		},
	})

	return nil
}
