package ws

import (
	"context"
	"sync"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
)

type fakeConn struct {
	id string

	mu   sync.Mutex
	msgs []Message
}

func (c *fakeConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) Close() error     { return nil }
func (c *fakeConn) SocketID() string { return c.id }

func (c *fakeConn) received(typ string) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Message
	for _, m := range c.msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

type statusCall struct {
	roomID string
	status domain.MeetingStatus
}

type fakeStatusStore struct {
	mu    sync.Mutex
	calls []statusCall
	err   error
}

func (f *fakeStatusStore) UpdateStatusByRoom(_ context.Context, roomID string, status domain.MeetingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, statusCall{roomID: roomID, status: status})
	return nil
}

func (f *fakeStatusStore) recorded() []statusCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]statusCall(nil), f.calls...)
}

type fakeMessageStore struct {
	mu    sync.Mutex
	saved []domain.ChatMessage
	err   error
}

func (f *fakeMessageStore) Save(_ context.Context, roomID string, senderID int64, senderName, text string, sentAt time.Time) (*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	m := domain.ChatMessage{
		ID:         int64(len(f.saved) + 1),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		SentAt:     sentAt,
	}
	f.saved = append(f.saved, m)
	return &m, nil
}

func (f *fakeMessageStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type harness struct {
	presence  *Presence
	statuses  *fakeStatusStore
	store     *fakeMessageStore
	lifecycle *Lifecycle
	relay     *Relay
	chat      *ChatBroadcaster
}

func newHarness() *harness {
	h := &harness{
		presence: NewPresence(),
		statuses: &fakeStatusStore{},
		store:    &fakeMessageStore{},
	}
	h.lifecycle = NewLifecycle(h.statuses)
	h.relay = NewRelay(h.presence)
	h.chat = NewChatBroadcaster(h.presence, h.store)
	return h
}

func (h *harness) connect(socketID string) (*fakeConn, *Session) {
	c := &fakeConn{id: socketID}
	return c, NewSession(c, h.presence, h.lifecycle, h.relay, h.chat)
}
