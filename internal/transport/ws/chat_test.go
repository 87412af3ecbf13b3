package ws

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChatBroadcastAfterSave(t *testing.T) {
	h := newHarness()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h.chat.now = func() time.Time { return fixed }

	c1 := &fakeConn{id: "s1"}
	c2 := &fakeConn{id: "s2"}
	h.presence.Register(c1, Membership{SocketID: "s1", RoomID: "r", UserID: 1, UserName: "alice"})
	h.presence.Register(c2, Membership{SocketID: "s2", RoomID: "r", UserID: 2, UserName: "bob"})

	err := h.chat.Send(context.Background(), "r", ChatSender{UserID: 1, UserName: "alice"}, "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if h.store.count() != 1 {
		t.Fatalf("saved messages = %d, want 1", h.store.count())
	}

	// получают все, включая отправителя, с одним и тем же серверным ts
	for _, c := range []*fakeConn{c1, c2} {
		got := c.received(TypeChatMessage)
		if len(got) != 1 {
			t.Fatalf("%s: chat messages = %d, want 1", c.id, len(got))
		}
		p, ok := got[0].Payload.(ChatOutPayload)
		if !ok {
			t.Fatalf("%s: payload type %T", c.id, got[0].Payload)
		}
		if p.Message != "hello" || p.Sender.UserName != "alice" {
			t.Fatalf("%s: unexpected payload %+v", c.id, p)
		}
		if !p.Timestamp.Equal(fixed) {
			t.Fatalf("%s: timestamp = %v, want %v", c.id, p.Timestamp, fixed)
		}
	}
}

// Несохранённое сообщение не должен увидеть никто.
func TestChatNoBroadcastOnSaveFailure(t *testing.T) {
	h := newHarness()
	h.store.err = errors.New("insert failed")

	c1 := &fakeConn{id: "s1"}
	c2 := &fakeConn{id: "s2"}
	h.presence.Register(c1, Membership{SocketID: "s1", RoomID: "r", UserID: 1})
	h.presence.Register(c2, Membership{SocketID: "s2", RoomID: "r", UserID: 2})

	err := h.chat.Send(context.Background(), "r", ChatSender{UserID: 1}, "hello")
	if err == nil {
		t.Fatal("Send succeeded, want persistence error")
	}
	for _, c := range []*fakeConn{c1, c2} {
		if got := c.received(TypeChatMessage); len(got) != 0 {
			t.Fatalf("%s observed unsaved message: %+v", c.id, got)
		}
	}
}

// Рассылается текст из сохранённой записи (стор может его нормализовать).
func TestChatBroadcastsStoredText(t *testing.T) {
	h := newHarness()
	c1 := &fakeConn{id: "s1"}
	h.presence.Register(c1, Membership{SocketID: "s1", RoomID: "r", UserID: 1})

	if err := h.chat.Send(context.Background(), "r", ChatSender{UserID: 1}, "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got := c1.received(TypeChatMessage)
	if len(got) != 1 {
		t.Fatalf("chat messages = %d, want 1", len(got))
	}
	if p := got[0].Payload.(ChatOutPayload); p.Message != "hi" {
		t.Fatalf("broadcast text = %q", p.Message)
	}
}
