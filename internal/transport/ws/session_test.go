package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
)

func TestSessionJoinFirstAndSecond(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	c1, s1 := h.connect("s1")
	if err := s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1, UserName: "alice"}); err != nil {
		t.Fatalf("join s1: %v", err)
	}

	// первому — пустой снапшот и ровно один перевод комнаты в ongoing
	snap := c1.received(TypeRoomUsers)
	if len(snap) != 1 {
		t.Fatalf("room-users for s1 = %d, want 1", len(snap))
	}
	if peers := snap[0].Payload.([]PeerInfo); len(peers) != 0 {
		t.Fatalf("first joiner sees peers: %v", peers)
	}
	calls := h.statuses.recorded()
	if len(calls) != 1 || calls[0].status != domain.StatusOngoing || calls[0].roomID != "r" {
		t.Fatalf("status calls after first join: %+v", calls)
	}

	c2, s2 := h.connect("s2")
	if err := s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2, UserName: "bob"}); err != nil {
		t.Fatalf("join s2: %v", err)
	}

	// второй видит первого в снапшоте, но не себя
	snap = c2.received(TypeRoomUsers)
	if len(snap) != 1 {
		t.Fatalf("room-users for s2 = %d, want 1", len(snap))
	}
	peers := snap[0].Payload.([]PeerInfo)
	if len(peers) != 1 || peers[0].SocketID != "s1" || peers[0].UserName != "alice" {
		t.Fatalf("s2 snapshot: %v", peers)
	}

	// первому прилетает user-connected про второго; второму — нет
	conn1 := c1.received(TypeUserConnected)
	if len(conn1) != 1 {
		t.Fatalf("user-connected to s1 = %d, want 1", len(conn1))
	}
	if p := conn1[0].Payload.(PeerInfo); p.SocketID != "s2" || p.UserID != 2 {
		t.Fatalf("user-connected payload: %+v", p)
	}
	if got := c2.received(TypeUserConnected); len(got) != 0 {
		t.Fatalf("joiner notified about self: %v", got)
	}

	// второй join комнату не трогает
	if calls := h.statuses.recorded(); len(calls) != 1 {
		t.Fatalf("status calls after second join: %+v", calls)
	}
}

func TestSessionDoubleJoinRejected(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, s1 := h.connect("s1")
	if err := s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := s1.Join(ctx, JoinPayload{RoomID: "other", UserID: 1}); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("second join err = %v, want ErrAlreadyJoined", err)
	}
	if got := h.presence.CountOf("other"); got != 0 {
		t.Fatalf("rejected join mutated presence: CountOf(other) = %d", got)
	}
}

func TestSessionSignalRouted(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	c1, s1 := h.connect("s1")
	_, s2 := h.connect("s2")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2})

	sdp := json.RawMessage(`{"type":"offer"}`)
	if err := s2.Signal(SignalInPayload{To: "s1", Signal: sdp}); err != nil {
		t.Fatalf("signal: %v", err)
	}

	got := c1.received(TypeSignal)
	if len(got) != 1 {
		t.Fatalf("signals at s1 = %d, want 1", len(got))
	}
	p := got[0].Payload.(SignalOutPayload)
	if p.From != "s2" {
		t.Fatalf("from = %q, want s2", p.From)
	}
	if string(p.Signal) != string(sdp) {
		t.Fatalf("signal body mangled: %s", p.Signal)
	}
}

// Сигнал ушедшему адресату тихо теряется, без ошибки и паники.
func TestSessionSignalToGonePeer(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, s1 := h.connect("s1")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})

	if err := s1.Signal(SignalInPayload{To: "ghost", Signal: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("signal to gone peer: %v", err)
	}
}

func TestSessionSignalBeforeJoinRejected(t *testing.T) {
	h := newHarness()

	_, s1 := h.connect("s1")
	err := s1.Signal(SignalInPayload{To: "s2", Signal: json.RawMessage(`{}`)})
	if !errors.Is(err, ErrNotJoined) {
		t.Fatalf("err = %v, want ErrNotJoined", err)
	}
}

func TestSessionChatBeforeJoinRejected(t *testing.T) {
	h := newHarness()

	_, s1 := h.connect("s1")
	err := s1.Chat(context.Background(), ChatInPayload{Message: "hi"})
	if !errors.Is(err, ErrNotJoined) {
		t.Fatalf("err = %v, want ErrNotJoined", err)
	}
	if h.store.count() != 0 {
		t.Fatalf("message persisted before join")
	}
}

func TestSessionChatUsesMembership(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, s1 := h.connect("s1")
	c2, s2 := h.connect("s2")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1, UserName: "alice"})
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2, UserName: "bob"})

	if err := s1.Chat(ctx, ChatInPayload{Message: "hello"}); err != nil {
		t.Fatalf("chat: %v", err)
	}

	got := c2.received(TypeChatMessage)
	if len(got) != 1 {
		t.Fatalf("chat at s2 = %d, want 1", len(got))
	}
	p := got[0].Payload.(ChatOutPayload)
	if p.Sender.UserID != 1 || p.Sender.UserName != "alice" {
		t.Fatalf("sender taken not from membership: %+v", p.Sender)
	}
}

func TestSessionDisconnectNotifiesRemaining(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, s1 := h.connect("s1")
	c2, s2 := h.connect("s2")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1, UserName: "alice"})
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2, UserName: "bob"})

	s1.Disconnect(ctx)

	got := c2.received(TypeUserDisconnected)
	if len(got) != 1 {
		t.Fatalf("user-disconnected at s2 = %d, want 1", len(got))
	}
	if p := got[0].Payload.(PeerInfo); p.SocketID != "s1" || p.UserName != "alice" {
		t.Fatalf("payload: %+v", p)
	}
	if got := h.presence.CountOf("r"); got != 1 {
		t.Fatalf("occupancy = %d, want 1", got)
	}

	// комната не пуста — completed быть не должно
	for _, c := range h.statuses.recorded() {
		if c.status == domain.StatusCompleted {
			t.Fatalf("room completed while occupied: %+v", c)
		}
	}
}

func TestSessionLastLeaveCompletes(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, s1 := h.connect("s1")
	_, s2 := h.connect("s2")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2})

	s1.Disconnect(ctx)
	s2.Disconnect(ctx)

	calls := h.statuses.recorded()
	if len(calls) != 2 {
		t.Fatalf("status calls: %+v", calls)
	}
	if calls[1].status != domain.StatusCompleted || calls[1].roomID != "r" {
		t.Fatalf("final call: %+v", calls[1])
	}
	if got := h.presence.CountOf("r"); got != 0 {
		t.Fatalf("occupancy after full drain = %d", got)
	}
}

func TestSessionDisconnectIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	c2, s2 := h.connect("s2")
	_, s1 := h.connect("s1")
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2})
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})

	s1.Disconnect(ctx)
	s1.Disconnect(ctx)
	s1.Disconnect(ctx)

	if got := c2.received(TypeUserDisconnected); len(got) != 1 {
		t.Fatalf("user-disconnected delivered %d times, want 1", len(got))
	}
	if got := h.presence.CountOf("r"); got != 1 {
		t.Fatalf("occupancy = %d, want 1", got)
	}
}

// Закрытие сокета, который так и не вошёл в комнату, ничего не трогает.
func TestSessionDisconnectUnjoined(t *testing.T) {
	h := newHarness()

	_, s1 := h.connect("s1")
	s1.Disconnect(context.Background())

	if calls := h.statuses.recorded(); len(calls) != 0 {
		t.Fatalf("status calls from unjoined disconnect: %+v", calls)
	}
	if err := s1.Signal(SignalInPayload{To: "x"}); !errors.Is(err, ErrNotJoined) {
		t.Fatalf("post-close signal err = %v", err)
	}
	if err := s1.Join(context.Background(), JoinPayload{RoomID: "r", UserID: 1}); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("join after close err = %v, want ErrSessionClosed", err)
	}
}

// Повторный вход в ту же комнату новым сокетом переоткрывает её.
func TestSessionRejoinReopensRoom(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, s1 := h.connect("s1")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})
	s1.Disconnect(ctx)

	_, s2 := h.connect("s2")
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})

	calls := h.statuses.recorded()
	want := []domain.MeetingStatus{domain.StatusOngoing, domain.StatusCompleted, domain.StatusOngoing}
	if len(calls) != len(want) {
		t.Fatalf("status calls = %+v", calls)
	}
	for i, c := range calls {
		if c.status != want[i] {
			t.Fatalf("call %d: %s, want %s", i, c.status, want[i])
		}
	}
}

func TestSessionChatPersistFailureNoBroadcast(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	c1, s1 := h.connect("s1")
	c2, s2 := h.connect("s2")
	_ = s1.Join(ctx, JoinPayload{RoomID: "r", UserID: 1})
	_ = s2.Join(ctx, JoinPayload{RoomID: "r", UserID: 2})

	h.store.err = errors.New("db down")
	if err := s1.Chat(ctx, ChatInPayload{Message: "lost"}); err == nil {
		t.Fatal("chat succeeded despite persistence failure")
	}
	for _, c := range []*fakeConn{c1, c2} {
		if got := c.received(TypeChatMessage); len(got) != 0 {
			t.Fatalf("%s observed unsaved message", c.id)
		}
	}
}
