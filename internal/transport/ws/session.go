package ws

import (
	"context"
	"errors"
	"sync"
)

// Нарушения протокола: отклоняются без мутации разделяемого состояния.
var (
	ErrNotJoined     = errors.New("not joined to a room")
	ErrAlreadyJoined = errors.New("already joined to a room")
	ErrSessionClosed = errors.New("session closed")
)

type sessionState int

const (
	stateUnjoined sessionState = iota
	stateJoined
	stateClosed
)

// Session владеет одним сокетом на всём его веку: Unjoined -> Joined ->
// Closed. Смены комнаты нет — второй комнате нужен второй сокет.
type Session struct {
	conn      Conn
	presence  *Presence
	lifecycle *Lifecycle
	relay     *Relay
	chat      *ChatBroadcaster

	mu     sync.Mutex
	state  sessionState
	member Membership
}

func NewSession(conn Conn, presence *Presence, lifecycle *Lifecycle, relay *Relay, chat *ChatBroadcaster) *Session {
	return &Session{
		conn:      conn,
		presence:  presence,
		lifecycle: lifecycle,
		relay:     relay,
		chat:      chat,
	}
}

// Join: регистрация в Presence, статус комнаты, снапшот соседей новому
// клиенту и user-connected остальным.
func (s *Session) Join(ctx context.Context, p JoinPayload) error {
	s.mu.Lock()
	switch s.state {
	case stateJoined:
		s.mu.Unlock()
		return ErrAlreadyJoined
	case stateClosed:
		s.mu.Unlock()
		return ErrSessionClosed
	}
	m := Membership{
		SocketID: s.conn.SocketID(),
		RoomID:   p.RoomID,
		UserID:   p.UserID,
		UserName: p.UserName,
	}
	s.member = m
	s.state = stateJoined
	s.mu.Unlock()

	occupancy := s.presence.Register(s.conn, m)
	s.lifecycle.OnJoin(ctx, m.RoomID, occupancy)

	peers := make([]PeerInfo, 0)
	for _, o := range s.presence.OccupantsOf(m.RoomID) {
		if o.SocketID == m.SocketID {
			continue
		}
		peers = append(peers, PeerInfo{SocketID: o.SocketID, UserID: o.UserID, UserName: o.UserName})
	}
	_ = s.conn.Send(Message{Type: TypeRoomUsers, Payload: peers})

	s.presence.BroadcastExcept(m.RoomID, m.SocketID, Message{
		Type:    TypeUserConnected,
		Payload: PeerInfo{SocketID: m.SocketID, UserID: m.UserID, UserName: m.UserName},
	})

	return nil
}

// Signal делегирует в Relay. From всегда свой socketId — клиентскому
// полю from доверять нельзя.
func (s *Session) Signal(p SignalInPayload) error {
	s.mu.Lock()
	joined := s.state == stateJoined
	s.mu.Unlock()
	if !joined {
		return ErrNotJoined
	}

	s.relay.Forward(s.conn.SocketID(), p.To, p.Signal)
	return nil
}

// Chat делегирует в ChatBroadcaster. Комната и отправитель берутся из
// membership, а не из payload: сокет привязан ровно к одной комнате.
func (s *Session) Chat(ctx context.Context, p ChatInPayload) error {
	s.mu.Lock()
	if s.state != stateJoined {
		s.mu.Unlock()
		return ErrNotJoined
	}
	m := s.member
	s.mu.Unlock()

	sender := ChatSender{UserID: m.UserID, UserName: m.UserName}
	return s.chat.Send(ctx, m.RoomID, sender, p.Message)
}

// Disconnect идемпотентен: повторное сетевое событие close на уже
// закрытой сессии — no-op. Для Unjoined чистить нечего.
func (s *Session) Disconnect(ctx context.Context) {
	s.mu.Lock()
	if s.state == stateClosed {
		s.mu.Unlock()
		return
	}
	prev := s.state
	m := s.member
	s.state = stateClosed
	s.mu.Unlock()

	if prev != stateJoined {
		return
	}

	left, occupancy, ok := s.presence.Unregister(m.SocketID)
	if !ok {
		return // уже снят параллельным disconnect
	}

	s.lifecycle.OnLeave(ctx, left.RoomID, occupancy)

	s.presence.Broadcast(left.RoomID, Message{
		Type:    TypeUserDisconnected,
		Payload: PeerInfo{SocketID: left.SocketID, UserID: left.UserID, UserName: left.UserName},
	})
}
