package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type TokenVerifier interface {
	UserIDFromAccessToken(token string) (int64, error)
}

type Server struct {
	upgrader  websocket.Upgrader
	presence  *Presence
	lifecycle *Lifecycle
	relay     *Relay
	chat      *ChatBroadcaster
	tokens    TokenVerifier

	pingEvery time.Duration
}

func NewServer(presence *Presence, lifecycle *Lifecycle, relay *Relay, chat *ChatBroadcaster, tokens TokenVerifier) *Server {
	return &Server{
		presence:  presence,
		lifecycle: lifecycle,
		relay:     relay,
		chat:      chat,
		tokens:    tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws/stream?access_token=...
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("access_token"))
	if token == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	if _, err := s.tokens.UserIDFromAccessToken(token); err != nil {
		http.Error(w, "invalid access_token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	socketID := uuid.New().String()
	c := newWSConn(conn, socketID)
	sess := NewSession(c, s.presence, s.lifecycle, s.relay, s.chat)
	slog.Debug("ws connected", "socket", socketID)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c, sess)

	// cleanup обязан отработать и при отмене контекста запроса
	sess.Disconnect(context.WithoutCancel(r.Context()))

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "socket", socketID, "err", err)
	}
	slog.Debug("ws disconnected", "socket", socketID)
}

func (s *Server) readLoop(ctx context.Context, c *wsConn, sess *Session) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}

		switch in.Type {
		case TypeJoinRoom:
			var p JoinPayload
			if json.Unmarshal(in.Payload, &p) != nil || p.RoomID == "" {
				s.sendError(c, "invalid join-room payload")
				continue
			}
			if err := sess.Join(ctx, p); err != nil {
				s.sendError(c, err.Error())
			}
		case TypeSignal:
			var p SignalInPayload
			if json.Unmarshal(in.Payload, &p) != nil || p.To == "" {
				s.sendError(c, "invalid signal payload")
				continue
			}
			if err := sess.Signal(p); err != nil {
				s.sendError(c, err.Error())
			}
		case TypeChatMessage:
			var p ChatInPayload
			if json.Unmarshal(in.Payload, &p) != nil {
				s.sendError(c, "invalid chat-message payload")
				continue
			}
			if err := sess.Chat(ctx, p); err != nil {
				slog.Warn("ws chat send failed", "socket", c.SocketID(), "err", err)
				s.sendError(c, "chat message not delivered")
			}
		default:
			// ignore
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

func (s *Server) sendError(c Conn, text string) {
	_ = c.Send(Message{Type: TypeError, Payload: ErrorPayload{Error: text}})
}
