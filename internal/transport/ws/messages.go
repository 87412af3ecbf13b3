package ws

import (
	"encoding/json"
	"time"
)

// Типы событий стрим-неймспейса
const (
	TypeJoinRoom         = "join-room"         // клиент входит в комнату
	TypeSignal           = "signal"            // WebRTC offer/answer/ICE, тело не интерпретируем
	TypeChatMessage      = "chat-message"      // чат-сообщение
	TypeRoomUsers        = "room-users"        // снапшот участников для нового клиента
	TypeUserConnected    = "user-connected"    // новый участник (остальным)
	TypeUserDisconnected = "user-disconnected" // участник вышел
	TypeError            = "error"             // ошибка только отправителю
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Inbound держит payload сырым: каждый обработчик декодирует своё.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type JoinPayload struct {
	RoomID   string `json:"roomId"`
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

type PeerInfo struct {
	SocketID string `json:"socketId"`
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

type SignalInPayload struct {
	To     string          `json:"to"`
	Signal json.RawMessage `json:"signal"`
}

type SignalOutPayload struct {
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

type ChatSender struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

type ChatInPayload struct {
	RoomID  string     `json:"roomId"`
	Message string     `json:"message"`
	Sender  ChatSender `json:"sender"`
}

type ChatOutPayload struct {
	Sender    ChatSender `json:"sender"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
