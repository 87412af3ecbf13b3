package ws

import (
	"encoding/json"
	"log/slog"
)

// Relay пересылает сигнальный payload точка-точка по socketId.
// Содержимое (SDP, ICE-кандидаты) не разбирается.
type Relay struct {
	presence *Presence
}

func NewRelay(presence *Presence) *Relay {
	return &Relay{presence: presence}
}

// Forward доставляет signal сокету to от имени from. Если адресат уже
// отключился — молча бросаем: сигналинг гоняется с disconnect, это не
// ошибка. Доставка best-effort, at-most-once, без очереди и ретраев.
func (r *Relay) Forward(from, to string, signal json.RawMessage) {
	c, ok := r.presence.Lookup(to)
	if !ok {
		slog.Debug("signal target gone", "from", from, "to", to)
		return
	}

	err := c.Send(Message{
		Type:    TypeSignal,
		Payload: SignalOutPayload{From: from, Signal: signal},
	})
	if err != nil {
		slog.Debug("signal send failed", "from", from, "to", to, "err", err)
	}
}
