package ws

import (
	"sync"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	SocketID() string
}

// Membership — привязка живого сокета к комнате. Никогда не мутируется,
// при повторной регистрации заменяется целиком.
type Membership struct {
	SocketID string
	RoomID   string
	UserID   int64
	UserName string
}

type occupant struct {
	member Membership
	conn   Conn
}

// Presence — единственная разделяемая структура ядра: кто каким сокетом
// в какой комнате сидит. Все мутации и чтения атомарны относительно друг
// друга; количество жильцов после мутации возвращается из той же
// критической секции, чтобы два одновременных первых входа не увидели
// оба count=1.
type Presence struct {
	mu       sync.RWMutex
	bySocket map[string]*occupant
	byRoom   map[string]map[string]*occupant // roomID -> socketID -> occupant
}

func NewPresence() *Presence {
	return &Presence{
		bySocket: make(map[string]*occupant),
		byRoom:   make(map[string]map[string]*occupant),
	}
}

// Register добавляет membership и возвращает занятость комнаты с учётом
// нового жильца. Повторная регистрация того же сокета вытесняет старую
// запись.
func (p *Presence) Register(c Conn, m Membership) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.bySocket[m.SocketID]; ok {
		p.removeLocked(old)
	}

	o := &occupant{member: m, conn: c}
	p.bySocket[m.SocketID] = o

	rs, ok := p.byRoom[m.RoomID]
	if !ok {
		rs = make(map[string]*occupant)
		p.byRoom[m.RoomID] = rs
	}
	rs[m.SocketID] = o

	return len(rs)
}

// Unregister удаляет сокет и возвращает его membership плюс занятость
// комнаты после удаления. ok=false — сокет не был зарегистрирован;
// это штатная гонка с параллельным disconnect, не ошибка.
func (p *Presence) Unregister(socketID string) (Membership, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	o, ok := p.bySocket[socketID]
	if !ok {
		return Membership{}, 0, false
	}
	p.removeLocked(o)

	return o.member, len(p.byRoom[o.member.RoomID]), true
}

func (p *Presence) removeLocked(o *occupant) {
	delete(p.bySocket, o.member.SocketID)
	if rs, ok := p.byRoom[o.member.RoomID]; ok {
		delete(rs, o.member.SocketID)
		if len(rs) == 0 {
			delete(p.byRoom, o.member.RoomID)
		}
	}
}

func (p *Presence) OccupantsOf(roomID string) []Membership {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rs := p.byRoom[roomID]
	out := make([]Membership, 0, len(rs))
	for _, o := range rs {
		out = append(out, o.member)
	}
	return out
}

// CountOf — занятость без аллокации списка, для горячего пути disconnect.
func (p *Presence) CountOf(roomID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.byRoom[roomID])
}

func (p *Presence) Lookup(socketID string) (Conn, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	o, ok := p.bySocket[socketID]
	if !ok {
		return nil, false
	}
	return o.conn, true
}

func (p *Presence) Broadcast(roomID string, msg Message) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, o := range p.byRoom[roomID] {
		_ = o.conn.Send(msg) // best-effort
	}
}

func (p *Presence) BroadcastExcept(roomID, exceptSocketID string, msg Message) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for sid, o := range p.byRoom[roomID] {
		if sid == exceptSocketID {
			continue
		}
		_ = o.conn.Send(msg) // best-effort
	}
}
