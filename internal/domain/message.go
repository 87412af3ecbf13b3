package domain

import "time"

// ChatMessage неизменяемо после создания; удаление/ретеншен — забота
// внешних инструментов.
type ChatMessage struct {
	ID         int64     `db:"id"`
	RoomID     string    `db:"room_id"`
	SenderID   int64     `db:"sender_id"`
	SenderName string    `db:"sender_name"`
	Text       string    `db:"text"`
	SentAt     time.Time `db:"sent_at"`
}
