package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(ctx context.Context, roomID string, senderID int64, senderName, text string, sentAt time.Time) (*domain.ChatMessage, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO messages (room_id, sender_id, sender_name, text, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, room_id, sender_id, sender_name, text, sent_at
	`, roomID, senderID, senderName, text, sentAt)

	var m domain.ChatMessage
	if err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderName, &m.Text, &m.SentAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// History — история комнаты с курсорной пагинацией (sent_at,id DESC).
func (r *MessageRepository) History(ctx context.Context, roomID, after string, limit int) ([]domain.ChatMessage, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	cur, err := DecodeCursor(after)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}

	const query = `
		SELECT id, room_id, sender_id, sender_name, text, sent_at
		FROM messages
		WHERE room_id = $1
		  AND (
		    $2::timestamptz IS NULL
		    OR sent_at < $2
		    OR (sent_at = $2 AND id < $3)
		  )
		ORDER BY sent_at DESC, id DESC
		LIMIT $4
	`

	var sentAt any
	var id any
	if cur != nil {
		sentAt = cur.SentAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, roomID, sentAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderName, &m.Text, &m.SentAt); err != nil {
			return nil, "", err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		if c, e := EncodeCursor(Cursor{SentAt: last.SentAt, ID: last.ID}); e == nil {
			next = c
		}
	}
	return out, next, nil
}
