package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MeetingRepository struct {
	db *pgxpool.Pool
}

func NewMeetingRepository(db *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create вставляет встречу и список участников одной транзакцией.
func (r *MeetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO meetings (room_id, subject, description, start_time, end_time, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		m.RoomID, m.Subject, m.Description, m.StartTime, m.EndTime, m.CreatedBy, m.Status).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}

	for _, uid := range m.Participants {
		if _, err := tx.Exec(ctx, `
			INSERT INTO meeting_participants (meeting_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, m.ID, uid); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *MeetingRepository) GetByID(ctx context.Context, id int64) (*domain.Meeting, error) {
	var m domain.Meeting
	query := `
		SELECT id, room_id, subject, description, start_time, end_time, created_by, status, created_at, updated_at
		FROM meetings WHERE id=$1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.RoomID, &m.Subject, &m.Description, &m.StartTime, &m.EndTime,
		&m.CreatedBy, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, err
	}

	parts, err := r.participantIDs(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Participants = parts

	return &m, nil
}

// ListForUser — встречи, созданные пользователем или с его участием,
// без дублей.
func (r *MeetingRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Meeting, error) {
	query := `
		SELECT DISTINCT m.id, m.room_id, m.subject, m.description, m.start_time, m.end_time,
		       m.created_by, m.status, m.created_at, m.updated_at
		FROM meetings m
		LEFT JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE m.created_by = $1 OR mp.user_id = $1
		ORDER BY m.start_time ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(
			&m.ID, &m.RoomID, &m.Subject, &m.Description, &m.StartTime, &m.EndTime,
			&m.CreatedBy, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		parts, err := r.participantIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Participants = parts
	}

	return out, nil
}

func (r *MeetingRepository) Update(ctx context.Context, m *domain.Meeting, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE meetings
		SET subject=$2, description=$3, start_time=$4, end_time=$5, status=$6, updated_at=$7
		WHERE id=$1
	`, m.ID, m.Subject, m.Description, m.StartTime, m.EndTime, m.Status, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM meeting_participants WHERE meeting_id=$1`, m.ID); err != nil {
		return err
	}
	for _, uid := range m.Participants {
		if _, err := tx.Exec(ctx, `
			INSERT INTO meeting_participants (meeting_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, m.ID, uid); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *MeetingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

// UpdateStatusByRoom — контракт трекера занятости. Отсутствующая комната
// не считается ошибкой: сокеты могут сидеть в комнате, встречу которой
// уже удалили.
func (r *MeetingRepository) UpdateStatusByRoom(ctx context.Context, roomID string, status domain.MeetingStatus) (bool, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE meetings SET status=$2, updated_at=now() WHERE room_id=$1`, roomID, status)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *MeetingRepository) participantIDs(ctx context.Context, meetingID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM meeting_participants WHERE meeting_id=$1 ORDER BY user_id`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
