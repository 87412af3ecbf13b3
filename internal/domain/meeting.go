package domain

import "time"

// MeetingStatus живёт в БД, но переходы scheduled->ongoing и
// ongoing->completed делает трекер занятости комнат. cancelled ставится
// только руками через CRUD.
type MeetingStatus string

const (
	StatusScheduled MeetingStatus = "scheduled"
	StatusOngoing   MeetingStatus = "ongoing"
	StatusCompleted MeetingStatus = "completed"
	StatusCancelled MeetingStatus = "cancelled"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Meeting struct {
	ID          int64         `db:"id"`
	RoomID      string        `db:"room_id"`
	Subject     string        `db:"subject"`
	Description *string       `db:"description"`
	StartTime   time.Time     `db:"start_time"`
	EndTime     time.Time     `db:"end_time"`
	CreatedBy   int64         `db:"created_by"`
	Status      MeetingStatus `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`

	Participants []int64 `db:"-"`
}

func (m *Meeting) IsParticipant(userID int64) bool {
	for _, id := range m.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
