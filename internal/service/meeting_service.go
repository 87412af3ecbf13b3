package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
	"github.com/saurabh-G07/Virtual-court-platform/internal/postgres"

	"github.com/google/uuid"
)

type MeetingService struct {
	meetings *postgres.MeetingRepository
	now      func() time.Time
}

func NewMeetingService(meetings *postgres.MeetingRepository) *MeetingService {
	return &MeetingService{meetings: meetings, now: time.Now}
}

type CreateMeetingInput struct {
	Subject      string
	Description  *string
	StartTime    time.Time
	EndTime      time.Time
	Participants []int64
}

// CreateMeeting заводит встречу со свежим roomId; создатель всегда
// участник.
func (s *MeetingService) CreateMeeting(ctx context.Context, creatorID int64, in CreateMeetingInput) (*domain.Meeting, error) {
	if in.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, fmt.Errorf("endTime must be after startTime")
	}

	m := &domain.Meeting{
		RoomID:       uuid.New().String(),
		Subject:      in.Subject,
		Description:  in.Description,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		CreatedBy:    creatorID,
		Status:       domain.StatusScheduled,
		Participants: withCreator(in.Participants, creatorID),
	}

	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("meetingRepo.Create: %w", err)
	}
	return m, nil
}

// ListMeetings возвращает встречи пользователя: созданные им плюс те,
// куда он приглашён.
func (s *MeetingService) ListMeetings(ctx context.Context, userID int64) ([]domain.Meeting, error) {
	return s.meetings.ListForUser(ctx, userID)
}

// GetMeeting отдаёт встречу только создателю или участнику.
func (s *MeetingService) GetMeeting(ctx context.Context, userID, id int64) (*domain.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.CreatedBy != userID && !m.IsParticipant(userID) {
		return nil, domain.ErrNotAuthorized
	}
	return m, nil
}

type UpdateMeetingInput struct {
	Subject      *string
	Description  *string
	StartTime    *time.Time
	EndTime      *time.Time
	Status       *domain.MeetingStatus
	Participants []int64
}

// UpdateMeeting — только создатель; незаполненные поля не трогаются.
func (s *MeetingService) UpdateMeeting(ctx context.Context, userID, id int64, in UpdateMeetingInput) (*domain.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.CreatedBy != userID {
		return nil, domain.ErrNotAuthorized
	}

	if in.Subject != nil && *in.Subject != "" {
		m.Subject = *in.Subject
	}
	if in.Description != nil {
		m.Description = in.Description
	}
	if in.StartTime != nil {
		m.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		m.EndTime = *in.EndTime
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *in.Status)
		}
		m.Status = *in.Status
	}
	if in.Participants != nil {
		m.Participants = withCreator(in.Participants, m.CreatedBy)
	}
	if !m.EndTime.After(m.StartTime) {
		return nil, fmt.Errorf("endTime must be after startTime")
	}

	if err := s.meetings.Update(ctx, m, s.now()); err != nil {
		return nil, err
	}
	return s.meetings.GetByID(ctx, id)
}

func (s *MeetingService) DeleteMeeting(ctx context.Context, userID, id int64) error {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.CreatedBy != userID {
		return domain.ErrNotAuthorized
	}

	return s.meetings.Delete(ctx, id)
}

// UpdateStatusByRoom — контракт для трекера занятости. Комната без
// встречи — не ошибка: сокеты переживают удаление встречи.
func (s *MeetingService) UpdateStatusByRoom(ctx context.Context, roomID string, status domain.MeetingStatus) error {
	updated, err := s.meetings.UpdateStatusByRoom(ctx, roomID, status)
	if err != nil {
		return err
	}
	if !updated {
		slog.Debug("status update for unknown room", "room", roomID, "status", status)
	}
	return nil
}

func withCreator(participants []int64, creatorID int64) []int64 {
	for _, id := range participants {
		if id == creatorID {
			return participants
		}
	}
	return append(append([]int64{}, participants...), creatorID)
}
