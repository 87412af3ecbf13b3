package ws

import (
	"context"
	"log/slog"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
)

type StatusStore interface {
	UpdateStatusByRoom(ctx context.Context, roomID string, status domain.MeetingStatus) error
}

// Lifecycle проецирует живую занятость комнаты на статус встречи в БД:
// первый вход — ongoing, опустела — completed. Комната может открыться
// заново: повторный переход 0->1 снова даёт ongoing.
type Lifecycle struct {
	statuses StatusStore
}

func NewLifecycle(statuses StatusStore) *Lifecycle {
	return &Lifecycle{statuses: statuses}
}

// OnJoin вызывается после регистрации в Presence; occupancy — занятость
// уже с учётом вошедшего. Ошибка стора логируется и глотается: presence
// остаётся источником истины, статус — best-effort проекция.
func (l *Lifecycle) OnJoin(ctx context.Context, roomID string, occupancy int) {
	if occupancy != 1 {
		return
	}
	if err := l.statuses.UpdateStatusByRoom(ctx, roomID, domain.StatusOngoing); err != nil {
		slog.Warn("meeting status update failed", "room", roomID, "status", domain.StatusOngoing, "err", err)
	}
}

// OnLeave вызывается после удаления из Presence; occupancy — занятость
// без ушедшего.
func (l *Lifecycle) OnLeave(ctx context.Context, roomID string, occupancy int) {
	if occupancy != 0 {
		return
	}
	if err := l.statuses.UpdateStatusByRoom(ctx, roomID, domain.StatusCompleted); err != nil {
		slog.Warn("meeting status update failed", "room", roomID, "status", domain.StatusCompleted, "err", err)
	}
}
