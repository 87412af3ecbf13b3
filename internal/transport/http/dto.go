package http

import (
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// --- auth / users ---

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int64    `json:"expiresIn"`
	User        UserItem `json:"user"`
}

type UserItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UsersResponse struct {
	Users []UserItem `json:"users"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func toUserItem(u *domain.User) UserItem {
	return UserItem{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// --- meetings ---

type CreateMeetingRequest struct {
	Subject      string    `json:"subject"`
	Description  *string   `json:"description"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Participants []int64   `json:"participants"`
}

type UpdateMeetingRequest struct {
	Subject      *string    `json:"subject"`
	Description  *string    `json:"description"`
	StartTime    *time.Time `json:"startTime"`
	EndTime      *time.Time `json:"endTime"`
	Status       *string    `json:"status"`
	Participants []int64    `json:"participants"`
}

type MeetingItem struct {
	ID           int64     `json:"id"`
	RoomID       string    `json:"roomId"`
	Subject      string    `json:"subject"`
	Description  *string   `json:"description"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	CreatedBy    int64     `json:"createdBy"`
	Status       string    `json:"status"`
	Participants []int64   `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

type MeetingsResponse struct {
	Meetings []MeetingItem `json:"meetings"`
}

func toMeetingItem(m *domain.Meeting) MeetingItem {
	return MeetingItem{
		ID:           m.ID,
		RoomID:       m.RoomID,
		Subject:      m.Subject,
		Description:  m.Description,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		CreatedBy:    m.CreatedBy,
		Status:       string(m.Status),
		Participants: m.Participants,
		CreatedAt:    m.CreatedAt,
	}
}

// --- chat ---

type ChatMessageItem struct {
	ID         int64     `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   int64     `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sentAt"`
}

type ChatHistoryResponse struct {
	Items      []ChatMessageItem `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
