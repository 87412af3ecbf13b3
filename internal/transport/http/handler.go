package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
	"github.com/saurabh-G07/Virtual-court-platform/internal/postgres"
	"github.com/saurabh-G07/Virtual-court-platform/internal/service"
	httpmw "github.com/saurabh-G07/Virtual-court-platform/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	authSvc    *service.AuthService
	meetingSvc *service.MeetingService
	chatSvc    *service.ChatService
}

func NewHandler(auth *service.AuthService, meeting *service.MeetingService, chat *service.ChatService) *Handler {
	return &Handler{
		authSvc:    auth,
		meetingSvc: meeting,
		chatSvc:    chat,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "email already registered"})
			return
		}
		slog.Error("handler.Register:", slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		AccessToken: res.AccessToken,
		ExpiresIn:   int64(h.authSvc.AccessTTL().Seconds()),
		User:        toUserItem(res.User),
	})
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		slog.Error("handler.Login:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		AccessToken: res.AccessToken,
		ExpiresIn:   int64(h.authSvc.AccessTTL().Seconds()),
		User:        toUserItem(res.User),
	})
}

// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	u, err := h.authSvc.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("handler.Me:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toUserItem(u))
}

// GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		slog.Error("handler.ListUsers:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := UsersResponse{Users: make([]UserItem, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserItem(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	u, err := h.authSvc.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("handler.GetUser:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toUserItem(u))
}

// PUT /users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	userID := httpmw.UserIDFromCtx(r.Context())
	u, err := h.authSvc.UpdateProfile(r.Context(), userID, req.Name, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "current password is incorrect"})
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
		default:
			slog.Error("handler.UpdateProfile:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserItem(u))
}

// DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	actorID := httpmw.UserIDFromCtx(r.Context())
	if err := h.authSvc.DeleteUser(r.Context(), actorID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAuthorized):
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "admin only"})
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
		default:
			slog.Error("handler.DeleteUser:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /meetings
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	userID := httpmw.UserIDFromCtx(r.Context())
	m, err := h.meetingSvc.CreateMeeting(r.Context(), userID, service.CreateMeetingInput{
		Subject:      req.Subject,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
	})
	if err != nil {
		slog.Error("handler.CreateMeeting:", slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, toMeetingItem(m))
}

// GET /meetings
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	meetings, err := h.meetingSvc.ListMeetings(r.Context(), userID)
	if err != nil {
		slog.Error("handler.ListMeetings:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := MeetingsResponse{Meetings: make([]MeetingItem, 0, len(meetings))}
	for i := range meetings {
		resp.Meetings = append(resp.Meetings, toMeetingItem(&meetings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /meetings/{id}
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid meeting id"})
		return
	}

	userID := httpmw.UserIDFromCtx(r.Context())
	m, err := h.meetingSvc.GetMeeting(r.Context(), userID, id)
	if err != nil {
		h.writeMeetingError(w, "handler.GetMeeting", err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingItem(m))
}

// PUT /meetings/{id}
func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid meeting id"})
		return
	}

	var req UpdateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	in := service.UpdateMeetingInput{
		Subject:      req.Subject,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
	}
	if req.Status != nil {
		st := domain.MeetingStatus(*req.Status)
		in.Status = &st
	}

	userID := httpmw.UserIDFromCtx(r.Context())
	m, err := h.meetingSvc.UpdateMeeting(r.Context(), userID, id, in)
	if err != nil {
		h.writeMeetingError(w, "handler.UpdateMeeting", err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingItem(m))
}

// DELETE /meetings/{id}
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid meeting id"})
		return
	}

	userID := httpmw.UserIDFromCtx(r.Context())
	if err := h.meetingSvc.DeleteMeeting(r.Context(), userID, id); err != nil {
		h.writeMeetingError(w, "handler.DeleteMeeting", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /meetings/room/{roomId}/chat?after=&limit=
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	after := r.URL.Query().Get("after")
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	items, next, err := h.chatSvc.History(r.Context(), roomID, after, limit)
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.GetChatHistory:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := ChatHistoryResponse{Items: make([]ChatMessageItem, 0, len(items)), NextCursor: next}
	for _, m := range items {
		resp.Items = append(resp.Items, ChatMessageItem{
			ID:         m.ID,
			RoomID:     m.RoomID,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Text:       m.Text,
			SentAt:     m.SentAt.Truncate(time.Millisecond),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeMeetingError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrMeetingNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "meeting not found"})
	case errors.Is(err, domain.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "not authorized"})
	default:
		slog.Error(op+":", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
