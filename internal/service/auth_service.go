package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/internal/domain"
	"github.com/saurabh-G07/Virtual-court-platform/internal/postgres"
	"github.com/saurabh-G07/Virtual-court-platform/internal/security"
)

type AuthResult struct {
	User        *domain.User
	AccessToken string
}

type AuthService struct {
	users      *postgres.UserRepository
	jwt        *security.JWTSigner
	passPolicy security.PasswordPolicy
	now        func() time.Time
}

func NewAuthService(users *postgres.UserRepository, jwt *security.JWTSigner, passPolicy security.PasswordPolicy) *AuthService {
	return &AuthService{
		users:      users,
		jwt:        jwt,
		passPolicy: passPolicy,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, errors.New("name and email are required")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("auth.register.existsByEmail failed", slog.Any("err", err))
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := security.HashPassword(password, &s.passPolicy)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		slog.Error("auth.register.createUser failed", slog.Any("err", err))
		return nil, err
	}

	access, err := s.jwt.SignAccessToken(u.ID, s.now())
	if err != nil {
		slog.Error("auth.register.signAccessToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, AccessToken: access}, nil
}

// Login аутентифицирует по email+пароль и выпускает access-токен
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.jwt.SignAccessToken(u.ID, s.now())
	if err != nil {
		slog.Error("auth.login.signAccessToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, AccessToken: access}, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile меняет имя и, при заполненных полях, пароль (с проверкой
// текущего).
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name, currentPassword, newPassword string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if name = strings.TrimSpace(name); name != "" && name != u.Name {
		if err := s.users.UpdateName(ctx, userID, name, now); err != nil {
			return nil, err
		}
	}

	if newPassword != "" {
		if err := security.ComparePassword(u.PasswordHash, currentPassword); err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := security.HashPassword(newPassword, &s.passPolicy)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdatePasswordHash(ctx, userID, hash, now); err != nil {
			return nil, err
		}
	}

	return s.users.GetByID(ctx, userID)
}

// DeleteUser — только для админа.
func (s *AuthService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrNotAuthorized
	}

	return s.users.Delete(ctx, targetID)
}

// UserIDFromAccessToken — для auth middleware и WS-хендшейка.
func (s *AuthService) UserIDFromAccessToken(token string) (int64, error) {
	return s.jwt.UserIDFromAccessToken(token)
}

func (s *AuthService) AccessTTL() time.Duration { return s.jwt.TTL() }
