package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/shopmart/internal/auth"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/agamariel/shopmart/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmptyCredentials     = errors.New("email and password are required")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidRole          = errors.New("invalid role")
	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
)

// TokenSettings - секреты и время жизни токенов.
type TokenSettings struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// UserService определяет интерфейс для работы с пользователями.
type UserService interface {
	Register(ctx context.Context, email, password string, role models.Role) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

// UserServiceImpl реализует UserService.
type UserServiceImpl struct {
	userStorage UserStorage
	tokens      TokenSettings
}

// NewUserService создаёт новый экземпляр UserService.
func NewUserService(userStorage UserStorage, tokens TokenSettings) *UserServiceImpl {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = time.Hour
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = 7 * 24 * time.Hour
	}
	return &UserServiceImpl{
		userStorage: userStorage,
		tokens:      tokens,
	}
}

// Register регистрирует нового пользователя. Пустая роль означает CLIENT.
func (s *UserServiceImpl) Register(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	if !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	if role == "" {
		role = models.RoleClient
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.userStorage.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, storage.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	user, err := s.userStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh выдаёт новую пару токенов по действующему refresh-токену.
// Роль и email перечитываются из хранилища.
func (s *UserServiceImpl) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := auth.ValidateRefreshToken(refreshToken, s.tokens.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userStorage.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *UserServiceImpl) issueTokens(user *models.User) (*models.TokenPair, error) {
	access, err := auth.GenerateToken(user, s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user, s.tokens.RefreshSecret, s.tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
