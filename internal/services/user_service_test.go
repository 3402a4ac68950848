package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agamariel/shopmart/internal/auth"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/google/uuid"
)

var testTokens = TokenSettings{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessTTL:     time.Hour,
	RefreshTTL:    24 * time.Hour,
}

func TestUserServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		email       string
		password    string
		role        models.Role
		mockStorage *storage.MockUserStorage
		wantErr     bool
		errType     error
		wantRole    models.Role
	}{
		{
			name:        "successful registration, default role",
			email:       "Test@Example.com",
			password:    "password123",
			mockStorage: &storage.MockUserStorage{},
			wantRole:    models.RoleClient,
		},
		{
			name:        "employee registration",
			email:       "staff@example.com",
			password:    "password123",
			role:        models.RoleEmployee,
			mockStorage: &storage.MockUserStorage{},
			wantRole:    models.RoleEmployee,
		},
		{
			name:        "empty email",
			password:    "password123",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:        "empty password",
			email:       "test@example.com",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:        "malformed email",
			email:       "not-an-email",
			password:    "password123",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrInvalidEmail,
		},
		{
			name:        "unknown role",
			email:       "test@example.com",
			password:    "password123",
			role:        "ADMIN",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrInvalidRole,
		},
		{
			name:        "password too long",
			email:       "test@example.com",
			password:    strings.Repeat("a", 100),
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     auth.ErrPasswordTooLong,
		},
		{
			name:     "email already exists",
			email:    "existing@example.com",
			password: "password123",
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return storage.ErrEmailExists
				},
			},
			wantErr: true,
			errType: storage.ErrEmailExists,
		},
		{
			name:     "storage error",
			email:    "test@example.com",
			password: "password123",
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return errors.New("database error")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, testTokens)

			user, err := service.Register(ctx, tt.email, tt.password, tt.role)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Register() error = %v, want %v", err, tt.errType)
				}
				return
			}

			if user.Email != strings.ToLower(tt.email) {
				t.Errorf("Register() user.Email = %v, want normalized %v", user.Email, tt.email)
			}
			if user.Role != tt.wantRole {
				t.Errorf("Register() user.Role = %v, want %v", user.Role, tt.wantRole)
			}
			if user.ID == uuid.Nil {
				t.Error("Register() did not assign an id")
			}
		})
	}
}

func TestUserServiceImpl_RegisterHashesPassword(t *testing.T) {
	password := "testpassword123"

	var storedHash string
	mockStorage := &storage.MockUserStorage{
		CreateFunc: func(ctx context.Context, user *models.User) error {
			storedHash = user.PasswordHash
			return nil
		},
	}

	service := NewUserService(mockStorage, testTokens)
	if _, err := service.Register(context.Background(), "test@example.com", password, ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if storedHash == password || storedHash == "" {
		t.Fatalf("Register() stored hash %q", storedHash)
	}
	if !auth.CheckPassword(password, storedHash) {
		t.Error("stored hash does not match the password")
	}
}

func TestUserServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	correctPassword := "password123"

	hash, err := auth.HashPassword(correctPassword)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	existingUser := &models.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: hash,
		Role:         models.RoleEmployee,
	}

	tests := []struct {
		name        string
		email       string
		password    string
		mockStorage *storage.MockUserStorage
		wantErr     bool
		errType     error
	}{
		{
			name:     "successful login",
			email:    " TEST@example.com",
			password: correctPassword,
			mockStorage: &storage.MockUserStorage{
				GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					if email != "test@example.com" {
						return nil, storage.ErrUserNotFound
					}
					return existingUser, nil
				},
			},
		},
		{
			name:        "empty email",
			password:    correctPassword,
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:        "user not found",
			email:       "nonexistent@example.com",
			password:    correctPassword,
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			mockStorage: &storage.MockUserStorage{
				GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return existingUser, nil
				},
			},
			wantErr: true,
			errType: ErrInvalidCredentials,
		},
		{
			name:     "storage error",
			email:    "test@example.com",
			password: correctPassword,
			mockStorage: &storage.MockUserStorage{
				GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return nil, errors.New("database error")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, testTokens)

			pair, err := service.Login(ctx, tt.email, tt.password)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Login() error = %v, want %v", err, tt.errType)
				}
				return
			}

			claims, err := auth.ValidateToken(pair.AccessToken, testTokens.AccessSecret)
			if err != nil {
				t.Fatalf("access token is invalid: %v", err)
			}
			if claims.Role != models.RoleEmployee || claims.Email != existingUser.Email {
				t.Errorf("claims = %+v", claims)
			}
			if _, err := auth.ValidateRefreshToken(pair.RefreshToken, testTokens.RefreshSecret); err != nil {
				t.Errorf("refresh token is invalid: %v", err)
			}
		})
	}
}

func TestUserServiceImpl_Refresh(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Email: "test@example.com", Role: models.RoleClient}

	validRefresh, err := auth.GenerateRefreshToken(user, testTokens.RefreshSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	accessAsRefresh, err := auth.GenerateToken(user, testTokens.AccessSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	found := &storage.MockUserStorage{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			if id != user.ID {
				return nil, storage.ErrUserNotFound
			}
			return user, nil
		},
	}

	tests := []struct {
		name        string
		token       string
		mockStorage *storage.MockUserStorage
		errType     error
	}{
		{name: "valid token", token: validRefresh, mockStorage: found},
		{name: "missing token", token: "", mockStorage: found, errType: ErrRefreshTokenRequired},
		{name: "garbage token", token: "garbage", mockStorage: found, errType: ErrInvalidRefreshToken},
		{name: "access token", token: accessAsRefresh, mockStorage: found, errType: ErrInvalidRefreshToken},
		{name: "user deleted", token: validRefresh, mockStorage: &storage.MockUserStorage{}, errType: storage.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, testTokens)

			pair, err := service.Refresh(ctx, tt.token)
			if tt.errType != nil {
				if !errors.Is(err, tt.errType) {
					t.Fatalf("Refresh() error = %v, want %v", err, tt.errType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}
			if pair.AccessToken == "" || pair.RefreshToken == "" {
				t.Errorf("Refresh() returned incomplete pair %+v", pair)
			}
		})
	}
}
