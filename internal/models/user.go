package models

import (
	"time"

	"github.com/google/uuid"
)

// Role - роль пользователя.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleEmployee
}

// User представляет пользователя системы.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Identity - проверенные данные пользователя из access-токена.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// RegisterRequest - запрос на регистрацию пользователя.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginRequest - запрос на аутентификацию пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest - запрос на обновление пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair - ответ с парой токенов.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
