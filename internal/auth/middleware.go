package auth

import (
	"net/http"
	"strings"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey - тип для ключей контекста.
type ContextKey string

const (
	// UserIDKey - ключ для хранения ID пользователя в контексте.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey - ключ для хранения email пользователя в контексте.
	UserEmailKey ContextKey = "user_email"
	// UserRoleKey - ключ для хранения роли пользователя в контексте.
	UserRoleKey ContextKey = "user_role"
)

// JWTMiddleware создаёт middleware для проверки access-токена.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractTokenFromHeader(c)

			if token == "" {
				token = extractTokenFromCookie(c)
			}

			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}

			claims, err := ValidateToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			// Сохранение данных пользователя в контексте
			c.Set(string(UserIDKey), claims.UserID)
			c.Set(string(UserEmailKey), claims.Email)
			c.Set(string(UserRoleKey), claims.Role)

			return next(c)
		}
	}
}

// RequireRole пропускает запрос, только если роль пользователя входит в allowed.
// Должен стоять после JWTMiddleware.
func RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(string(UserRoleKey)).(models.Role)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "user context missing")
			}

			for _, r := range allowed {
				if r == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "access denied: insufficient permissions")
		}
	}
}

// extractTokenFromHeader извлекает токен из заголовка Authorization.
func extractTokenFromHeader(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Проверка формата "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}

	return ""
}

// extractTokenFromCookie извлекает токен из cookie.
func extractTokenFromCookie(c echo.Context) string {
	cookie, err := c.Cookie("Authorization")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetUserIDFromContext извлекает ID пользователя из контекста.
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(string(UserIDKey)).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return userID, nil
}

// GetIdentityFromContext собирает проверенные данные пользователя из контекста.
func GetIdentityFromContext(c echo.Context) (models.Identity, error) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		return models.Identity{}, err
	}

	email, ok := c.Get(string(UserEmailKey)).(string)
	if !ok {
		return models.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	role, ok := c.Get(string(UserRoleKey)).(models.Role)
	if !ok {
		return models.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}

	return models.Identity{UserID: userID, Email: email, Role: role}, nil
}
