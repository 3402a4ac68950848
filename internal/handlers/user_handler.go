package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/shopmart/internal/auth"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/services"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/labstack/echo/v4"
)

// UserHandler обрабатывает HTTP-запросы для работы с пользователями.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register обрабатывает POST /auth/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, err := h.userService.Register(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrInvalidRole),
			errors.Is(err, auth.ErrPasswordTooLong):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrEmailExists):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		return internalError(c, "failed to register user", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User created",
		"userId":  user.ID,
	})
}

// Login обрабатывает POST /auth/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	pair, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) || errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return internalError(c, "failed to login user", err)
	}

	setAuthToken(c, pair.AccessToken)
	return c.JSON(http.StatusOK, pair)
}

// RefreshToken обрабатывает POST /auth/refresh-token.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	pair, err := h.userService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRefreshTokenRequired):
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token required")
		case errors.Is(err, services.ErrInvalidRefreshToken):
			return echo.NewHTTPError(http.StatusForbidden, "invalid refresh token")
		case errors.Is(err, storage.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
		}
		return internalError(c, "failed to refresh token", err)
	}

	setAuthToken(c, pair.AccessToken)
	return c.JSON(http.StatusOK, pair)
}

// setAuthToken устанавливает access-токен в cookie и заголовок ответа.
func setAuthToken(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     "Authorization",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   3600,
	}
	c.SetCookie(cookie)

	c.Response().Header().Set("Authorization", "Bearer "+token)
}
