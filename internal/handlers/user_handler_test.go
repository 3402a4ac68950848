package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/services"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MockUserService - мок для тестирования handlers
type MockUserService struct {
	RegisterFunc func(ctx context.Context, email, password string, role models.Role) (*models.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (*models.TokenPair, error)
	RefreshFunc  func(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

func (m *MockUserService) Register(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, role)
	}
	return nil, nil
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockUserService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, nil
}

// assertStatus проверяет либо код записанного ответа, либо код возвращённой HTTP-ошибки.
func assertStatus(t *testing.T, err error, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()

	if expected < 400 {
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != expected {
			t.Errorf("Expected status %d, got %d", expected, rec.Code)
		}
		return
	}

	if err == nil {
		t.Fatalf("Expected error, got nil (status %d)", rec.Code)
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected *echo.HTTPError, got %T: %v", err, err)
	}
	if he.Code != expected {
		t.Errorf("Expected status %d, got %d", expected, he.Code)
	}
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		requestBody    string
		mockService    *MockUserService
		expectedStatus int
	}{
		{
			name:        "successful registration",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
					if role != "" {
						t.Errorf("role = %q, want empty", role)
					}
					return &models.User{ID: userID, Email: email, Role: models.RoleClient}, nil
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"email":"test@example.com"`,
			mockService:    &MockUserService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "empty credentials",
			requestBody: `{"email":"","password":""}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
					return nil, services.ErrEmptyCredentials
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "unknown role",
			requestBody: `{"email":"a@b.c","password":"x","role":"ADMIN"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
					return nil, services.ErrInvalidRole
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "email already exists",
			requestBody: `{"email":"existing@example.com","password":"password123"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
					return nil, storage.ErrEmailExists
				},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "internal error",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				RegisterFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
					return nil, errors.New("database error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/auth/register", tt.requestBody)

			err := NewUserHandler(tt.mockService).Register(c)
			assertStatus(t, err, rec, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var body struct {
					Message string    `json:"message"`
					UserID  uuid.UUID `json:"userId"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body.UserID != userID || body.Message == "" {
					t.Errorf("body = %+v", body)
				}
			}
		})
	}
}

func TestUserHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockService    *MockUserService
		expectedStatus int
		checkCookie    bool
	}{
		{
			name:        "successful login",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.TokenPair, error) {
					return &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
				},
			},
			expectedStatus: http.StatusOK,
			checkCookie:    true,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"email":"test@example.com"`,
			mockService:    &MockUserService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "invalid credentials",
			requestBody: `{"email":"test@example.com","password":"wrongpassword"}`,
			mockService: &MockUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.TokenPair, error) {
					return nil, services.ErrInvalidCredentials
				},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "internal error",
			requestBody: `{"email":"test@example.com","password":"password123"}`,
			mockService: &MockUserService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.TokenPair, error) {
					return nil, errors.New("database error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/auth/login", tt.requestBody)

			err := NewUserHandler(tt.mockService).Login(c)
			assertStatus(t, err, rec, tt.expectedStatus)

			if tt.checkCookie {
				var pair models.TokenPair
				if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if pair.AccessToken != "access" || pair.RefreshToken != "refresh" {
					t.Errorf("pair = %+v", pair)
				}

				found := false
				for _, cookie := range rec.Result().Cookies() {
					if cookie.Name == "Authorization" && cookie.Value == "access" {
						found = true
					}
				}
				if !found {
					t.Error("Authorization cookie not set")
				}
			}
		})
	}
}

func TestUserHandler_RefreshToken(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "success", expectedStatus: http.StatusOK},
		{name: "missing token", err: services.ErrRefreshTokenRequired, expectedStatus: http.StatusUnauthorized},
		{name: "invalid token", err: services.ErrInvalidRefreshToken, expectedStatus: http.StatusForbidden},
		{name: "user gone", err: storage.ErrUserNotFound, expectedStatus: http.StatusUnauthorized},
		{name: "internal error", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockUserService{
				RefreshFunc: func(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					if refreshToken != "r1" {
						t.Errorf("refreshToken = %q", refreshToken)
					}
					return &models.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
				},
			}

			c, rec := newJSONContext(http.MethodPost, "/auth/refresh-token", `{"refreshToken":"r1"}`)
			err := NewUserHandler(svc).RefreshToken(c)
			assertStatus(t, err, rec, tt.expectedStatus)
		})
	}
}
