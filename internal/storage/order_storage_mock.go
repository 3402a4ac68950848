package storage

import (
	"context"

	"github.com/agamariel/shopmart/internal/models"
)

// MockOrderStorage - мок для тестирования.
// Если TransitionFunc не задан, Transition вызывает check с CurrentStatus,
// а AddOpinion вызывает check с Order - так тесты сервисов проходят
// через те же проверки, что и реальное хранилище.
type MockOrderStorage struct {
	CreateFunc     func(ctx context.Context, order *models.Order) error
	GetByIDFunc    func(ctx context.Context, id int64) (*models.Order, error)
	ListFunc       func(ctx context.Context, filter OrderFilter) ([]*models.Order, error)
	TransitionFunc func(ctx context.Context, orderID int64, target models.StatusRecord, check func(models.OrderStatus) error) (*models.Order, error)
	AddOpinionFunc func(ctx context.Context, opinion *models.Opinion, check func(*models.Order) error) error

	CurrentStatus models.OrderStatus
	Order         *models.Order
}

func (m *MockOrderStorage) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) List(ctx context.Context, filter OrderFilter) ([]*models.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockOrderStorage) Transition(ctx context.Context, orderID int64, target models.StatusRecord, check func(models.OrderStatus) error) (*models.Order, error) {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, orderID, target, check)
	}
	if m.CurrentStatus == "" {
		return nil, ErrOrderNotFound
	}
	if err := check(m.CurrentStatus); err != nil {
		return nil, err
	}
	return &models.Order{ID: orderID, StatusID: target.ID, Status: target.Name}, nil
}

func (m *MockOrderStorage) AddOpinion(ctx context.Context, opinion *models.Opinion, check func(*models.Order) error) error {
	if m.AddOpinionFunc != nil {
		return m.AddOpinionFunc(ctx, opinion, check)
	}
	if m.Order == nil {
		return ErrOrderNotFound
	}
	return check(m.Order)
}
