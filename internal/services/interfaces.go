package services

import (
	"context"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/google/uuid"
)

// UserStorage определяет интерфейс для работы с пользователями.
type UserStorage interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CatalogStorage определяет интерфейс для работы с товарами и справочниками.
type CatalogStorage interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	CreateProducts(ctx context.Context, products []*models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListStatuses(ctx context.Context) ([]*models.StatusRecord, error)
	GetStatus(ctx context.Context, id int64) (*models.StatusRecord, error)
}

// OrderStorage определяет интерфейс для работы с заказами.
// Transition и AddOpinion выполняют check внутри транзакции над заблокированной строкой заказа.
type OrderStorage interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter storage.OrderFilter) ([]*models.Order, error)
	Transition(ctx context.Context, orderID int64, target models.StatusRecord, check func(current models.OrderStatus) error) (*models.Order, error)
	AddOpinion(ctx context.Context, opinion *models.Opinion, check func(order *models.Order) error) error
}

// OrderMetrics учитывает попытки смены статуса и отзывов.
type OrderMetrics interface {
	RecordTransition(from, to models.OrderStatus, result string)
	RecordReview(result string)
}

type nopMetrics struct{}

func (nopMetrics) RecordTransition(models.OrderStatus, models.OrderStatus, string) {}

func (nopMetrics) RecordReview(string) {}
