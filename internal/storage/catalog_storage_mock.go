package storage

import (
	"context"

	"github.com/agamariel/shopmart/internal/models"
)

// MockCatalogStorage - мок для тестирования.
type MockCatalogStorage struct {
	ListProductsFunc     func(ctx context.Context) ([]*models.Product, error)
	GetProductFunc       func(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDsFunc func(ctx context.Context, ids []int64) (map[int64]*models.Product, error)
	CreateProductFunc    func(ctx context.Context, product *models.Product) error
	CreateProductsFunc   func(ctx context.Context, products []*models.Product) error
	UpdateProductFunc    func(ctx context.Context, product *models.Product) error
	ListCategoriesFunc   func(ctx context.Context) ([]*models.Category, error)
	ListStatusesFunc     func(ctx context.Context) ([]*models.StatusRecord, error)
	GetStatusFunc        func(ctx context.Context, id int64) (*models.StatusRecord, error)
}

func (m *MockCatalogStorage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogStorage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, ErrProductNotFound
}

func (m *MockCatalogStorage) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	if m.GetProductsByIDsFunc != nil {
		return m.GetProductsByIDsFunc(ctx, ids)
	}
	return map[int64]*models.Product{}, nil
}

func (m *MockCatalogStorage) CreateProduct(ctx context.Context, product *models.Product) error {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, product)
	}
	return nil
}

func (m *MockCatalogStorage) CreateProducts(ctx context.Context, products []*models.Product) error {
	if m.CreateProductsFunc != nil {
		return m.CreateProductsFunc(ctx, products)
	}
	return nil
}

func (m *MockCatalogStorage) UpdateProduct(ctx context.Context, product *models.Product) error {
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, product)
	}
	return nil
}

func (m *MockCatalogStorage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogStorage) ListStatuses(ctx context.Context) ([]*models.StatusRecord, error) {
	if m.ListStatusesFunc != nil {
		return m.ListStatusesFunc(ctx)
	}
	return nil, nil
}

// GetStatus без GetStatusFunc отдаёт засеянный справочник.
func (m *MockCatalogStorage) GetStatus(ctx context.Context, id int64) (*models.StatusRecord, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, id)
	}
	switch id {
	case 1:
		return &models.StatusRecord{ID: 1, Name: models.OrderStatusNotApproved}, nil
	case 2:
		return &models.StatusRecord{ID: 2, Name: models.OrderStatusApproved}, nil
	case 3:
		return &models.StatusRecord{ID: 3, Name: models.OrderStatusCancelled}, nil
	case 4:
		return &models.StatusRecord{ID: 4, Name: models.OrderStatusCompleted}, nil
	}
	return nil, ErrStatusNotFound
}
