package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrStatusNotFound   = errors.New("order status not found")
)

// PostgresCatalogStorage хранит товары, категории и справочник статусов заказа.
type PostgresCatalogStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalogStorage создаёт новый экземпляр.
func NewPostgresCatalogStorage(pool *pgxpool.Pool) *PostgresCatalogStorage {
	return &PostgresCatalogStorage{pool: pool}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.unit_price, p.unit_weight, p.category_id,
	       c.name, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

// ListProducts возвращает все товары вместе с категориями.
func (s *PostgresCatalogStorage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.pool.Query(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return products, nil
}

// GetProduct возвращает товар по ID.
func (s *PostgresCatalogStorage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return scanProduct(s.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
}

// GetProductsByIDs возвращает найденные товары, индексированные по ID.
// Отсутствующие ID просто не попадают в результат.
func (s *PostgresCatalogStorage) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	rows, err := s.pool.Query(ctx, productSelect+` WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]*models.Product, len(ids))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products[product.ID] = product
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return products, nil
}

// CreateProduct создаёт товар.
func (s *PostgresCatalogStorage) CreateProduct(ctx context.Context, product *models.Product) error {
	return insertProduct(ctx, s.pool, product)
}

// CreateProducts создаёт пакет товаров в одной транзакции: либо все, либо ни одного.
func (s *PostgresCatalogStorage) CreateProducts(ctx context.Context, products []*models.Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, product := range products {
		if err := insertProduct(ctx, tx, product); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	return nil
}

// UpdateProduct изменяет товар. Цены в уже оформленных заказах не меняются.
func (s *PostgresCatalogStorage) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, unit_price = $3, unit_weight = $4, category_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.UnitWeight,
		product.CategoryID,
		product.ID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		if pgErrorCode(err) == pgForeignKeyViolation {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// ListCategories возвращает все категории.
func (s *PostgresCatalogStorage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return categories, nil
}

// ListStatuses возвращает справочник статусов заказа.
func (s *PostgresCatalogStorage) ListStatuses(ctx context.Context) ([]*models.StatusRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM order_statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*models.StatusRecord
	for rows.Next() {
		var st models.StatusRecord
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, &st)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return statuses, nil
}

// GetStatus возвращает статус по ID.
func (s *PostgresCatalogStorage) GetStatus(ctx context.Context, id int64) (*models.StatusRecord, error) {
	var st models.StatusRecord
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM order_statuses WHERE id = $1`, id).Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &st, nil
}

func insertProduct(ctx context.Context, q querier, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, unit_price, unit_weight, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.UnitWeight,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var (
		product  models.Product
		category models.Category
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.UnitPrice,
		&product.UnitWeight,
		&product.CategoryID,
		&category.Name,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	category.ID = product.CategoryID
	product.Category = &category

	return &product, nil
}
