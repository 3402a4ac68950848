package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOpinionExists = errors.New("opinion already exists")
)

// OrderFilter ограничивает выборку заказов. Пустые поля не фильтруют.
type OrderFilter struct {
	CustomerEmail string
	StatusID      int64
}

// PostgresOrderStorage хранит заказы, их позиции и отзывы.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

const orderSelect = `
	SELECT o.id, o.status_id, s.name, o.customer_name, o.customer_email, o.customer_phone,
	       o.created_at, o.approved_at, o.updated_at
	FROM orders o
	JOIN order_statuses s ON s.id = o.status_id
`

// Create сохраняет заказ вместе с позициями в одной транзакции.
// Статус ищется в справочнике по имени order.Status.
func (s *PostgresOrderStorage) Create(ctx context.Context, order *models.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (status_id, customer_name, customer_email, customer_phone, created_at, updated_at)
		SELECT id, $2, $3, $4, NOW(), NOW() FROM order_statuses WHERE name = $1
		RETURNING id, status_id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		order.Status,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
	).Scan(&order.ID, &order.StatusID, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStatusNotFound
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		item.OrderID = order.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			if pgErrorCode(err) == pgForeignKeyViolation {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetByID возвращает заказ с позициями и отзывом.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := attachDetails(ctx, s.pool, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// List возвращает заказы (новые первыми) с позициями и отзывами.
func (s *PostgresOrderStorage) List(ctx context.Context, filter OrderFilter) ([]*models.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CustomerEmail != "" {
		args = append(args, filter.CustomerEmail)
		conditions = append(conditions, fmt.Sprintf("LOWER(o.customer_email) = LOWER($%d)", len(args)))
	}
	if filter.StatusID != 0 {
		args = append(args, filter.StatusID)
		conditions = append(conditions, fmt.Sprintf("o.status_id = $%d", len(args)))
	}

	query := orderSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	if err := attachDetails(ctx, s.pool, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// Transition блокирует строку заказа, передаёт текущий статус в check
// и при отсутствии ошибки переводит заказ в target.
// Ошибка check возвращается без обёртки, транзакция откатывается.
// approved_at проставляется только при первом переходе в APPROVED.
func (s *PostgresOrderStorage) Transition(ctx context.Context, orderID int64, target models.StatusRecord, check func(current models.OrderStatus) error) (*models.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := check(order.Status); err != nil {
		return nil, err
	}

	query := `
		UPDATE orders
		SET status_id = $1,
		    approved_at = CASE WHEN $2::boolean AND approved_at IS NULL THEN NOW() ELSE approved_at END,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING approved_at, updated_at
	`

	approve := target.Name == models.OrderStatusApproved
	if err := tx.QueryRow(ctx, query, target.ID, approve, orderID).Scan(&order.ApprovedAt, &order.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.StatusID = target.ID
	order.Status = target.Name

	if err := attachDetails(ctx, tx, []*models.Order{order}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return order, nil
}

// AddOpinion блокирует заказ, передаёт его вместе с отзывом (если есть) в check
// и сохраняет opinion. Повторный отзыв даёт ErrOpinionExists.
func (s *PostgresOrderStorage) AddOpinion(ctx context.Context, opinion *models.Opinion, check func(order *models.Order) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, opinion.OrderID)
	if err != nil {
		return err
	}
	if err := attachDetails(ctx, tx, []*models.Order{order}); err != nil {
		return err
	}

	if err := check(order); err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO opinions (order_id, rating, content, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`,
		opinion.OrderID, opinion.Rating, opinion.Content,
	).Scan(&opinion.ID, &opinion.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return ErrOpinionExists
		}
		return fmt.Errorf("failed to create opinion: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit opinion: %w", err)
	}
	return nil
}

func lockOrder(ctx context.Context, q querier, id int64) (*models.Order, error) {
	return scanOrder(q.QueryRow(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE OF o`, id))
}

// attachDetails дочитывает позиции и отзывы для набора заказов двумя запросами.
func attachDetails(ctx context.Context, q querier, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for _, o := range orders {
		o.Items = []*models.OrderItem{}
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := q.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, &item)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return fmt.Errorf("rows error: %w", rows.Err())
	}

	rows, err = q.Query(ctx,
		`SELECT id, order_id, rating, content, created_at FROM opinions WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to query opinions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var op models.Opinion
		if err := rows.Scan(&op.ID, &op.OrderID, &op.Rating, &op.Content, &op.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan opinion: %w", err)
		}
		if o, ok := byID[op.OrderID]; ok {
			o.Opinion = &op
		}
	}

	if rows.Err() != nil {
		return fmt.Errorf("rows error: %w", rows.Err())
	}
	return nil
}

// scanOrder помогает читать заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order

	err := row.Scan(
		&order.ID,
		&order.StatusID,
		&order.Status,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.CreatedAt,
		&order.ApprovedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return &order, nil
}
