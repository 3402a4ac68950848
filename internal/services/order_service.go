package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/shopmart/internal/events"
	"github.com/agamariel/shopmart/internal/lifecycle"
	"github.com/agamariel/shopmart/internal/metrics"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/agamariel/shopmart/internal/utils"
	log "github.com/sirupsen/logrus"
)

// OrderService определяет операции с заказами.
type OrderService interface {
	CreateOrder(ctx context.Context, identity models.Identity, req *models.CreateOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, identity models.Identity) ([]*models.Order, error)
	ListByStatus(ctx context.Context, statusID int64) ([]*models.Order, error)
	ChangeStatus(ctx context.Context, orderID, statusID int64) (*models.Order, error)
	AddOpinion(ctx context.Context, identity models.Identity, orderID int64, req *models.OpinionRequest) (*models.Opinion, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	orders    OrderStorage
	catalog   CatalogStorage
	publisher events.Publisher
	metrics   OrderMetrics
	logger    *log.Entry
}

// NewOrderService создаёт сервис заказов. publisher и m могут быть nil.
func NewOrderService(orders OrderStorage, catalog CatalogStorage, publisher events.Publisher, m OrderMetrics) *OrderServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if m == nil {
		m = nopMetrics{}
	}
	return &OrderServiceImpl{
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		logger:    log.WithField("component", "order-service"),
	}
}

// CreateOrder оформляет заказ от имени владельца токена.
// Цены позиций берутся из каталога на момент оформления.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, identity models.Identity, req *models.CreateOrderRequest) (*models.Order, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request body is required"}
	}

	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	email := utils.NormalizeEmail(identity.Email)

	switch {
	case name == "":
		return nil, &ValidationError{Message: "customer name is required"}
	case phone == "" || !utils.ValidatePhone(phone):
		return nil, &ValidationError{Message: "customer phone may contain only digits, spaces and '+'"}
	case email == "":
		return nil, &ValidationError{Message: "customer email is required"}
	case len(req.Items) == 0:
		return nil, &ValidationError{Message: "order must contain at least one item"}
	}

	ids := make([]int64, 0, len(req.Items))
	for i, item := range req.Items {
		if item == nil || item.ProductID <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("item #%d: product id is required", i+1)}
		}
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("item #%d: quantity must be greater than zero", i+1)}
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	order := &models.Order{
		Status:        models.OrderStatusNotApproved,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Items:         make([]*models.OrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("product %d not found", item.ProductID)}
		}
		order.Items = append(order.Items, &models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, &ValidationError{Message: "product not found"}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	event := events.NewOrderEvent(events.EventTypeOrderCreated, order)
	total := order.Total()
	event.Total = &total
	s.publish(ctx, event)

	return order, nil
}

// ListOrders возвращает все заказы сотруднику и только свои - клиенту.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, identity models.Identity) ([]*models.Order, error) {
	filter := storage.OrderFilter{}
	if identity.Role != models.RoleEmployee {
		filter.CustomerEmail = utils.NormalizeEmail(identity.Email)
		if filter.CustomerEmail == "" {
			return []*models.Order{}, nil
		}
	}
	return s.list(ctx, filter)
}

// ListByStatus возвращает заказы в статусе statusID.
func (s *OrderServiceImpl) ListByStatus(ctx context.Context, statusID int64) ([]*models.Order, error) {
	return s.list(ctx, storage.OrderFilter{StatusID: statusID})
}

// ChangeStatus переводит заказ в статус statusID, если это допускает жизненный цикл.
func (s *OrderServiceImpl) ChangeStatus(ctx context.Context, orderID, statusID int64) (*models.Order, error) {
	target, err := s.catalog.GetStatus(ctx, statusID)
	if err != nil {
		if errors.Is(err, storage.ErrStatusNotFound) {
			return nil, lifecycle.ErrUnknownStatus
		}
		return nil, fmt.Errorf("get status: %w", err)
	}

	var from models.OrderStatus
	order, err := s.orders.Transition(ctx, orderID, *target, func(current models.OrderStatus) error {
		from = current
		return lifecycle.ValidateTransition(current, target.Name)
	})
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, err
		}
		if reason, ok := lifecycle.ReasonOf(err); ok {
			s.metrics.RecordTransition(from, target.Name, string(reason))
			s.logger.WithFields(log.Fields{
				"order_id": orderID,
				"from":     from,
				"to":       target.Name,
				"reason":   reason,
			}).Info("status transition rejected")
			return nil, err
		}
		s.metrics.RecordTransition(from, target.Name, metrics.ResultError)
		return nil, fmt.Errorf("change status: %w", err)
	}

	s.metrics.RecordTransition(from, order.Status, metrics.ResultOK)
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"from":     from,
		"to":       order.Status,
	}).Info("order status changed")

	event := events.NewOrderEvent(events.EventTypeOrderStatusChanged, order)
	event.PreviousStatus = from
	s.publish(ctx, event)

	return order, nil
}

// AddOpinion прикрепляет отзыв к завершённому заказу его владельца.
func (s *OrderServiceImpl) AddOpinion(ctx context.Context, identity models.Identity, orderID int64, req *models.OpinionRequest) (*models.Opinion, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request body is required"}
	}

	opinion := &models.Opinion{
		OrderID: orderID,
		Rating:  int(req.Rating),
		Content: strings.TrimSpace(req.Content),
	}

	var reviewed *models.Order
	err := s.orders.AddOpinion(ctx, opinion, func(order *models.Order) error {
		reviewed = order
		return lifecycle.ValidateReview(lifecycle.ReviewInput{
			Status:         order.Status,
			CustomerEmail:  order.CustomerEmail,
			RequesterEmail: identity.Email,
			HasOpinion:     order.Opinion != nil,
			Rating:         req.Rating,
			Content:        req.Content,
		})
	})
	if errors.Is(err, storage.ErrOpinionExists) {
		err = lifecycle.ErrAlreadyReviewed
	}
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, err
		}
		if reason, ok := lifecycle.ReasonOf(err); ok {
			s.metrics.RecordReview(string(reason))
			return nil, err
		}
		s.metrics.RecordReview(metrics.ResultError)
		return nil, fmt.Errorf("add opinion: %w", err)
	}

	s.metrics.RecordReview(metrics.ResultOK)

	if reviewed != nil {
		event := events.NewOrderEvent(events.EventTypeOrderReviewed, reviewed)
		event.Rating = opinion.Rating
		s.publish(ctx, event)
	}

	return opinion, nil
}

func (s *OrderServiceImpl) list(ctx context.Context, filter storage.OrderFilter) ([]*models.Order, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// publish отправляет событие после фиксации изменений; ошибка только логируется.
func (s *OrderServiceImpl) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   event.OrderID,
			"event_type": event.EventType,
		}).Warn("failed to publish order event")
	}
}
