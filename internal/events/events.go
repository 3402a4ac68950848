package events

import (
	"context"
	"time"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicOrderEvents - топик событий жизненного цикла заказа.
const TopicOrderEvents = "shopmart.order.events"

// EventType тип события заказа.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderReviewed      EventType = "order.reviewed"
)

// OrderEvent - событие, публикуемое после фиксации изменения заказа.
type OrderEvent struct {
	EventID        string             `json:"event_id"`
	EventType      EventType          `json:"event_type"`
	OrderID        int64              `json:"order_id"`
	CustomerEmail  string             `json:"customer_email"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	Total          *decimal.Decimal   `json:"total,omitempty"`
	Rating         int                `json:"rating,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}

// NewOrderEvent создаёт событие по текущему состоянию заказа.
func NewOrderEvent(eventType EventType, order *models.Order) OrderEvent {
	return OrderEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status,
		Timestamp:     time.Now().UTC(),
	}
}

// Publisher публикует события заказов.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher используется, когда брокеры не настроены.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
