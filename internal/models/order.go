package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает статус заказа в магазине.
type OrderStatus string

const (
	OrderStatusNotApproved OrderStatus = "NOT_APPROVED"
	OrderStatusApproved    OrderStatus = "APPROVED"
	OrderStatusCompleted   OrderStatus = "COMPLETED"
	OrderStatusCancelled   OrderStatus = "CANCELLED"
)

// StatusRecord - строка справочника статусов (order_statuses).
type StatusRecord struct {
	ID   int64       `db:"id" json:"id"`
	Name OrderStatus `db:"name" json:"name"`
}

// Order представляет заказ покупателя.
type Order struct {
	ID            int64        `db:"id" json:"id"`
	StatusID      int64        `db:"status_id" json:"statusId"`
	Status        OrderStatus  `db:"status" json:"status"`
	CustomerName  string       `db:"customer_name" json:"customerName"`
	CustomerEmail string       `db:"customer_email" json:"customerEmail"`
	CustomerPhone string       `db:"customer_phone" json:"customerPhone"`
	Items         []*OrderItem `json:"orderItems"`
	Opinion       *Opinion     `json:"opinion"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	ApprovedAt    *time.Time   `db:"approved_at" json:"approvedAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"-"`
}

// Total возвращает сумму заказа по зафиксированным ценам позиций.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// OrderItem - позиция заказа. UnitPrice фиксируется в момент оформления
// и не меняется при последующем изменении цены товара.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"orderId"`
	ProductID int64           `db:"product_id" json:"productId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
}

// Opinion - отзыв покупателя о завершённом заказе.
type Opinion struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"orderId"`
	Rating    int       `db:"rating" json:"rating"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CreateOrderRequest - запрос на оформление заказа.
// Email покупателя берётся из токена, а не из тела запроса.
type CreateOrderRequest struct {
	CustomerName  string              `json:"customerName"`
	CustomerPhone string              `json:"customerPhone"`
	Items         []*OrderItemRequest `json:"items"`
}

// OrderItemRequest - позиция в запросе на оформление заказа.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateStatusRequest - запрос на смену статуса заказа.
type UpdateStatusRequest struct {
	StatusID int64 `json:"statusId"`
}

// OpinionRequest - запрос на добавление отзыва.
// Rating принимается как число с плавающей точкой, чтобы отклонять дробные оценки.
type OpinionRequest struct {
	Rating  float64 `json:"rating"`
	Content string  `json:"content"`
}

// UnmarshalJSON не отвергает запрос с нечисловой оценкой ("5", true, {}):
// такая оценка становится NaN и отклоняется проверкой отзыва как INVALID_RATING.
func (r *OpinionRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rating  json.RawMessage `json:"rating"`
		Content string          `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Content = raw.Content
	r.Rating = 0
	if len(raw.Rating) > 0 {
		if err := json.Unmarshal(raw.Rating, &r.Rating); err != nil {
			r.Rating = math.NaN()
		}
	}
	return nil
}

// DataResponse - обёртка ответа API.
type DataResponse struct {
	Data interface{} `json:"data"`
}
