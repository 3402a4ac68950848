// Package lifecycle содержит правила жизненного цикла заказа:
// допустимые смены статуса и условия добавления отзыва.
package lifecycle

import "github.com/agamariel/shopmart/internal/models"

// rank задаёт линейный порядок нетерминальных статусов.
// CANCELLED ранга не имеет: в него можно перейти из любого нетерминального статуса.
func rank(status models.OrderStatus) (int, bool) {
	switch status {
	case models.OrderStatusNotApproved:
		return 1, true
	case models.OrderStatusApproved:
		return 2, true
	case models.OrderStatusCompleted:
		return 3, true
	default:
		return 0, false
	}
}

// Known сообщает, является ли статус одним из статусов заказа.
func Known(status models.OrderStatus) bool {
	if status == models.OrderStatusCancelled {
		return true
	}
	_, ok := rank(status)
	return ok
}

// Finished сообщает, завершён ли заказ (выполнен или отменён).
func Finished(status models.OrderStatus) bool {
	return status == models.OrderStatusCompleted || status == models.OrderStatusCancelled
}

// ValidateTransition проверяет смену статуса current -> requested.
// nil означает, что переход разрешён; иначе возвращается *RejectionError.
func ValidateTransition(current, requested models.OrderStatus) error {
	if current == models.OrderStatusCancelled {
		return ErrTerminalOrder
	}
	// Дополнительная проверка сверх правил рангов: статус вне справочника
	// отклоняется до них, но после проверки терминального CANCELLED.
	if !Known(current) || !Known(requested) {
		return ErrUnknownStatus
	}
	if requested == models.OrderStatusCancelled {
		return nil
	}

	currentRank, _ := rank(current)
	requestedRank, _ := rank(requested)
	if requestedRank < currentRank {
		return ErrBackwardTransition
	}

	return nil
}
