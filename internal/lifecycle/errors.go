package lifecycle

import "errors"

// Reason - машинно-различимый код отказа.
type Reason string

const (
	// ReasonTerminalOrder - заказ отменён и больше не меняется.
	ReasonTerminalOrder Reason = "TERMINAL_ORDER"
	// ReasonBackwardTransition - запрошен статус с меньшим рангом.
	ReasonBackwardTransition Reason = "BACKWARD_TRANSITION"
	// ReasonUnknownStatus - статуса нет среди статусов заказа.
	ReasonUnknownStatus Reason = "UNKNOWN_STATUS"
	// ReasonNotOwner - отзыв оставляет не покупатель.
	ReasonNotOwner Reason = "NOT_OWNER"
	// ReasonNotFinished - заказ ещё не выполнен и не отменён.
	ReasonNotFinished Reason = "NOT_FINISHED"
	// ReasonAlreadyReviewed - у заказа уже есть отзыв.
	ReasonAlreadyReviewed Reason = "ALREADY_REVIEWED"
	// ReasonInvalidRating - оценка не целое число от MinRating до MaxRating.
	ReasonInvalidRating Reason = "INVALID_RATING"
	// ReasonEmptyContent - пустой текст отзыва.
	ReasonEmptyContent Reason = "EMPTY_CONTENT"
)

// RejectionError - отказ валидатора. Это штатный результат проверки, а не сбой.
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// Сентинелы отказов, по одному на каждый Reason. Сравниваются через errors.Is.
var (
	ErrTerminalOrder      = &RejectionError{Reason: ReasonTerminalOrder, Message: "cannot modify a cancelled order"}
	ErrBackwardTransition = &RejectionError{Reason: ReasonBackwardTransition, Message: "cannot revert status backward"}
	ErrUnknownStatus      = &RejectionError{Reason: ReasonUnknownStatus, Message: "unknown order status"}
	ErrNotOwner           = &RejectionError{Reason: ReasonNotOwner, Message: "not your order"}
	ErrNotFinished        = &RejectionError{Reason: ReasonNotFinished, Message: "order not finished"}
	ErrAlreadyReviewed    = &RejectionError{Reason: ReasonAlreadyReviewed, Message: "order already reviewed"}
	ErrInvalidRating      = &RejectionError{Reason: ReasonInvalidRating, Message: "rating must be an integer between 1 and 5"}
	ErrEmptyContent       = &RejectionError{Reason: ReasonEmptyContent, Message: "review content is required"}
)

// ReasonOf извлекает код отказа из цепочки ошибок.
func ReasonOf(err error) (Reason, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Reason, true
	}
	return "", false
}
