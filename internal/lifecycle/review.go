package lifecycle

import (
	"math"
	"strings"

	"github.com/agamariel/shopmart/internal/models"
)

// Допустимый диапазон оценки отзыва.
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewInput - всё, что нужно для решения о добавлении отзыва.
type ReviewInput struct {
	Status         models.OrderStatus
	CustomerEmail  string
	RequesterEmail string
	HasOpinion     bool
	Rating         float64
	Content        string
}

// ValidateReview решает, можно ли прикрепить отзыв к заказу.
// Проверки идут в порядке: владелец, завершённость, повторный отзыв, оценка, текст.
func ValidateReview(in ReviewInput) error {
	if !sameIdentity(in.CustomerEmail, in.RequesterEmail) {
		return ErrNotOwner
	}
	if !Finished(in.Status) {
		return ErrNotFinished
	}
	if in.HasOpinion {
		return ErrAlreadyReviewed
	}
	if !ValidRating(in.Rating) {
		return ErrInvalidRating
	}
	if strings.TrimSpace(in.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// ValidRating проверяет, что оценка - целое число в диапазоне [1, 5].
func ValidRating(rating float64) bool {
	if math.IsNaN(rating) || math.IsInf(rating, 0) || rating != math.Trunc(rating) {
		return false
	}
	return rating >= MinRating && rating <= MaxRating
}

func sameIdentity(customer, requester string) bool {
	requester = strings.TrimSpace(requester)
	if requester == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(customer), requester)
}
