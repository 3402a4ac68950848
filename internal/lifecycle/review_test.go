package lifecycle

import (
	"fmt"
	"math"
	"testing"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReview() ReviewInput {
	return ReviewInput{
		Status:         models.OrderStatusCompleted,
		CustomerEmail:  "anna@example.com",
		RequesterEmail: "anna@example.com",
		Rating:         5,
		Content:        "fast delivery",
	}
}

func TestValidateReview(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(in *ReviewInput)
		wantErr error
	}{
		{
			name: "completed order",
			mut:  func(in *ReviewInput) {},
		},
		{
			name: "cancelled order",
			mut:  func(in *ReviewInput) { in.Status = models.OrderStatusCancelled },
		},
		{
			name: "email differs only by case and spaces",
			mut:  func(in *ReviewInput) { in.RequesterEmail = "  Anna@Example.com " },
		},
		{
			name:    "not approved order",
			mut:     func(in *ReviewInput) { in.Status = models.OrderStatusNotApproved },
			wantErr: ErrNotFinished,
		},
		{
			name:    "approved order",
			mut:     func(in *ReviewInput) { in.Status = models.OrderStatusApproved },
			wantErr: ErrNotFinished,
		},
		{
			name:    "another requester",
			mut:     func(in *ReviewInput) { in.RequesterEmail = "boris@example.com" },
			wantErr: ErrNotOwner,
		},
		{
			name:    "empty requester",
			mut:     func(in *ReviewInput) { in.RequesterEmail = "" },
			wantErr: ErrNotOwner,
		},
		{
			name: "ownership checked before status",
			mut: func(in *ReviewInput) {
				in.RequesterEmail = "boris@example.com"
				in.Status = models.OrderStatusNotApproved
			},
			wantErr: ErrNotOwner,
		},
		{
			name:    "second review",
			mut:     func(in *ReviewInput) { in.HasOpinion = true },
			wantErr: ErrAlreadyReviewed,
		},
		{
			name:    "blank content",
			mut:     func(in *ReviewInput) { in.Content = "   \n" },
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validReview()
			tt.mut(&in)

			err := ValidateReview(in)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateReview_Rating(t *testing.T) {
	tests := []struct {
		rating float64
		valid  bool
	}{
		{0, false},
		{6, false},
		{3.5, false},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{1, true},
		{3, true},
		{5, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.rating), func(t *testing.T) {
			in := validReview()
			in.Rating = tt.rating

			err := ValidateReview(in)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			reason, ok := ReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, ReasonInvalidRating, reason)
		})
	}
}

func TestReasonOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("add opinion: %w", ErrAlreadyReviewed)

	reason, ok := ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonAlreadyReviewed, reason)

	_, ok = ReasonOf(fmt.Errorf("db error"))
	assert.False(t, ok)
}

func TestRejectionSentinels(t *testing.T) {
	sentinels := map[Reason]*RejectionError{
		ReasonTerminalOrder:      ErrTerminalOrder,
		ReasonBackwardTransition: ErrBackwardTransition,
		ReasonUnknownStatus:      ErrUnknownStatus,
		ReasonNotOwner:           ErrNotOwner,
		ReasonNotFinished:        ErrNotFinished,
		ReasonAlreadyReviewed:    ErrAlreadyReviewed,
		ReasonInvalidRating:      ErrInvalidRating,
		ReasonEmptyContent:       ErrEmptyContent,
	}

	for reason, sentinel := range sentinels {
		t.Run(string(reason), func(t *testing.T) {
			assert.Equal(t, reason, sentinel.Reason)
			assert.NotEmpty(t, sentinel.Error())

			got, ok := ReasonOf(sentinel)
			require.True(t, ok)
			assert.Equal(t, reason, got)
		})
	}

	assert.Less(t, MinRating, MaxRating)
	assert.True(t, ValidRating(MinRating))
	assert.True(t, ValidRating(MaxRating))
	assert.False(t, ValidRating(MaxRating+1))
}
