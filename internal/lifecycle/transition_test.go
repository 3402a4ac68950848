package lifecycle

import (
	"testing"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []models.OrderStatus{
	models.OrderStatusNotApproved,
	models.OrderStatusApproved,
	models.OrderStatusCompleted,
	models.OrderStatusCancelled,
}

func TestValidateTransition_ToCancelled(t *testing.T) {
	for _, from := range allStatuses {
		t.Run(string(from), func(t *testing.T) {
			err := ValidateTransition(from, models.OrderStatusCancelled)
			if from == models.OrderStatusCancelled {
				require.ErrorIs(t, err, ErrTerminalOrder)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateTransition_SameStatus(t *testing.T) {
	for _, status := range allStatuses {
		if status == models.OrderStatusCancelled {
			continue
		}
		t.Run(string(status), func(t *testing.T) {
			require.NoError(t, ValidateTransition(status, status))
		})
	}
}

func TestValidateTransition_ForwardPath(t *testing.T) {
	require.NoError(t, ValidateTransition(models.OrderStatusNotApproved, models.OrderStatusApproved))
	require.NoError(t, ValidateTransition(models.OrderStatusApproved, models.OrderStatusCompleted))
	require.NoError(t, ValidateTransition(models.OrderStatusNotApproved, models.OrderStatusCompleted))
}

func TestValidateTransition_Backward(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
	}{
		{models.OrderStatusCompleted, models.OrderStatusApproved},
		{models.OrderStatusCompleted, models.OrderStatusNotApproved},
		{models.OrderStatusApproved, models.OrderStatusNotApproved},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			require.ErrorIs(t, err, ErrBackwardTransition)

			reason, ok := ReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, ReasonBackwardTransition, reason)
		})
	}
}

func TestValidateTransition_FromCancelled(t *testing.T) {
	for _, to := range allStatuses {
		t.Run(string(to), func(t *testing.T) {
			err := ValidateTransition(models.OrderStatusCancelled, to)
			require.ErrorIs(t, err, ErrTerminalOrder)
			assert.Equal(t, "cannot modify a cancelled order", err.Error())
		})
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	require.ErrorIs(t, ValidateTransition("SHIPPED", models.OrderStatusApproved), ErrUnknownStatus)
	require.ErrorIs(t, ValidateTransition(models.OrderStatusApproved, "SHIPPED"), ErrUnknownStatus)
	require.ErrorIs(t, ValidateTransition(models.OrderStatusApproved, ""), ErrUnknownStatus)

	// Отменённый заказ остаётся терминальным даже при неизвестном целевом статусе
	require.ErrorIs(t, ValidateTransition(models.OrderStatusCancelled, "SHIPPED"), ErrTerminalOrder)
	// Неизвестный текущий статус не превращается в разрешённую отмену
	require.ErrorIs(t, ValidateTransition("SHIPPED", models.OrderStatusCancelled), ErrUnknownStatus)
}

func TestFinished(t *testing.T) {
	assert.False(t, Finished(models.OrderStatusNotApproved))
	assert.False(t, Finished(models.OrderStatusApproved))
	assert.True(t, Finished(models.OrderStatusCompleted))
	assert.True(t, Finished(models.OrderStatusCancelled))
}
