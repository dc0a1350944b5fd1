//go:build unit

package payment_test

import (
	"testing"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptLifecycle(t *testing.T) {
	amount, err := billing.NewMoney(600)
	require.NoError(t, err)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("confirm settles a requested attempt once", func(t *testing.T) {
		a := payment.NewAttempt(uuid.New(), amount, now)
		assert.Equal(t, payment.StatusRequested, a.Status())
		assert.Nil(t, a.GatewayRef())

		require.NoError(t, a.Confirm("txn_9f2c", now.Add(time.Minute)))
		assert.Equal(t, payment.StatusConfirmed, a.Status())
		require.NotNil(t, a.SettledAt())
		require.NotNil(t, a.GatewayRef())
		assert.Equal(t, "txn_9f2c", *a.GatewayRef())

		assert.ErrorIs(t, a.Confirm("txn_late", now.Add(2*time.Minute)), payment.ErrAlreadySettled)
		assert.ErrorIs(t, a.Fail("late failure", now.Add(2*time.Minute)), payment.ErrAlreadySettled)
	})

	t.Run("confirm without a provider reference keeps it nil", func(t *testing.T) {
		a := payment.NewAttempt(uuid.New(), amount, now)
		require.NoError(t, a.Confirm("", now.Add(time.Minute)))
		assert.Nil(t, a.GatewayRef())
	})

	t.Run("fail records the reason", func(t *testing.T) {
		a := payment.NewAttempt(uuid.New(), amount, now)
		require.NoError(t, a.Fail("card declined", now.Add(time.Minute)))

		assert.Equal(t, payment.StatusFailed, a.Status())
		require.NotNil(t, a.FailureReason())
		assert.Equal(t, "card declined", *a.FailureReason())
		assert.ErrorIs(t, a.Confirm("txn_9f2c", now.Add(2*time.Minute)), payment.ErrNotRequested)
	})
}

func TestDeriveIdempotencyKey(t *testing.T) {
	sessionID := uuid.New()
	amount, err := billing.NewMoney(600)
	require.NoError(t, err)
	revised, err := billing.NewMoney(300)
	require.NoError(t, err)

	// Same inputs always map to the same key; a revised fee gets a new one.
	assert.Equal(t,
		payment.DeriveIdempotencyKey(sessionID, amount),
		payment.DeriveIdempotencyKey(sessionID, amount))
	assert.NotEqual(t,
		payment.DeriveIdempotencyKey(sessionID, amount),
		payment.DeriveIdempotencyKey(sessionID, revised))
	assert.NotEqual(t,
		payment.DeriveIdempotencyKey(sessionID, amount),
		payment.DeriveIdempotencyKey(uuid.New(), amount))
}
