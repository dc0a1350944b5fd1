//go:build unit

package session_test

import (
	"testing"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newOpenSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.NewSession("AB123CD", baseTime, "gate-entry-1", "img://entry/1", uuid.New())
	require.NoError(t, err)
	return s
}

func money(t *testing.T, cents int64) billing.Money {
	t.Helper()
	m, err := billing.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func TestNewSession(t *testing.T) {
	t.Run("starts open with pending payment", func(t *testing.T) {
		s := newOpenSession(t)

		assert.NotEqual(t, uuid.Nil, s.ID())
		assert.Equal(t, session.StatusOpen, s.Status())
		assert.Equal(t, session.PaymentPending, s.PaymentState())
		assert.Equal(t, "gate-entry-1", s.EntryGateID())
		assert.True(t, s.IsActive())
		assert.Nil(t, s.ExitTime())
		assert.Nil(t, s.ExitGateID())
		assert.Nil(t, s.FeeCents())
	})

	t.Run("rejects empty plate", func(t *testing.T) {
		_, err := session.NewSession("", baseTime, "gate-entry-1", "", uuid.New())
		assert.ErrorIs(t, err, session.ErrEmptyPlate)
	})

	t.Run("rejects nil rate binding", func(t *testing.T) {
		_, err := session.NewSession("AB123CD", baseTime, "gate-entry-1", "", uuid.Nil)
		assert.ErrorIs(t, err, session.ErrMissingRateSnapshot)
	})
}

func TestCloseFree(t *testing.T) {
	t.Run("closes open session with zero fee", func(t *testing.T) {
		s := newOpenSession(t)
		exit := baseTime.Add(10 * time.Minute)

		require.NoError(t, s.CloseFree(exit, "gate-exit-1", "img://exit/1"))

		assert.Equal(t, session.StatusClosed, s.Status())
		assert.Equal(t, session.PaymentFree, s.PaymentState())
		assert.False(t, s.IsActive())
		require.NotNil(t, s.FeeCents())
		assert.Zero(t, *s.FeeCents())
		require.NotNil(t, s.ExitTime())
		assert.True(t, s.ExitTime().Equal(exit))
		require.NotNil(t, s.ExitGateID())
		assert.Equal(t, "gate-exit-1", *s.ExitGateID())
	})

	t.Run("closed session rejects any further transition", func(t *testing.T) {
		s := newOpenSession(t)
		require.NoError(t, s.CloseFree(baseTime.Add(time.Minute), "gate-exit-1", ""))

		assert.ErrorIs(t, s.CloseFree(baseTime.Add(2*time.Minute), "gate-exit-1", ""), session.ErrAlreadyClosed)
		assert.ErrorIs(t, s.AwaitPayment(baseTime.Add(2*time.Minute), "gate-exit-1", "", money(t, 100)), session.ErrAlreadyClosed)
		assert.ErrorIs(t, s.ClosePaid(money(t, 100), baseTime), session.ErrAlreadyClosed)
		assert.ErrorIs(t, s.GrantExtension(10, baseTime), session.ErrAlreadyClosed)
	})

	t.Run("rejects exit before entry", func(t *testing.T) {
		s := newOpenSession(t)
		err := s.CloseFree(baseTime.Add(-time.Minute), "gate-exit-1", "")
		assert.ErrorIs(t, err, session.ErrExitBeforeEntry)
		assert.Equal(t, session.StatusOpen, s.Status())
	})
}

func TestAwaitPayment(t *testing.T) {
	t.Run("records exit and fee without closing", func(t *testing.T) {
		s := newOpenSession(t)
		exit := baseTime.Add(90 * time.Minute)

		require.NoError(t, s.AwaitPayment(exit, "gate-exit-1", "img://exit/2", money(t, 600)))

		assert.Equal(t, session.StatusAwaitingPayment, s.Status())
		assert.True(t, s.IsActive())
		require.NotNil(t, s.FeeCents())
		assert.Equal(t, int64(600), *s.FeeCents())
		require.NotNil(t, s.ExitGateID())
		assert.Equal(t, "gate-exit-1", *s.ExitGateID())
	})

	t.Run("rejects zero fee", func(t *testing.T) {
		s := newOpenSession(t)
		err := s.AwaitPayment(baseTime.Add(time.Hour), "gate-exit-1", "", billing.Zero())
		assert.ErrorIs(t, err, session.ErrZeroFeeAwaiting)
	})

	t.Run("does not re-enter from awaiting payment", func(t *testing.T) {
		s := newOpenSession(t)
		require.NoError(t, s.AwaitPayment(baseTime.Add(time.Hour), "gate-exit-1", "", money(t, 600)))

		err := s.AwaitPayment(baseTime.Add(2*time.Hour), "gate-exit-1", "", money(t, 900))
		assert.ErrorIs(t, err, session.ErrNotOpen)
		assert.Equal(t, int64(600), *s.FeeCents())
	})
}

func TestClosePaid(t *testing.T) {
	t.Run("closes with matching amount", func(t *testing.T) {
		s := newOpenSession(t)
		require.NoError(t, s.AwaitPayment(baseTime.Add(time.Hour), "gate-exit-1", "", money(t, 600)))

		require.NoError(t, s.ClosePaid(money(t, 600), baseTime.Add(time.Hour+time.Minute)))

		assert.Equal(t, session.StatusClosed, s.Status())
		assert.Equal(t, session.PaymentPaid, s.PaymentState())
		assert.True(t, s.MatchesPayment(money(t, 600)))
		assert.False(t, s.MatchesPayment(money(t, 500)))
	})

	t.Run("rejects amount mismatch and stays awaiting", func(t *testing.T) {
		s := newOpenSession(t)
		require.NoError(t, s.AwaitPayment(baseTime.Add(time.Hour), "gate-exit-1", "", money(t, 600)))

		err := s.ClosePaid(money(t, 500), baseTime.Add(time.Hour))
		assert.ErrorIs(t, err, session.ErrAmountMismatch)
		assert.Equal(t, session.StatusAwaitingPayment, s.Status())
	})

	t.Run("rejects payment on open session", func(t *testing.T) {
		s := newOpenSession(t)
		err := s.ClosePaid(money(t, 600), baseTime)
		assert.ErrorIs(t, err, session.ErrNotAwaitingPayment)
	})
}

func TestGrantExtension(t *testing.T) {
	t.Run("accumulates minutes", func(t *testing.T) {
		s := newOpenSession(t)
		require.NoError(t, s.GrantExtension(15, baseTime.Add(time.Minute)))
		require.NoError(t, s.GrantExtension(30, baseTime.Add(2*time.Minute)))
		assert.Equal(t, 45, s.ExtensionMinutes())
	})

	t.Run("rejects negative minutes", func(t *testing.T) {
		s := newOpenSession(t)
		assert.ErrorIs(t, s.GrantExtension(-5, baseTime), session.ErrNegativeExtension)
	})
}

func TestReviseFee(t *testing.T) {
	s := newOpenSession(t)
	require.NoError(t, s.AwaitPayment(baseTime.Add(time.Hour), "gate-exit-1", "", money(t, 600)))

	require.NoError(t, s.ReviseFee(money(t, 300), baseTime.Add(time.Hour)))
	assert.Equal(t, int64(300), *s.FeeCents())

	assert.ErrorIs(t, s.ReviseFee(billing.Zero(), baseTime), session.ErrZeroFeeAwaiting)

	open := newOpenSession(t)
	assert.ErrorIs(t, open.ReviseFee(money(t, 100), baseTime), session.ErrNotAwaitingPayment)
}
