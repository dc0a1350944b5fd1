//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/detection"
	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/payment"
	"parkgate/internal/domain/session"
	"parkgate/internal/infra"
	"parkgate/internal/infra/memstore"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var entryAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type fakeSignaler struct {
	mu       sync.Mutex
	signaled []signalRecord
	fail     bool
}

type signalRecord struct {
	gateID string
	action gatecmd.Action
}

func (f *fakeSignaler) Signal(ctx context.Context, cmd *gatecmd.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd.RecordAttempt()
	if f.fail {
		_ = cmd.MarkTimedOut(time.Now())
		return errs.ErrGateUnresponsive
	}
	_ = cmd.MarkAcked(time.Now())
	f.signaled = append(f.signaled, signalRecord{gateID: cmd.GateID(), action: cmd.Action()})
	return nil
}

func (f *fakeSignaler) opens() []signalRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []signalRecord
	for _, r := range f.signaled {
		if r.action == gatecmd.ActionOpen {
			out = append(out, r)
		}
	}
	return out
}

type fakeGateway struct {
	mu       sync.Mutex
	requests []*payment.Attempt
	fail     bool
}

func (f *fakeGateway) RequestPayment(ctx context.Context, attempt *payment.Attempt, plate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errs.New("provider unavailable")
	}
	f.requests = append(f.requests, attempt)
	return nil
}

type fakeAlerts struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeAlerts) Publish(kind string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, kind)
}

type fixture struct {
	store    *memstore.Store
	sessions commands.SessionCommands
	rates    commands.RateCommands
	signaler *fakeSignaler
	gateway  *fakeGateway
	alerts   *fakeAlerts
	clock    *clock.MockClock
	rate     *billing.RateSnapshot
}

// 200 cents per hour, 15 free minutes, 1000 cents daily cap
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    memstore.New(),
		signaler: &fakeSignaler{},
		gateway:  &fakeGateway{},
		alerts:   &fakeAlerts{},
		clock:    clock.NewMockClock(entryAt),
	}
	f.sessions = commands.NewSessionUseCase(f.store, f.signaler, f.gateway, f.alerts, f.clock)
	f.rates = commands.NewRateUseCase(f.store, f.clock)

	rate, err := f.rates.UpdateRate(context.Background(), 200, 15, 1000)
	require.NoError(t, err)
	f.rate = rate
	return f
}

func entryEvent(plate string) detection.Event {
	return detection.Event{
		Plate:      plate,
		GateID:     "gate-entry-1",
		Direction:  detection.DirectionEntry,
		Timestamp:  entryAt,
		Confidence: 95,
		ImageRef:   "img://entry",
	}
}

func exitEvent(plate string, at time.Time) detection.Event {
	return detection.Event{
		Plate:      plate,
		GateID:     "gate-exit-1",
		Direction:  detection.DirectionExit,
		Timestamp:  at,
		Confidence: 95,
		ImageRef:   "img://exit",
	}
}

func TestHandleEntry(t *testing.T) {
	t.Run("opens session and raises entry gate", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)

		assert.Equal(t, session.StatusOpen, res.Session.Status())
		assert.Equal(t, f.rate.ID(), res.Session.RateID())
		require.NotNil(t, res.Gate)
		assert.True(t, res.Gate.Delivered)
		assert.Equal(t, gatecmd.ActionOpen, res.Gate.Action)
		assert.Equal(t, "gate-entry-1", res.Gate.GateID)
	})

	t.Run("refuses second entry for active plate", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)

		_, err = f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		assert.True(t, errs.Is(err, errs.ErrDuplicateActiveSession))
		assert.Len(t, f.signaler.opens(), 1)
	})

	t.Run("exactly one of concurrent entries wins", func(t *testing.T) {
		f := newFixture(t)

		var g errgroup.Group
		var mu sync.Mutex
		var succeeded, rejected int
		for i := 0; i < 8; i++ {
			g.Go(func() error {
				_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errs.Is(err, errs.ErrDuplicateActiveSession):
					rejected++
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 7, rejected)
	})

	t.Run("fails without a configured rate", func(t *testing.T) {
		f := newFixture(t)
		f.store = memstore.New() // empty store, no rate
		f.sessions = commands.NewSessionUseCase(f.store, f.signaler, f.gateway, f.alerts, f.clock)

		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		assert.True(t, errs.Is(err, errs.ErrNoCurrentRate))
	})
}

func TestHandleExit(t *testing.T) {
	t.Run("free exit inside grace period closes and opens gate", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)

		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(10*time.Minute)))
		require.NoError(t, err)

		assert.True(t, res.Fee.IsZero())
		assert.Equal(t, session.StatusClosed, res.Session.Status())
		assert.Equal(t, session.PaymentFree, res.Session.PaymentState())
		require.NotNil(t, res.Gate)
		assert.Equal(t, "gate-exit-1", res.Gate.GateID)
		assert.Empty(t, f.gateway.requests)
	})

	t.Run("billable exit awaits payment with gate shut", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)

		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
		require.NoError(t, err)

		// 65 elapsed - 15 free = 50 billable minutes, one started hour
		assert.Equal(t, int64(200), res.Fee.Cents())
		assert.Equal(t, session.StatusAwaitingPayment, res.Session.Status())
		assert.True(t, res.PaymentRequested)
		assert.Nil(t, res.Gate)
		assert.Len(t, f.gateway.requests, 1)
		assert.Len(t, f.signaler.opens(), 1) // entry only
	})

	t.Run("exit without session is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.sessions.HandleExit(context.Background(), exitEvent("ZZ999XX", entryAt.Add(time.Hour)))
		assert.True(t, errs.Is(err, errs.ErrNoActiveSession))
		assert.Empty(t, f.signaler.opens())
	})

	t.Run("session stays awaiting when provider is down", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.fail = true
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)

		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
		require.NoError(t, err)

		assert.Equal(t, session.StatusAwaitingPayment, res.Session.Status())
		assert.False(t, res.PaymentRequested)
	})
}

func TestConfirmPayment(t *testing.T) {
	setupAwaiting := func(t *testing.T) (*fixture, *commands.ExitResult) {
		t.Helper()
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
		require.NoError(t, err)
		return f, res
	}

	t.Run("matching amount closes session and opens exit gate", func(t *testing.T) {
		f, res := setupAwaiting(t)
		amount, _ := billing.NewMoney(200)

		out, err := f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), amount, "ch_001")
		require.NoError(t, err)

		assert.False(t, out.Replayed)
		assert.Equal(t, session.StatusClosed, out.Session.Status())
		assert.Equal(t, session.PaymentPaid, out.Session.PaymentState())
		opens := f.signaler.opens()
		require.Len(t, opens, 2) // entry + exit
		assert.Equal(t, "gate-exit-1", opens[1].gateID)

		key := payment.DeriveIdempotencyKey(res.Session.ID(), amount)
		attempt, err := f.store.Reads().AttemptByKey(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusConfirmed, attempt.Status())
		require.NotNil(t, attempt.GatewayRef())
		assert.Equal(t, "ch_001", *attempt.GatewayRef())
	})

	t.Run("duplicate confirmation replays without second gate command", func(t *testing.T) {
		f, res := setupAwaiting(t)
		amount, _ := billing.NewMoney(200)

		_, err := f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), amount, "ch_001")
		require.NoError(t, err)

		out, err := f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), amount, "ch_001")
		require.NoError(t, err)
		assert.True(t, out.Replayed)
		assert.Len(t, f.signaler.opens(), 2) // no third open
	})

	t.Run("amount mismatch keeps session awaiting", func(t *testing.T) {
		f, res := setupAwaiting(t)
		wrong, _ := billing.NewMoney(100)

		_, err := f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), wrong, "ch_001")
		assert.True(t, errs.Is(err, errs.ErrAmountMismatch))

		s, err := f.store.Reads().SessionByID(context.Background(), res.Session.ID())
		require.NoError(t, err)
		assert.Equal(t, session.StatusAwaitingPayment, s.Status())
	})

	t.Run("mismatched amount after settlement is rejected", func(t *testing.T) {
		f, res := setupAwaiting(t)
		amount, _ := billing.NewMoney(200)
		wrong, _ := billing.NewMoney(100)

		_, err := f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), amount, "ch_001")
		require.NoError(t, err)

		_, err = f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), wrong, "ch_001")
		assert.True(t, errs.Is(err, errs.ErrSessionAlreadyClosed))
	})

	t.Run("confirmation for open session is rejected", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		amount, _ := billing.NewMoney(200)

		_, err = f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), amount, "ch_001")
		assert.True(t, errs.Is(err, errs.ErrSessionNotAwaitingPayment))
	})
}

func TestGrantExtension(t *testing.T) {
	t.Run("extension absorbing the fee closes the session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
		require.NoError(t, err)
		require.Equal(t, session.StatusAwaitingPayment, res.Session.Status())

		s, err := f.sessions.GrantExtension(context.Background(), res.Session.ID(), 60)
		require.NoError(t, err)

		assert.Equal(t, session.StatusClosed, s.Status())
		assert.Equal(t, session.PaymentFree, s.PaymentState())
		require.NotNil(t, s.FeeCents())
		assert.Zero(t, *s.FeeCents())
	})

	t.Run("partial extension revises the fee", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(150*time.Minute)))
		require.NoError(t, err)
		// 150 - 15 = 135 billable, 3 started hours
		require.Equal(t, int64(600), res.Fee.Cents())

		s, err := f.sessions.GrantExtension(context.Background(), res.Session.ID(), 80)
		require.NoError(t, err)

		// 150 - 15 - 80 = 55 billable, one started hour
		assert.Equal(t, session.StatusAwaitingPayment, s.Status())
		require.NotNil(t, s.FeeCents())
		assert.Equal(t, int64(200), *s.FeeCents())
	})

	t.Run("extension on closed session fails", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(5*time.Minute)))
		require.NoError(t, err)
		require.Equal(t, session.StatusClosed, res.Session.Status())

		_, err = f.sessions.GrantExtension(context.Background(), res.Session.ID(), 30)
		assert.True(t, errs.Is(err, errs.ErrSessionAlreadyClosed))
	})
}

func TestForceClose(t *testing.T) {
	f := newFixture(t)
	res, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
	require.NoError(t, err)

	f.clock.Add(3 * time.Hour)
	s, err := f.sessions.ForceClose(context.Background(), res.Session.ID(), "lost ticket")
	require.NoError(t, err)
	assert.Equal(t, session.StatusClosed, s.Status())
	assert.Equal(t, session.PaymentFree, s.PaymentState())

	// plate is free for a new session afterwards
	_, err = f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
	assert.NoError(t, err)
}

func TestRateSupersedeBinding(t *testing.T) {
	f := newFixture(t)

	first, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
	require.NoError(t, err)

	// Rate doubles while the first vehicle is parked.
	_, err = f.rates.UpdateRate(context.Background(), 400, 15, 2000)
	require.NoError(t, err)

	second, err := f.sessions.HandleEntry(context.Background(), entryEvent("ZZ999XX"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Session.RateID(), second.Session.RateID())

	// First session still bills at the entry-time rate.
	res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.Fee.Cents())

	res2, err := f.sessions.HandleExit(context.Background(), exitEvent("ZZ999XX", entryAt.Add(65*time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, int64(400), res2.Fee.Cents())
}

func TestFailPayment(t *testing.T) {
	t.Run("failure keeps the session awaiting", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
		require.NoError(t, err)

		require.NoError(t, f.sessions.FailPayment(context.Background(), res.Session.ID(), "card declined"))

		s, err := f.store.Reads().SessionByID(context.Background(), res.Session.ID())
		require.NoError(t, err)
		assert.Equal(t, session.StatusAwaitingPayment, s.Status())
	})

	t.Run("failure still lands after an extension revised the fee", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
		require.NoError(t, err)
		res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(150*time.Minute)))
		require.NoError(t, err)
		originalFee := res.Fee

		// The revision changes the fee, and with it the idempotency key the
		// outstanding charge was derived from.
		_, err = f.sessions.GrantExtension(context.Background(), res.Session.ID(), 80)
		require.NoError(t, err)

		require.NoError(t, f.sessions.FailPayment(context.Background(), res.Session.ID(), "card declined"))

		key := payment.DeriveIdempotencyKey(res.Session.ID(), originalFee)
		attempt, err := f.store.Reads().AttemptByKey(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, attempt.Status())
	})
}

func TestConcurrentSessionUpdate(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.HandleEntry(context.Background(), entryEvent("AB123CD"))
	require.NoError(t, err)
	res, err := f.sessions.HandleExit(context.Background(), exitEvent("AB123CD", entryAt.Add(65*time.Minute)))
	require.NoError(t, err)

	// Another instance loads the same awaiting session before this one
	// settles it.
	stale, err := f.store.Reads().SessionByID(context.Background(), res.Session.ID())
	require.NoError(t, err)

	amount, _ := billing.NewMoney(200)
	_, err = f.sessions.ConfirmPayment(context.Background(), res.Session.ID(), amount, "ch_001")
	require.NoError(t, err)

	// The stale writer's close must lose instead of settling twice.
	require.NoError(t, stale.CloseFree(entryAt.Add(70*time.Minute), "gate-exit-1", ""))
	err = f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Sessions().Update(ctx, stale)
	})
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindConflict))

	s, err := f.store.Reads().SessionByID(context.Background(), res.Session.ID())
	require.NoError(t, err)
	assert.Equal(t, session.PaymentPaid, s.PaymentState())
}
