package commands

import (
	"context"
	"log/slog"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/detection"
	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/payment"
	"parkgate/internal/domain/session"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/pkg/keylock"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type EntryResult struct {
	Session *session.Session
	Gate    *GateDecision
}

type ExitResult struct {
	Session          *session.Session
	Fee              billing.Money
	PaymentRequested bool
	Gate             *GateDecision
}

type PaymentResult struct {
	Session  *session.Session
	Replayed bool
	Gate     *GateDecision
}

type SessionCommands interface {
	HandleEntry(ctx context.Context, ev detection.Event) (*EntryResult, error)
	HandleExit(ctx context.Context, ev detection.Event) (*ExitResult, error)
	ConfirmPayment(ctx context.Context, sessionID uuid.UUID, amount billing.Money, gatewayRef string) (*PaymentResult, error)
	FailPayment(ctx context.Context, sessionID uuid.UUID, reason string) error
	GrantExtension(ctx context.Context, sessionID uuid.UUID, minutes int) (*session.Session, error)
	ForceClose(ctx context.Context, sessionID uuid.UUID, reason string) (*session.Session, error)
}

type sessionUseCaseImpl struct {
	uow      shared.UnitOfWork
	signaler GateSignaler
	gateway  PaymentGateway
	alerts   AlertPublisher
	plates   *keylock.KeyedMutex
	clock    clock.Clock
}

func NewSessionUseCase(
	uow shared.UnitOfWork,
	signaler GateSignaler,
	gateway PaymentGateway,
	alerts AlertPublisher,
	clk clock.Clock,
) SessionCommands {
	return &sessionUseCaseImpl{
		uow:      uow,
		signaler: signaler,
		gateway:  gateway,
		alerts:   alerts,
		plates:   keylock.New(),
		clock:    clk,
	}
}

// HandleEntry opens a session for an entry detection and raises the entry
// gate. A plate with a session already active is refused and the gate stays
// shut; the unique constraint on active plates backs this up against
// concurrent entries the per-plate lock cannot see (multiple instances).
func (u *sessionUseCaseImpl) HandleEntry(ctx context.Context, ev detection.Event) (*EntryResult, error) {
	u.plates.Lock(ev.Plate)
	defer u.plates.Unlock(ev.Plate)

	var created *session.Session
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rate, err := tx.Reads().CurrentRate(ctx)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrNoCurrentRate)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		s, err := session.NewSession(ev.Plate, ev.Timestamp, ev.GateID, ev.ImageRef, rate.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidPlate)
		}

		if err := tx.Sessions().Create(ctx, s); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicateActiveSession)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		created = s
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrDuplicateActiveSession) {
			u.dispatchGate(ctx, u.activeSessionID(ctx, ev.Plate), ev.GateID, gatecmd.ActionDeny, "duplicate entry")
			u.alerts.Publish("entry_rejected", map[string]any{
				"plate": ev.Plate, "gate_id": ev.GateID, "reason": "duplicate active session",
			})
		}
		return nil, err
	}

	gate := u.dispatchGate(ctx, created.ID(), ev.GateID, gatecmd.ActionOpen, "session opened")
	u.alerts.Publish("session_opened", map[string]any{
		"session_id": created.ID(), "plate": created.Plate(), "gate_id": ev.GateID,
	})

	return &EntryResult{Session: created, Gate: gate}, nil
}

// HandleExit computes the fee for an exit detection. A zero fee closes the
// session and opens the gate immediately; a nonzero fee parks the session in
// awaiting-payment, fires a payment request and keeps the gate shut.
func (u *sessionUseCaseImpl) HandleExit(ctx context.Context, ev detection.Event) (*ExitResult, error) {
	u.plates.Lock(ev.Plate)
	defer u.plates.Unlock(ev.Plate)

	var (
		s       *session.Session
		fee     billing.Money
		attempt *payment.Attempt
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		s, err = tx.Reads().ActiveSessionByPlate(ctx, ev.Plate)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrNoActiveSession)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if s.Status() != session.StatusOpen {
			// Exit already recorded; the vehicle is waiting at the gate for
			// payment. Re-reporting the fee is harmless.
			fee = mustMoney(*s.FeeCents())
			attempt = nil
			return nil
		}

		rate, err := tx.Reads().RateByID(ctx, s.RateID())
		if err != nil {
			return errs.Mark(err, errs.ErrRateNotFound)
		}

		fee, err = billing.CalculateFee(s.EntryTime(), ev.Timestamp, rate, s.ExtensionMinutes())
		if err != nil {
			return errs.Mark(err, errs.ErrNegativeDuration)
		}

		if fee.IsZero() {
			if err := s.CloseFree(ev.Timestamp, ev.GateID, ev.ImageRef); err != nil {
				return errs.Mark(err, errs.ErrSessionAlreadyClosed)
			}
			return u.updateSession(ctx, tx, s)
		}

		if err := s.AwaitPayment(ev.Timestamp, ev.GateID, ev.ImageRef, fee); err != nil {
			return errs.Mark(err, errs.ErrSessionAlreadyClosed)
		}
		if err := u.updateSession(ctx, tx, s); err != nil {
			return err
		}

		attempt = payment.NewAttempt(s.ID(), fee, u.clock.Now())
		if err := tx.Payments().CreateAttempt(ctx, attempt); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrNoActiveSession) {
			u.dispatchGate(ctx, uuid.Nil, ev.GateID, gatecmd.ActionDeny, "no active session")
			u.alerts.Publish("exit_rejected", map[string]any{
				"plate": ev.Plate, "gate_id": ev.GateID, "reason": "no active session",
			})
		}
		return nil, err
	}

	if s.Status() == session.StatusClosed {
		gate := u.dispatchGate(ctx, s.ID(), ev.GateID, gatecmd.ActionOpen, "free exit")
		u.alerts.Publish("session_closed", map[string]any{
			"session_id": s.ID(), "plate": s.Plate(), "fee_cents": int64(0),
		})
		return &ExitResult{Session: s, Fee: fee, Gate: gate}, nil
	}

	requested := false
	if attempt != nil {
		if err := u.requestPayment(ctx, attempt, s.Plate()); err != nil {
			slog.Warn("payment request failed at exit",
				"session_id", s.ID(), "error", err.Error())
		} else {
			requested = true
		}
	}

	u.alerts.Publish("payment_due", map[string]any{
		"session_id": s.ID(), "plate": s.Plate(), "fee_cents": fee.Cents(),
	})
	return &ExitResult{Session: s, Fee: fee, PaymentRequested: requested}, nil
}

// ConfirmPayment settles an awaiting session against a provider
// confirmation. A duplicate confirmation for an already-settled session with
// the same amount replays the success without issuing a second gate command.
func (u *sessionUseCaseImpl) ConfirmPayment(ctx context.Context, sessionID uuid.UUID, amount billing.Money, gatewayRef string) (*PaymentResult, error) {
	s, err := u.uow.Reads().SessionByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.plates.Lock(s.Plate())
	defer u.plates.Unlock(s.Plate())

	replayed := false
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		s, err = tx.Reads().SessionByID(ctx, sessionID)
		if err != nil {
			return errs.Mark(err, errs.ErrSessionNotFound)
		}

		if s.Status() == session.StatusClosed {
			if s.MatchesPayment(amount) {
				replayed = true
				return nil
			}
			return errs.Mark(errs.New("confirmation for settled session"), errs.ErrSessionAlreadyClosed)
		}

		if err := s.ClosePaid(amount, u.clock.Now()); err != nil {
			switch {
			case errs.Is(err, session.ErrAmountMismatch):
				return errs.Mark(err, errs.ErrAmountMismatch)
			case errs.Is(err, session.ErrNotAwaitingPayment):
				return errs.Mark(err, errs.ErrSessionNotAwaitingPayment)
			default:
				return errs.Mark(err, errs.ErrSessionNotAwaitingPayment)
			}
		}
		if err := u.updateSession(ctx, tx, s); err != nil {
			return err
		}

		return u.settleAttempt(ctx, tx, sessionID, amount, gatewayRef)
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		return &PaymentResult{Session: s, Replayed: true}, nil
	}

	gate := u.dispatchGate(ctx, s.ID(), exitGateFor(s), gatecmd.ActionOpen, "payment confirmed")
	u.alerts.Publish("session_closed", map[string]any{
		"session_id": s.ID(), "plate": s.Plate(), "fee_cents": amount.Cents(),
	})
	return &PaymentResult{Session: s, Gate: gate}, nil
}

// FailPayment records a provider failure. The session stays awaiting payment
// so the driver can retry at the kiosk.
func (u *sessionUseCaseImpl) FailPayment(ctx context.Context, sessionID uuid.UUID, reason string) error {
	s, err := u.uow.Reads().SessionByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrSessionNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if s.Status() != session.StatusAwaitingPayment {
		return errs.Mark(errs.New("failure for session not awaiting payment"), errs.ErrSessionNotAwaitingPayment)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Looked up by session, not by idempotency key: the failure may refer
		// to a charge whose fee an extension has since revised.
		attempt, err := tx.Reads().LatestRequestedAttemptBySession(ctx, sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrPaymentAttemptUnknown)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := attempt.Fail(reason, u.clock.Now()); err != nil {
			// Already settled attempt; nothing left to record.
			return nil
		}
		if err := tx.Payments().UpdateAttempt(ctx, attempt); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.alerts.Publish("payment_failed", map[string]any{
		"session_id": sessionID, "plate": s.Plate(), "reason": reason,
	})
	return nil
}

// GrantExtension adds free minutes to an active session. If the session is
// already awaiting payment the fee is recomputed: down to zero closes it and
// opens nothing (the driver exits on the next detection), otherwise the
// revised fee replaces the old one and the stale payment attempt is
// abandoned.
func (u *sessionUseCaseImpl) GrantExtension(ctx context.Context, sessionID uuid.UUID, minutes int) (*session.Session, error) {
	s, err := u.uow.Reads().SessionByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.plates.Lock(s.Plate())
	defer u.plates.Unlock(s.Plate())

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		s, err = tx.Reads().SessionByID(ctx, sessionID)
		if err != nil {
			return errs.Mark(err, errs.ErrSessionNotFound)
		}

		if err := s.GrantExtension(minutes, u.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrSessionAlreadyClosed)
		}

		if s.Status() == session.StatusAwaitingPayment {
			rate, err := tx.Reads().RateByID(ctx, s.RateID())
			if err != nil {
				return errs.Mark(err, errs.ErrRateNotFound)
			}
			fee, err := billing.CalculateFee(s.EntryTime(), *s.ExitTime(), rate, s.ExtensionMinutes())
			if err != nil {
				return errs.Mark(err, errs.ErrNegativeDuration)
			}
			if fee.IsZero() {
				if err := s.CloseFree(*s.ExitTime(), stringOrEmpty(s.ExitGateID()), stringOrEmpty(s.ExitImageRef())); err != nil {
					return errs.Mark(err, errs.ErrSessionAlreadyClosed)
				}
			} else if err := s.ReviseFee(fee, u.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrSessionNotAwaitingPayment)
			}
		}

		return u.updateSession(ctx, tx, s)
	})
	if err != nil {
		return nil, err
	}

	u.alerts.Publish("extension_granted", map[string]any{
		"session_id": s.ID(), "plate": s.Plate(), "minutes": minutes,
	})
	return s, nil
}

// ForceClose is the operator escape hatch for stuck sessions (lost ticket,
// camera missed the exit). The session closes free of charge.
func (u *sessionUseCaseImpl) ForceClose(ctx context.Context, sessionID uuid.UUID, reason string) (*session.Session, error) {
	s, err := u.uow.Reads().SessionByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.plates.Lock(s.Plate())
	defer u.plates.Unlock(s.Plate())

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		s, err = tx.Reads().SessionByID(ctx, sessionID)
		if err != nil {
			return errs.Mark(err, errs.ErrSessionNotFound)
		}
		if err := s.CloseFree(u.clock.Now(), "", ""); err != nil {
			return errs.Mark(err, errs.ErrSessionAlreadyClosed)
		}
		return u.updateSession(ctx, tx, s)
	})
	if err != nil {
		return nil, err
	}

	u.alerts.Publish("session_force_closed", map[string]any{
		"session_id": s.ID(), "plate": s.Plate(), "reason": reason,
	})
	return s, nil
}

func (u *sessionUseCaseImpl) updateSession(ctx context.Context, tx shared.Tx, s *session.Session) error {
	if err := tx.Sessions().Update(ctx, s); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// Another writer transitioned the row first; from this side the
			// session is settled and must not be settled again.
			return errs.Mark(err, errs.ErrSessionAlreadyClosed)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *sessionUseCaseImpl) settleAttempt(ctx context.Context, tx shared.Tx, sessionID uuid.UUID, amount billing.Money, gatewayRef string) error {
	key := payment.DeriveIdempotencyKey(sessionID, amount)
	attempt, err := tx.Reads().AttemptByKey(ctx, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Confirmation arrived for a charge initiated out of band
			// (kiosk). The session settlement above is still authoritative.
			return nil
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := attempt.Confirm(gatewayRef, u.clock.Now()); err != nil {
		return nil
	}
	if err := tx.Payments().UpdateAttempt(ctx, attempt); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *sessionUseCaseImpl) requestPayment(ctx context.Context, attempt *payment.Attempt, plate string) error {
	if err := u.gateway.RequestPayment(ctx, attempt, plate); err != nil {
		return errs.Mark(err, errs.ErrPaymentRequestFailed)
	}
	return nil
}

// dispatchGate persists a gate command, pushes it to the hardware and
// records the outcome. Gate trouble never rolls back session state; the
// session record is the source of truth and operators get alerted instead.
func (u *sessionUseCaseImpl) dispatchGate(ctx context.Context, sessionID uuid.UUID, gateID string, action gatecmd.Action, reason string) *GateDecision {
	if sessionID == uuid.Nil {
		// Deny for an unknown vehicle: nothing to persist against, signal only.
		u.alerts.Publish("gate_denied", map[string]any{"gate_id": gateID, "reason": reason})
		return &GateDecision{GateID: gateID, Action: action, Delivered: false}
	}

	cmd, err := gatecmd.NewCommand(sessionID, gateID, action, reason, u.clock.Now())
	if err != nil {
		slog.Error("invalid gate command", "gate_id", gateID, "error", err.Error())
		return &GateDecision{GateID: gateID, Action: action, Delivered: false}
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.GateCommands().Create(ctx, cmd)
	})
	if err != nil {
		slog.Error("failed to persist gate command",
			"request_id", cmd.RequestID(), "error", err.Error())
	}

	signalErr := u.signaler.Signal(ctx, cmd)

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.GateCommands().Update(ctx, cmd)
	})
	if err != nil {
		slog.Error("failed to record gate command outcome",
			"request_id", cmd.RequestID(), "error", err.Error())
	}

	decision := &GateDecision{
		GateID:    gateID,
		Action:    action,
		RequestID: cmd.RequestID(),
		Attempts:  cmd.Attempts(),
		Delivered: cmd.Status() == gatecmd.StatusAcked,
	}
	if signalErr != nil {
		slog.Warn("gate did not acknowledge command",
			"gate_id", gateID, "request_id", cmd.RequestID(), "attempts", cmd.Attempts())
		u.alerts.Publish("gate_unresponsive", map[string]any{
			"gate_id": gateID, "request_id": cmd.RequestID(), "action": string(action),
		})
	}
	return decision
}

func (u *sessionUseCaseImpl) activeSessionID(ctx context.Context, plate string) uuid.UUID {
	s, err := u.uow.Reads().ActiveSessionByPlate(ctx, plate)
	if err != nil {
		return uuid.Nil
	}
	return s.ID()
}

// exitGateFor picks the gate to open after a remote payment confirmation:
// the gate the exit detection recorded, where the vehicle is still waiting.
func exitGateFor(s *session.Session) string {
	if g := s.ExitGateID(); g != nil && *g != "" {
		return *g
	}
	return defaultExitGate
}

// Sessions settled without a recorded exit gate (manual kiosk flows) open
// the primary exit barrier.
const defaultExitGate = "exit-1"

func mustMoney(cents int64) billing.Money {
	m, err := billing.NewMoney(cents)
	if err != nil {
		return billing.Zero()
	}
	return m
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
