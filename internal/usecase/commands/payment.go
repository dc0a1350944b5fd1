package commands

import (
	"context"
	"log/slog"

	"parkgate/internal/domain/payment"
	"parkgate/internal/domain/session"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentCommands interface {
	// RequestPayment (re-)submits the charge for an awaiting session, for
	// kiosk retries after a declined card. The deterministic idempotency key
	// makes resubmitting the same fee collapse at the provider.
	RequestPayment(ctx context.Context, sessionID uuid.UUID) (*payment.Attempt, error)
}

type paymentUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	clock   clock.Clock
}

func NewPaymentUseCase(uow shared.UnitOfWork, gateway PaymentGateway, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:     uow,
		gateway: gateway,
		clock:   clk,
	}
}

func (u *paymentUseCaseImpl) RequestPayment(ctx context.Context, sessionID uuid.UUID) (*payment.Attempt, error) {
	s, err := u.uow.Reads().SessionByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if s.Status() != session.StatusAwaitingPayment || s.FeeCents() == nil {
		return nil, errs.Mark(errs.New("payment requested for session not awaiting payment"), errs.ErrSessionNotAwaitingPayment)
	}

	fee := mustMoney(*s.FeeCents())
	key := payment.DeriveIdempotencyKey(sessionID, fee)

	var attempt *payment.Attempt
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Reads().AttemptByKey(ctx, key)
		switch {
		case err == nil:
			if existing.Status() == payment.StatusRequested {
				// Still in flight at the provider; resend the same attempt.
				attempt = existing
				return nil
			}
			// A failed attempt for the same fee gets a fresh record; the
			// provider-side key still prevents a double charge.
		case !infra.IsKind(err, infra.KindNotFound):
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		attempt = payment.NewAttempt(sessionID, fee, u.clock.Now())
		if err := tx.Payments().CreateAttempt(ctx, attempt); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.gateway.RequestPayment(ctx, attempt, s.Plate()); err != nil {
		slog.Warn("payment provider rejected request",
			"session_id", sessionID, "attempt_id", attempt.ID(), "error", err.Error())
		return nil, errs.Mark(err, errs.ErrPaymentRequestFailed)
	}

	return attempt, nil
}
