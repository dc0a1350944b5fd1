package commands

import (
	"context"

	"parkgate/internal/domain/billing"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/shared"
)

var ErrInvalidRate = errs.New("invalid rate parameters")

type RateCommands interface {
	// UpdateRate supersedes the current rate snapshot with a new one. Open
	// sessions keep billing against the snapshot bound at their entry.
	UpdateRate(ctx context.Context, hourlyCents int64, freeMinutes int, maxDailyCents int64) (*billing.RateSnapshot, error)
}

type rateUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewRateUseCase(uow shared.UnitOfWork, clk clock.Clock) RateCommands {
	return &rateUseCaseImpl{uow: uow, clock: clk}
}

func (u *rateUseCaseImpl) UpdateRate(ctx context.Context, hourlyCents int64, freeMinutes int, maxDailyCents int64) (*billing.RateSnapshot, error) {
	now := u.clock.Now()

	snapshot, err := billing.NewRateSnapshot(hourlyCents, freeMinutes, maxDailyCents, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRate)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Rates().SupersedeCurrent(ctx, now); err != nil {
			// First rate ever configured: nothing to supersede.
			if !infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		if err := tx.Rates().Insert(ctx, snapshot); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
