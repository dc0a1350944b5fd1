package commands

import (
	"context"

	"parkgate/internal/domain/vehicle"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	plateutil "parkgate/internal/pkg/plate"
	"parkgate/internal/usecase/shared"
)

var ErrDuplicateVehicle = errs.New("vehicle already registered")

type VehicleCommands interface {
	Register(ctx context.Context, plate, ownerName, ownerContact string) (*vehicle.Vehicle, error)
	UpdateOwner(ctx context.Context, plate, ownerName, ownerContact string) (*vehicle.Vehicle, error)
	Deactivate(ctx context.Context, plate string) error
}

type vehicleUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewVehicleUseCase(uow shared.UnitOfWork, clk clock.Clock) VehicleCommands {
	return &vehicleUseCaseImpl{uow: uow, clock: clk}
}

func (u *vehicleUseCaseImpl) Register(ctx context.Context, plate, ownerName, ownerContact string) (*vehicle.Vehicle, error) {
	v, err := vehicle.NewVehicle(plate, ownerName, ownerContact, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPlate)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Vehicles().Create(ctx, v); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateVehicle)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (u *vehicleUseCaseImpl) UpdateOwner(ctx context.Context, plate, ownerName, ownerContact string) (*vehicle.Vehicle, error) {
	var v *vehicle.Vehicle
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		v, err = tx.Reads().VehicleByPlate(ctx, plateutil.Normalize(plate))
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrVehicleNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		v.UpdateOwner(ownerName, ownerContact, u.clock.Now())
		if err := tx.Vehicles().Update(ctx, v); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (u *vehicleUseCaseImpl) Deactivate(ctx context.Context, plate string) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := tx.Reads().VehicleByPlate(ctx, plateutil.Normalize(plate))
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrVehicleNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := v.Deactivate(u.clock.Now()); err != nil {
			// Already inactive; deactivation is idempotent.
			return nil
		}
		if err := tx.Vehicles().Update(ctx, v); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
