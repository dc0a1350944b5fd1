package repository

import (
	"context"

	"parkgate/internal/domain/vehicle"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(dbtx db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: dbtx}
}

const insertVehicleSQL = `
INSERT INTO vehicles (id, plate, owner_name, owner_contact, active, registered_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	_, err := r.db.Exec(ctx, insertVehicleSQL,
		v.ID(), v.Plate(), v.OwnerName(), v.OwnerContact(), v.Active(),
		v.RegisteredAt(), v.UpdatedAt(),
	)
	if err != nil {
		return classify("failed to create vehicle", err)
	}
	return nil
}

const updateVehicleSQL = `
UPDATE vehicles SET owner_name = $2, owner_contact = $3, active = $4, updated_at = $5
WHERE id = $1`

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	tag, err := r.db.Exec(ctx, updateVehicleSQL,
		v.ID(), v.OwnerName(), v.OwnerContact(), v.Active(), v.UpdatedAt(),
	)
	if err != nil {
		return classify("failed to update vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "vehicle not found for update", nil)
	}
	return nil
}
