package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(dbtx db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: dbtx}
}

var _ queries.VehicleQueries = (*VehicleReadStore)(nil)

func (r *VehicleReadStore) GetByPlate(ctx context.Context, plate string) (*queries.VehicleView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, plate, owner_name, owner_contact, active, registered_at, updated_at
		 FROM vehicles WHERE plate = $1 AND active`, plate)

	var v queries.VehicleView
	if err := row.Scan(&v.ID, &v.Plate, &v.OwnerName, &v.OwnerContact,
		&v.Active, &v.RegisteredAt, &v.UpdatedAt); err != nil {
		return nil, classify("failed to get vehicle view", err)
	}
	return &v, nil
}

type OperatorReadStore struct {
	db db.DBTX
}

func NewOperatorReadStore(dbtx db.DBTX) *OperatorReadStore {
	return &OperatorReadStore{db: dbtx}
}

var _ queries.OperatorQueries = (*OperatorReadStore)(nil)

func (r *OperatorReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.OperatorView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, role, created_at, last_login
		 FROM operators WHERE id = $1`, id)

	var (
		v         queries.OperatorView
		lastLogin *time.Time
	)
	if err := row.Scan(&v.ID, &v.Email, &v.Role, &v.CreatedAt, &lastLogin); err != nil {
		return nil, classify("failed to get operator view", err)
	}
	v.LastLogin = null.TimeFromPtr(lastLogin)
	return &v, nil
}
