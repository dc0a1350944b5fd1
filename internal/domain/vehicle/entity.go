package vehicle

import (
	"errors"
	"time"

	"parkgate/internal/pkg/plate"

	"github.com/google/uuid"
)

var (
	ErrInvalidPlate       = errors.New("invalid plate")
	ErrAlreadyDeactivated = errors.New("vehicle registration already deactivated")
)

// Vehicle is a registered plate with owner contact details. Registration is
// optional for parking; it enables notifications and per-owner history.
type Vehicle struct {
	id           uuid.UUID
	plate        string
	ownerName    string
	ownerContact string
	active       bool
	registeredAt time.Time
	updatedAt    time.Time
}

func NewVehicle(rawPlate, ownerName, ownerContact string, now time.Time) (*Vehicle, error) {
	normalized := plate.Normalize(rawPlate)
	if !plate.IsValid(normalized) {
		return nil, ErrInvalidPlate
	}

	return &Vehicle{
		id:           uuid.New(),
		plate:        normalized,
		ownerName:    ownerName,
		ownerContact: ownerContact,
		active:       true,
		registeredAt: now,
		updatedAt:    now,
	}, nil
}

func ReconstructVehicle(id uuid.UUID, plate, ownerName, ownerContact string, active bool, registeredAt, updatedAt time.Time) *Vehicle {
	return &Vehicle{
		id:           id,
		plate:        plate,
		ownerName:    ownerName,
		ownerContact: ownerContact,
		active:       active,
		registeredAt: registeredAt,
		updatedAt:    updatedAt,
	}
}

func (v *Vehicle) Deactivate(now time.Time) error {
	if !v.active {
		return ErrAlreadyDeactivated
	}
	v.active = false
	v.updatedAt = now
	return nil
}

func (v *Vehicle) UpdateOwner(name, contact string, now time.Time) {
	v.ownerName = name
	v.ownerContact = contact
	v.updatedAt = now
}

func (v *Vehicle) ID() uuid.UUID           { return v.id }
func (v *Vehicle) Plate() string           { return v.plate }
func (v *Vehicle) OwnerName() string       { return v.ownerName }
func (v *Vehicle) OwnerContact() string    { return v.ownerContact }
func (v *Vehicle) Active() bool            { return v.active }
func (v *Vehicle) RegisteredAt() time.Time { return v.registeredAt }
func (v *Vehicle) UpdatedAt() time.Time    { return v.updatedAt }
