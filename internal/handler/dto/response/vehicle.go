package response

import (
	"time"

	"parkgate/internal/domain/vehicle"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type VehicleResponse struct {
	ID           uuid.UUID `json:"id"`
	Plate        string    `json:"plate"`
	OwnerName    string    `json:"ownerName"`
	OwnerContact string    `json:"ownerContact,omitempty"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromVehicleView(view *queries.VehicleView) *VehicleResponse {
	var resp VehicleResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromVehicle(v *vehicle.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:           v.ID(),
		Plate:        v.Plate(),
		OwnerName:    v.OwnerName(),
		OwnerContact: v.OwnerContact(),
		Active:       v.Active(),
		RegisteredAt: v.RegisteredAt(),
		UpdatedAt:    v.UpdatedAt(),
	}
}
