package request

type RegisterVehicleRequest struct {
	Plate        string `json:"plate" binding:"required"`
	OwnerName    string `json:"owner_name" binding:"required"`
	OwnerContact string `json:"owner_contact,omitempty"`
}

type UpdateVehicleOwnerRequest struct {
	OwnerName    string `json:"owner_name" binding:"required"`
	OwnerContact string `json:"owner_contact,omitempty"`
}
