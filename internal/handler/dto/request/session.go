package request

type GrantExtensionRequest struct {
	Minutes int `json:"minutes" binding:"required,gt=0,lte=1440"`
}

type ForceCloseRequest struct {
	Reason string `json:"reason" binding:"required"`
}
