package request

type UpdateRateRequest struct {
	HourlyCents   int64 `json:"hourly_cents" binding:"required,gt=0"`
	FreeMinutes   int   `json:"free_minutes" binding:"gte=0"`
	MaxDailyCents int64 `json:"max_daily_cents" binding:"required,gt=0"`
}
