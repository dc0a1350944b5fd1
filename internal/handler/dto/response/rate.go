package response

import (
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gopkg.in/guregu/null.v4"
)

type RateResponse struct {
	ID            uuid.UUID `json:"id"`
	HourlyCents   int64     `json:"hourlyCents"`
	FreeMinutes   int       `json:"freeMinutes"`
	MaxDailyCents int64     `json:"maxDailyCents"`
	CreatedAt     time.Time `json:"createdAt"`
	SupersededAt  null.Time `json:"supersededAt"`
}

func FromRateView(view *queries.RateView) *RateResponse {
	var resp RateResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromRateSnapshot(r *billing.RateSnapshot) *RateResponse {
	return &RateResponse{
		ID:            r.ID(),
		HourlyCents:   r.HourlyCents(),
		FreeMinutes:   r.FreeMinutes(),
		MaxDailyCents: r.MaxDailyCents(),
		CreatedAt:     r.CreatedAt(),
		SupersededAt:  null.TimeFromPtr(r.SupersededAt()),
	}
}
