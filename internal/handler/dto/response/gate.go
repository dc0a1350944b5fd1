package response

import (
	"time"

	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gopkg.in/guregu/null.v4"
)

type GateCommandResponse struct {
	ID        uuid.UUID `json:"id"`
	RequestID string    `json:"requestId"`
	SessionID uuid.UUID `json:"sessionId"`
	GateID    string    `json:"gateId"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	IssuedAt  time.Time `json:"issuedAt"`
	SettledAt null.Time `json:"settledAt"`
}

func FromGateCommandView(view *queries.GateCommandView) *GateCommandResponse {
	var resp GateCommandResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
