package response

import (
	"time"

	"parkgate/internal/domain/session"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gopkg.in/guregu/null.v4"
)

type SessionResponse struct {
	ID               uuid.UUID   `json:"id"`
	Plate            string      `json:"plate"`
	RateID           uuid.UUID   `json:"rateId"`
	Status           string      `json:"status"`
	PaymentState     string      `json:"paymentState"`
	EntryTime        time.Time   `json:"entryTime"`
	ExitTime         null.Time   `json:"exitTime"`
	EntryGateID      string      `json:"entryGateId"`
	ExitGateID       null.String `json:"exitGateId"`
	FeeCents         null.Int    `json:"feeCents"`
	ExtensionMinutes int         `json:"extensionMinutes"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type SessionListResponse struct {
	ID           uuid.UUID `json:"id"`
	Plate        string    `json:"plate"`
	Status       string    `json:"status"`
	PaymentState string    `json:"paymentState"`
	EntryTime    time.Time `json:"entryTime"`
	ExitTime     null.Time `json:"exitTime"`
	FeeCents     null.Int  `json:"feeCents"`
}

type GateDecisionResponse struct {
	GateID    string `json:"gateId"`
	Action    string `json:"action"`
	RequestID string `json:"requestId,omitempty"`
	Attempts  int    `json:"attempts"`
	Delivered bool   `json:"delivered"`
}

func FromSessionView(view *queries.SessionView) *SessionResponse {
	var resp SessionResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromSessionListItem(item *queries.SessionListItem) *SessionListResponse {
	var resp SessionListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromSession(s *session.Session) *SessionResponse {
	return &SessionResponse{
		ID:               s.ID(),
		Plate:            s.Plate(),
		RateID:           s.RateID(),
		Status:           string(s.Status()),
		PaymentState:     string(s.PaymentState()),
		EntryTime:        s.EntryTime(),
		ExitTime:         null.TimeFromPtr(s.ExitTime()),
		EntryGateID:      s.EntryGateID(),
		ExitGateID:       null.StringFromPtr(s.ExitGateID()),
		FeeCents:         null.IntFromPtr(s.FeeCents()),
		ExtensionMinutes: s.ExtensionMinutes(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

func FromGateDecision(g *commands.GateDecision) *GateDecisionResponse {
	if g == nil {
		return nil
	}
	return &GateDecisionResponse{
		GateID:    g.GateID,
		Action:    string(g.Action),
		RequestID: g.RequestID,
		Attempts:  g.Attempts,
		Delivered: g.Delivered,
	}
}
