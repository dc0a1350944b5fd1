package queries

import (
	"context"

	"github.com/google/uuid"
)

type SessionQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
	ListActive(ctx context.Context, limit int32) ([]*SessionListItem, error)
	HistoryByPlate(ctx context.Context, plate string, limit int32) ([]*SessionListItem, error)
}

type RateQueries interface {
	Current(ctx context.Context) (*RateView, error)
	History(ctx context.Context, limit int32) ([]*RateView, error)
}

type PaymentQueries interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*PaymentAttemptView, error)
}

type GateQueries interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*GateCommandView, error)
	ListRecent(ctx context.Context, limit int32) ([]*GateCommandView, error)
}

type VehicleQueries interface {
	GetByPlate(ctx context.Context, plate string) (*VehicleView, error)
}

type OperatorQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OperatorView, error)
}
