package shared

import (
	"context"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/payment"
	"parkgate/internal/domain/session"
	"parkgate/internal/domain/vehicle"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: direct access for validation reads outside transactions
	Reads() CommandReads
}

// Tx groups the write repositories bound to one database transaction.
type Tx interface {
	Sessions() SessionRepository
	Rates() RateRepository
	Payments() PaymentRepository
	GateCommands() GateCommandRepository
	Vehicles() VehicleRepository
	Operators() OperatorRepository
	Reads() CommandReads
}

type CommandReads interface {
	ActiveSessionByPlate(ctx context.Context, plate string) (*session.Session, error)
	SessionByID(ctx context.Context, id uuid.UUID) (*session.Session, error)
	CurrentRate(ctx context.Context) (*billing.RateSnapshot, error)
	RateByID(ctx context.Context, id uuid.UUID) (*billing.RateSnapshot, error)
	AttemptByKey(ctx context.Context, idempotencyKey string) (*payment.Attempt, error)
	LatestRequestedAttemptBySession(ctx context.Context, sessionID uuid.UUID) (*payment.Attempt, error)
	CommandByRequestID(ctx context.Context, requestID string) (*gatecmd.Command, error)
	VehicleByPlate(ctx context.Context, plate string) (*vehicle.Vehicle, error)
	OperatorByEmail(ctx context.Context, email string) (*operator.Operator, error)
	OperatorByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error)
}

type SessionRepository interface {
	// Create inserts an active session. The partial unique index on
	// (plate) for active rows makes a second insert fail with a
	// duplicate-key error, which is what enforces one active session per
	// plate under concurrency.
	Create(ctx context.Context, s *session.Session) error
	Update(ctx context.Context, s *session.Session) error
}

type RateRepository interface {
	Insert(ctx context.Context, r *billing.RateSnapshot) error
	SupersedeCurrent(ctx context.Context, at time.Time) error
}

type PaymentRepository interface {
	CreateAttempt(ctx context.Context, a *payment.Attempt) error
	UpdateAttempt(ctx context.Context, a *payment.Attempt) error
}

type GateCommandRepository interface {
	Create(ctx context.Context, c *gatecmd.Command) error
	Update(ctx context.Context, c *gatecmd.Command) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	Update(ctx context.Context, v *vehicle.Vehicle) error
}

type OperatorRepository interface {
	Create(ctx context.Context, o *operator.Operator) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
