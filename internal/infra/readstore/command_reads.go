package readstore

import (
	"context"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/payment"
	"parkgate/internal/domain/session"
	"parkgate/internal/domain/vehicle"
	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

// CommandReads rehydrates domain entities for the write side. Everything
// returned here goes through the reconstruct constructors so invariants sit
// in one place.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

var _ shared.CommandReads = (*CommandReads)(nil)

const sessionColumns = `
	id, plate, rate_id, status, payment_state,
	entry_time, exit_time, entry_gate_id, exit_gate_id,
	entry_image_ref, exit_image_ref, fee_cents, extension_minutes,
	created_at, updated_at`

func (r *CommandReads) ActiveSessionByPlate(ctx context.Context, plate string) (*session.Session, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+sessionColumns+` FROM sessions WHERE plate = $1 AND status <> 'closed'`, plate)
	s, err := scanSession(row)
	if err != nil {
		return nil, classify("failed to find active session by plate", err)
	}
	return s, nil
}

func (r *CommandReads) SessionByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+sessionColumns+` FROM sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, classify("failed to find session by id", err)
	}
	return s, nil
}

func (r *CommandReads) CurrentRate(ctx context.Context) (*billing.RateSnapshot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, hourly_cents, free_minutes, max_daily_cents, created_at, superseded_at
		 FROM rate_snapshots WHERE superseded_at IS NULL`)
	rate, err := scanRate(row)
	if err != nil {
		return nil, classify("failed to find current rate", err)
	}
	return rate, nil
}

func (r *CommandReads) RateByID(ctx context.Context, id uuid.UUID) (*billing.RateSnapshot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, hourly_cents, free_minutes, max_daily_cents, created_at, superseded_at
		 FROM rate_snapshots WHERE id = $1`, id)
	rate, err := scanRate(row)
	if err != nil {
		return nil, classify("failed to find rate by id", err)
	}
	return rate, nil
}

const attemptColumns = `
	id, session_id, amount_cents, idempotency_key, gateway_ref, status,
	requested_at, settled_at, failure_reason`

func (r *CommandReads) AttemptByKey(ctx context.Context, idempotencyKey string) (*payment.Attempt, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+attemptColumns+`
		 FROM payment_attempts WHERE idempotency_key = $1
		 ORDER BY requested_at DESC LIMIT 1`, idempotencyKey)
	a, err := scanAttempt(row)
	if err != nil {
		return nil, classify("failed to find payment attempt by key", err)
	}
	return a, nil
}

// LatestRequestedAttemptBySession finds the outstanding charge for a session
// regardless of which fee it was derived from, so a provider callback still
// lands after an extension revised the fee (and with it the idempotency key).
func (r *CommandReads) LatestRequestedAttemptBySession(ctx context.Context, sessionID uuid.UUID) (*payment.Attempt, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+attemptColumns+`
		 FROM payment_attempts WHERE session_id = $1 AND status = 'requested'
		 ORDER BY requested_at DESC LIMIT 1`, sessionID)
	a, err := scanAttempt(row)
	if err != nil {
		return nil, classify("failed to find requested payment attempt", err)
	}
	return a, nil
}

func scanAttempt(row rowScanner) (*payment.Attempt, error) {
	var (
		id, sessionID uuid.UUID
		amountCents   int64
		key, status   string
		gatewayRef    *string
		requestedAt   time.Time
		settledAt     *time.Time
		failureReason *string
	)
	if err := row.Scan(&id, &sessionID, &amountCents, &key, &gatewayRef, &status,
		&requestedAt, &settledAt, &failureReason); err != nil {
		return nil, err
	}

	return payment.ReconstructAttempt(
		id, sessionID, amountCents, key, gatewayRef, payment.Status(status),
		requestedAt, settledAt, failureReason,
	), nil
}

func (r *CommandReads) CommandByRequestID(ctx context.Context, requestID string) (*gatecmd.Command, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, request_id, session_id, gate_id, action, reason,
		        status, attempts, issued_at, settled_at
		 FROM gate_commands WHERE request_id = $1`, requestID)

	var (
		id, sessionID  uuid.UUID
		reqID, gateID  string
		action, reason string
		status         string
		attempts       int
		issuedAt       time.Time
		settledAt      *time.Time
	)
	if err := row.Scan(&id, &reqID, &sessionID, &gateID, &action, &reason,
		&status, &attempts, &issuedAt, &settledAt); err != nil {
		return nil, classify("failed to find gate command by request id", err)
	}

	return gatecmd.ReconstructCommand(
		id, reqID, sessionID, gateID, gatecmd.Action(action), reason,
		gatecmd.Status(status), attempts, issuedAt, settledAt,
	), nil
}

func (r *CommandReads) VehicleByPlate(ctx context.Context, plate string) (*vehicle.Vehicle, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, plate, owner_name, owner_contact, active, registered_at, updated_at
		 FROM vehicles WHERE plate = $1 AND active`, plate)

	var (
		id                          uuid.UUID
		pl, ownerName, ownerContact string
		active                      bool
		registeredAt, updatedAt     time.Time
	)
	if err := row.Scan(&id, &pl, &ownerName, &ownerContact, &active, &registeredAt, &updatedAt); err != nil {
		return nil, classify("failed to find vehicle by plate", err)
	}

	return vehicle.ReconstructVehicle(id, pl, ownerName, ownerContact, active, registeredAt, updatedAt), nil
}

func (r *CommandReads) OperatorByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at
		 FROM operators WHERE email = $1`, email)
	return scanOperator(row)
}

func (r *CommandReads) OperatorByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at
		 FROM operators WHERE id = $1`, id)
	return scanOperator(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		id, rateID              uuid.UUID
		plate, status, payState string
		entryTime               time.Time
		exitTime                *time.Time
		entryGateID             string
		exitGateID              *string
		entryImageRef           string
		exitImageRef            *string
		feeCents                *int64
		extensionMinutes        int
		createdAt, updatedAt    time.Time
	)
	if err := row.Scan(&id, &plate, &rateID, &status, &payState,
		&entryTime, &exitTime, &entryGateID, &exitGateID,
		&entryImageRef, &exitImageRef, &feeCents, &extensionMinutes,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return session.ReconstructSession(
		id, plate, rateID, entryTime, exitTime,
		entryGateID, exitGateID, entryImageRef, exitImageRef,
		feeCents, session.PaymentState(payState), extensionMinutes,
		session.Status(status), createdAt, updatedAt,
	), nil
}

func scanRate(row rowScanner) (*billing.RateSnapshot, error) {
	var (
		id            uuid.UUID
		hourlyCents   int64
		freeMinutes   int
		maxDailyCents int64
		createdAt     time.Time
		supersededAt  *time.Time
	)
	if err := row.Scan(&id, &hourlyCents, &freeMinutes, &maxDailyCents, &createdAt, &supersededAt); err != nil {
		return nil, err
	}
	return billing.ReconstructRateSnapshot(id, hourlyCents, freeMinutes, maxDailyCents, createdAt, supersededAt), nil
}

func scanOperator(row rowScanner) (*operator.Operator, error) {
	var (
		id          uuid.UUID
		email, hash string
		role        string
		createdAt   time.Time
	)
	if err := row.Scan(&id, &email, &hash, &role, &createdAt); err != nil {
		return nil, classify("failed to find operator", err)
	}

	addr, err := operator.NewEmail(email)
	if err != nil {
		return nil, classify("stored operator email is invalid", err)
	}
	return operator.ReconstructOperator(id, addr, hash, operator.Role(role), createdAt), nil
}
