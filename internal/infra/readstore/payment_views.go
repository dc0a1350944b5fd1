package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

var _ queries.PaymentQueries = (*PaymentReadStore)(nil)

func (r *PaymentReadStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*queries.PaymentAttemptView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, amount_cents, idempotency_key, gateway_ref, status,
		        requested_at, settled_at, failure_reason
		 FROM payment_attempts WHERE session_id = $1
		 ORDER BY requested_at DESC`, sessionID)
	if err != nil {
		return nil, classify("failed to list payment attempts", err)
	}
	defer rows.Close()

	views := make([]*queries.PaymentAttemptView, 0)
	for rows.Next() {
		var (
			v             queries.PaymentAttemptView
			gatewayRef    *string
			settledAt     *time.Time
			failureReason *string
		)
		if err := rows.Scan(&v.ID, &v.SessionID, &v.AmountCents, &v.IdempotencyKey,
			&gatewayRef, &v.Status, &v.RequestedAt, &settledAt, &failureReason); err != nil {
			return nil, classify("failed to scan payment attempt view", err)
		}
		v.GatewayRef = null.StringFromPtr(gatewayRef)
		v.SettledAt = null.TimeFromPtr(settledAt)
		v.FailureReason = null.StringFromPtr(failureReason)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate payment attempts", err)
	}
	return views, nil
}
