package repository

import (
	"context"

	"parkgate/internal/domain/payment"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

const insertAttemptSQL = `
INSERT INTO payment_attempts (
	id, session_id, amount_cents, idempotency_key, gateway_ref, status,
	requested_at, settled_at, failure_reason
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *PaymentRepository) CreateAttempt(ctx context.Context, a *payment.Attempt) error {
	_, err := r.db.Exec(ctx, insertAttemptSQL,
		a.ID(), a.SessionID(), a.AmountCents(), a.IdempotencyKey(), a.GatewayRef(), string(a.Status()),
		a.RequestedAt(), a.SettledAt(), a.FailureReason(),
	)
	if err != nil {
		return classify("failed to create payment attempt", err)
	}
	return nil
}

const updateAttemptSQL = `
UPDATE payment_attempts SET status = $2, gateway_ref = $3, settled_at = $4, failure_reason = $5
WHERE id = $1`

func (r *PaymentRepository) UpdateAttempt(ctx context.Context, a *payment.Attempt) error {
	tag, err := r.db.Exec(ctx, updateAttemptSQL,
		a.ID(), string(a.Status()), a.GatewayRef(), a.SettledAt(), a.FailureReason(),
	)
	if err != nil {
		return classify("failed to update payment attempt", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "payment attempt not found for update", nil)
	}
	return nil
}
