package repository

import (
	"context"

	"parkgate/internal/domain/session"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
)

type SessionRepository struct {
	db db.DBTX
}

func NewSessionRepository(dbtx db.DBTX) *SessionRepository {
	return &SessionRepository{db: dbtx}
}

const insertSessionSQL = `
INSERT INTO sessions (
	id, plate, rate_id, status, payment_state,
	entry_time, exit_time, entry_gate_id, exit_gate_id,
	entry_image_ref, exit_image_ref, fee_cents, extension_minutes,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, err := r.db.Exec(ctx, insertSessionSQL,
		s.ID(), s.Plate(), s.RateID(), string(s.Status()), string(s.PaymentState()),
		s.EntryTime(), s.ExitTime(), s.EntryGateID(), s.ExitGateID(),
		s.EntryImageRef(), s.ExitImageRef(), s.FeeCents(), s.ExtensionMinutes(),
		s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		return classify("failed to create session", err)
	}
	return nil
}

// The status guard makes the update a compare-and-set: a concurrent writer
// that already transitioned the row (another instance closing the same
// session) leaves zero rows affected here instead of silently losing a write.
const updateSessionSQL = `
UPDATE sessions SET
	status = $2, payment_state = $3, exit_time = $4, exit_gate_id = $5,
	exit_image_ref = $6, fee_cents = $7, extension_minutes = $8, updated_at = $9
WHERE id = $1 AND status = $10`

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	tag, err := r.db.Exec(ctx, updateSessionSQL,
		s.ID(), string(s.Status()), string(s.PaymentState()), s.ExitTime(), s.ExitGateID(),
		s.ExitImageRef(), s.FeeCents(), s.ExtensionMinutes(), s.UpdatedAt(),
		string(s.StoredStatus()),
	)
	if err != nil {
		return classify("failed to update session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "session was updated concurrently", nil)
	}
	return nil
}
