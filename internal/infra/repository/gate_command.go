package repository

import (
	"context"

	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
)

type GateCommandRepository struct {
	db db.DBTX
}

func NewGateCommandRepository(dbtx db.DBTX) *GateCommandRepository {
	return &GateCommandRepository{db: dbtx}
}

const insertGateCommandSQL = `
INSERT INTO gate_commands (
	id, request_id, session_id, gate_id, action, reason,
	status, attempts, issued_at, settled_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (r *GateCommandRepository) Create(ctx context.Context, c *gatecmd.Command) error {
	_, err := r.db.Exec(ctx, insertGateCommandSQL,
		c.ID(), c.RequestID(), c.SessionID(), c.GateID(), string(c.Action()), c.Reason(),
		string(c.Status()), c.Attempts(), c.IssuedAt(), c.SettledAt(),
	)
	if err != nil {
		return classify("failed to create gate command", err)
	}
	return nil
}

const updateGateCommandSQL = `
UPDATE gate_commands SET status = $2, attempts = $3, settled_at = $4
WHERE id = $1`

func (r *GateCommandRepository) Update(ctx context.Context, c *gatecmd.Command) error {
	tag, err := r.db.Exec(ctx, updateGateCommandSQL,
		c.ID(), string(c.Status()), c.Attempts(), c.SettledAt(),
	)
	if err != nil {
		return classify("failed to update gate command", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "gate command not found for update", nil)
	}
	return nil
}
