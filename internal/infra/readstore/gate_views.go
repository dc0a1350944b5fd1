package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type GateReadStore struct {
	db db.DBTX
}

func NewGateReadStore(dbtx db.DBTX) *GateReadStore {
	return &GateReadStore{db: dbtx}
}

var _ queries.GateQueries = (*GateReadStore)(nil)

const gateCommandViewSQL = `
SELECT id, request_id, session_id, gate_id, action, reason,
       status, attempts, issued_at, settled_at
FROM gate_commands`

func (r *GateReadStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*queries.GateCommandView, error) {
	rows, err := r.db.Query(ctx,
		gateCommandViewSQL+` WHERE session_id = $1 ORDER BY issued_at DESC`, sessionID)
	if err != nil {
		return nil, classify("failed to list gate commands for session", err)
	}
	defer rows.Close()
	return collectGateCommandViews(rows)
}

func (r *GateReadStore) ListRecent(ctx context.Context, limit int32) ([]*queries.GateCommandView, error) {
	rows, err := r.db.Query(ctx,
		gateCommandViewSQL+` ORDER BY issued_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, classify("failed to list recent gate commands", err)
	}
	defer rows.Close()
	return collectGateCommandViews(rows)
}

func collectGateCommandViews(rows rowsScanner) ([]*queries.GateCommandView, error) {
	views := make([]*queries.GateCommandView, 0)
	for rows.Next() {
		var (
			v         queries.GateCommandView
			settledAt *time.Time
		)
		if err := rows.Scan(&v.ID, &v.RequestID, &v.SessionID, &v.GateID, &v.Action,
			&v.Reason, &v.Status, &v.Attempts, &v.IssuedAt, &settledAt); err != nil {
			return nil, classify("failed to scan gate command view", err)
		}
		v.SettledAt = null.TimeFromPtr(settledAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate gate commands", err)
	}
	return views, nil
}
