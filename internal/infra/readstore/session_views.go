package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type SessionReadStore struct {
	db db.DBTX
}

func NewSessionReadStore(dbtx db.DBTX) *SessionReadStore {
	return &SessionReadStore{db: dbtx}
}

var _ queries.SessionQueries = (*SessionReadStore)(nil)

func (r *SessionReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.SessionView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, plate, rate_id, status, payment_state,
		        entry_time, exit_time, entry_gate_id, exit_gate_id,
		        entry_image_ref, exit_image_ref, fee_cents, extension_minutes,
		        created_at, updated_at
		 FROM sessions WHERE id = $1`, id)

	var (
		v             queries.SessionView
		exitTime      *time.Time
		exitGateID    *string
		entryImageRef string
		exitImageRef  *string
		feeCents      *int64
	)
	err := row.Scan(&v.ID, &v.Plate, &v.RateID, &v.Status, &v.PaymentState,
		&v.EntryTime, &exitTime, &v.EntryGateID, &exitGateID,
		&entryImageRef, &exitImageRef, &feeCents, &v.ExtensionMinutes,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, classify("failed to get session view", err)
	}

	v.ExitTime = null.TimeFromPtr(exitTime)
	v.ExitGateID = null.StringFromPtr(exitGateID)
	v.EntryImageRef = null.NewString(entryImageRef, entryImageRef != "")
	v.ExitImageRef = null.StringFromPtr(exitImageRef)
	v.FeeCents = null.IntFromPtr(feeCents)
	return &v, nil
}

const sessionListSQL = `
SELECT id, plate, status, payment_state, entry_time, exit_time, fee_cents
FROM sessions`

func (r *SessionReadStore) ListActive(ctx context.Context, limit int32) ([]*queries.SessionListItem, error) {
	rows, err := r.db.Query(ctx,
		sessionListSQL+` WHERE status <> 'closed' ORDER BY entry_time DESC LIMIT $1`, limit)
	if err != nil {
		return nil, classify("failed to list active sessions", err)
	}
	defer rows.Close()
	return collectSessionItems(rows)
}

func (r *SessionReadStore) HistoryByPlate(ctx context.Context, plate string, limit int32) ([]*queries.SessionListItem, error) {
	rows, err := r.db.Query(ctx,
		sessionListSQL+` WHERE plate = $1 ORDER BY entry_time DESC LIMIT $2`, plate, limit)
	if err != nil {
		return nil, classify("failed to list session history", err)
	}
	defer rows.Close()
	return collectSessionItems(rows)
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectSessionItems(rows rowsScanner) ([]*queries.SessionListItem, error) {
	items := make([]*queries.SessionListItem, 0)
	for rows.Next() {
		var (
			item     queries.SessionListItem
			exitTime *time.Time
			feeCents *int64
		)
		if err := rows.Scan(&item.ID, &item.Plate, &item.Status, &item.PaymentState,
			&item.EntryTime, &exitTime, &feeCents); err != nil {
			return nil, classify("failed to scan session list item", err)
		}
		item.ExitTime = null.TimeFromPtr(exitTime)
		item.FeeCents = null.IntFromPtr(feeCents)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate session list", err)
	}
	return items, nil
}
