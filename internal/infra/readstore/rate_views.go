package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"gopkg.in/guregu/null.v4"
)

type RateReadStore struct {
	db db.DBTX
}

func NewRateReadStore(dbtx db.DBTX) *RateReadStore {
	return &RateReadStore{db: dbtx}
}

var _ queries.RateQueries = (*RateReadStore)(nil)

const rateViewSQL = `
SELECT id, hourly_cents, free_minutes, max_daily_cents, created_at, superseded_at
FROM rate_snapshots`

func (r *RateReadStore) Current(ctx context.Context) (*queries.RateView, error) {
	row := r.db.QueryRow(ctx, rateViewSQL+` WHERE superseded_at IS NULL`)

	var (
		v            queries.RateView
		supersededAt *time.Time
	)
	if err := row.Scan(&v.ID, &v.HourlyCents, &v.FreeMinutes, &v.MaxDailyCents,
		&v.CreatedAt, &supersededAt); err != nil {
		return nil, classify("failed to get current rate view", err)
	}
	v.SupersededAt = null.TimeFromPtr(supersededAt)
	return &v, nil
}

func (r *RateReadStore) History(ctx context.Context, limit int32) ([]*queries.RateView, error) {
	rows, err := r.db.Query(ctx, rateViewSQL+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, classify("failed to list rate history", err)
	}
	defer rows.Close()

	views := make([]*queries.RateView, 0)
	for rows.Next() {
		var (
			v            queries.RateView
			supersededAt *time.Time
		)
		if err := rows.Scan(&v.ID, &v.HourlyCents, &v.FreeMinutes, &v.MaxDailyCents,
			&v.CreatedAt, &supersededAt); err != nil {
			return nil, classify("failed to scan rate view", err)
		}
		v.SupersededAt = null.TimeFromPtr(supersededAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate rate history", err)
	}
	return views, nil
}
