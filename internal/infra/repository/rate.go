package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
)

type RateRepository struct {
	db db.DBTX
}

func NewRateRepository(dbtx db.DBTX) *RateRepository {
	return &RateRepository{db: dbtx}
}

const insertRateSQL = `
INSERT INTO rate_snapshots (id, hourly_cents, free_minutes, max_daily_cents, created_at, superseded_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *RateRepository) Insert(ctx context.Context, rate *billing.RateSnapshot) error {
	_, err := r.db.Exec(ctx, insertRateSQL,
		rate.ID(), rate.HourlyCents(), rate.FreeMinutes(), rate.MaxDailyCents(),
		rate.CreatedAt(), rate.SupersededAt(),
	)
	if err != nil {
		return classify("failed to insert rate snapshot", err)
	}
	return nil
}

const supersedeRateSQL = `
UPDATE rate_snapshots SET superseded_at = $1 WHERE superseded_at IS NULL`

func (r *RateRepository) SupersedeCurrent(ctx context.Context, at time.Time) error {
	tag, err := r.db.Exec(ctx, supersedeRateSQL, at)
	if err != nil {
		return classify("failed to supersede current rate", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "no current rate to supersede", nil)
	}
	return nil
}
