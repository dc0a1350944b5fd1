package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type OperatorRepository struct {
	db db.DBTX
}

func NewOperatorRepository(dbtx db.DBTX) *OperatorRepository {
	return &OperatorRepository{db: dbtx}
}

const insertOperatorSQL = `
INSERT INTO operators (id, email, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, $5)`

func (r *OperatorRepository) Create(ctx context.Context, o *operator.Operator) error {
	_, err := r.db.Exec(ctx, insertOperatorSQL,
		o.ID(), o.Email().String(), o.PasswordHash(), o.Role().String(), o.CreatedAt(),
	)
	if err != nil {
		return classify("failed to create operator", err)
	}
	return nil
}

const updateLastLoginSQL = `UPDATE operators SET last_login = $2 WHERE id = $1`

func (r *OperatorRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, updateLastLoginSQL, id, at)
	if err != nil {
		return classify("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "operator not found for update", nil)
	}
	return nil
}
