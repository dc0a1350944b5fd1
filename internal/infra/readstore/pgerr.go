package readstore

import (
	"errors"

	"parkgate/internal/infra"

	"github.com/jackc/pgx/v5"
)

func classify(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.NewRepoErr(infra.KindNotFound, msg, err)
	}
	return infra.NewRepoErr(infra.KindDBFailure, msg, err)
}
