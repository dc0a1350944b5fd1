package components

import (
	"parkgate/internal/infra/db"
	"parkgate/internal/infra/readstore"
	"parkgate/internal/infra/uow"
	"parkgate/internal/usecase/queries"
	"parkgate/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewSessionReadStore,
			fx.As(new(queries.SessionQueries)),
		),
		fx.Annotate(
			readstore.NewRateReadStore,
			fx.As(new(queries.RateQueries)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentQueries)),
		),
		fx.Annotate(
			readstore.NewGateReadStore,
			fx.As(new(queries.GateQueries)),
		),
		fx.Annotate(
			readstore.NewVehicleReadStore,
			fx.As(new(queries.VehicleQueries)),
		),
		fx.Annotate(
			readstore.NewOperatorReadStore,
			fx.As(new(queries.OperatorQueries)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
