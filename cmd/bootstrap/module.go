package bootstrap

import (
	"parkgate/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	AWSModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.GatewayModule,
	components.HandlerModule,
)
