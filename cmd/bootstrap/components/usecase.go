package components

import (
	"parkgate/internal/domain/detection"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewDeduplicator,
		commands.NewSessionUseCase,
		commands.NewDetectionUseCase,
		commands.NewRateUseCase,
		commands.NewPaymentUseCase,
		commands.NewVehicleUseCase,
		commands.NewAuthUseCase,
	),
)

func NewDeduplicator(cfg config.Config, clk clock.Clock) *detection.Deduplicator {
	return detection.NewDeduplicator(cfg.Detection.MinConfidence, cfg.Detection.DebounceWindow, clk)
}
