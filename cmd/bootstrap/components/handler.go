package components

import (
	"parkgate/internal/handler"
	"parkgate/internal/handler/api"
	"parkgate/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewDetectionHandler,
		api.NewSessionHandler,
		api.NewRateHandler,
		api.NewPaymentHandler,
		api.NewVehicleHandler,
		api.NewGateHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	detection *api.DetectionHandler,
	session *api.SessionHandler,
	rate *api.RateHandler,
	payment *api.PaymentHandler,
	vehicle *api.VehicleHandler,
	gate *api.GateHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:      auth,
		Detection: detection,
		Session:   session,
		Rate:      rate,
		Payment:   payment,
		Vehicle:   vehicle,
		Gate:      gate,
	}
}
