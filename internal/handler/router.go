package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"parkgate/internal/domain/operator"
	"parkgate/internal/handler/api"
	"parkgate/internal/handler/middleware"
	"parkgate/internal/handler/ws"
	"parkgate/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth      *api.AuthHandler
	Detection *api.DetectionHandler
	Session   *api.SessionHandler
	Rate      *api.RateHandler
	Payment   *api.PaymentHandler
	Vehicle   *api.VehicleHandler
	Gate      *api.GateHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, hub *ws.Hub, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, hub, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, hub *ws.Hub, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
				{
					Method: http.MethodPost, Path: "/operators", Handler: h.Auth.RegisterOperator,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(operator.RoleAdmin)},
				},
			})
		}

		detections := apiGroup.Group("/detections")
		detections.Use(authMiddleware.RequireAuth())
		{
			addRoutes(detections, []route{
				{
					Method: http.MethodPost, Path: "", Handler: h.Detection.Ingest,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(operator.RoleOperator)},
				},
			})
		}

		sessions := apiGroup.Group("/sessions")
		sessions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(sessions, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Session.ListActive},
				{Method: http.MethodGet, Path: "/history/:plate", Handler: h.Session.HistoryByPlate},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Session.GetSession},
				{Method: http.MethodGet, Path: "/:id/payments", Handler: h.Session.ListPayments},
				{Method: http.MethodGet, Path: "/:id/gate-commands", Handler: h.Session.ListGateCommands},
				{
					Method: http.MethodPost, Path: "/:id/extension", Handler: h.Session.GrantExtension,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(operator.RoleOperator)},
				},
				{
					Method: http.MethodPost, Path: "/:id/force-close", Handler: h.Session.ForceClose,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(operator.RoleOperator)},
				},
			})
		}

		rates := apiGroup.Group("/rates")
		rates.Use(authMiddleware.RequireAuth())
		{
			addRoutes(rates, []route{
				{Method: http.MethodGet, Path: "/current", Handler: h.Rate.Current},
				{Method: http.MethodGet, Path: "", Handler: h.Rate.History},
				{
					Method: http.MethodPut, Path: "", Handler: h.Rate.Update,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(operator.RoleAdmin)},
				},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			// Webhooks are authenticated by the provider's idempotency keys
			// and network allow-listing, not operator tokens.
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/webhooks/confirmation", Handler: h.Payment.Confirm},
				{Method: http.MethodPost, Path: "/webhooks/failure", Handler: h.Payment.Fail},
			})

			paymentOps := payments.Group("")
			paymentOps.Use(authMiddleware.RequireAuth())
			addRoutes(paymentOps, []route{
				{Method: http.MethodPost, Path: "/sessions/:id/request", Handler: h.Payment.Request},
			})
		}

		vehicles := apiGroup.Group("/vehicles")
		vehicles.Use(authMiddleware.RequireAuth())
		vehicles.Use(authMiddleware.RequireRoleAtLeast(operator.RoleOperator))
		{
			addRoutes(vehicles, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Vehicle.Register},
				{Method: http.MethodGet, Path: "/:plate", Handler: h.Vehicle.GetByPlate},
				{Method: http.MethodPut, Path: "/:plate", Handler: h.Vehicle.UpdateOwner},
				{Method: http.MethodDelete, Path: "/:plate", Handler: h.Vehicle.Deactivate},
			})
		}

		gates := apiGroup.Group("/gate-commands")
		gates.Use(authMiddleware.RequireAuth())
		{
			addRoutes(gates, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Gate.ListRecent},
			})
		}

		alerts := apiGroup.Group("/alerts")
		alerts.Use(authMiddleware.RequireAuth())
		{
			addRoutes(alerts, []route{
				{Method: http.MethodGet, Path: "/ws", Handler: hub.Serve},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
