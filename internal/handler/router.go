package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/handler/api"
	"fieldbook/internal/handler/middleware"
	"fieldbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	bookingHandler *api.BookingHandler,
	matchHandler *api.MatchHandler,
	walletHandler *api.WalletHandler,
	fieldHandler *api.FieldHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, bookingHandler, matchHandler, walletHandler, fieldHandler, webhookHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	matchHandler *api.MatchHandler,
	walletHandler *api.WalletHandler,
	fieldHandler *api.FieldHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)
	engine.POST("/webhooks/payments", webhookHandler.HandlePaymentEvent)

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListMyBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
			})
		}

		matches := apiGroup.Group("/matches")
		matches.Use(authMiddleware.RequireAuth())
		{
			addRoutes(matches, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: matchHandler.GetMatch},
				{Method: http.MethodPost, Path: "/:id/join", Handler: matchHandler.JoinMatch},
				{Method: http.MethodPost, Path: "/:id/leave", Handler: matchHandler.LeaveMatch},
			})
		}

		fields := apiGroup.Group("/fields")
		fields.Use(authMiddleware.RequireAuth())
		{
			addRoutes(fields, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: fieldHandler.GetAvailability},
				{Method: http.MethodGet, Path: "/:id/matches", Handler: matchHandler.ListFieldMatches},
			})
		}

		wallet := apiGroup.Group("/wallet")
		wallet.Use(authMiddleware.RequireAuth())
		{
			addRoutes(wallet, []route{
				{Method: http.MethodGet, Path: "", Handler: walletHandler.GetWallet},
				{Method: http.MethodGet, Path: "/transactions", Handler: walletHandler.ListTransactions},
				{Method: http.MethodPost, Path: "/deposit", Handler: walletHandler.Deposit},
			})
		}
	}
}

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
