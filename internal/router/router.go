package router

import (
	"log"
	"net/http"

	"github.com/dinepos/api/internal/auth"
	"github.com/dinepos/api/internal/config"
	"github.com/dinepos/api/internal/database"
	"github.com/dinepos/api/internal/enum"
	"github.com/dinepos/api/internal/handler"
	mw "github.com/dinepos/api/internal/middleware"
	"github.com/dinepos/api/internal/service"
	"github.com/dinepos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication, outlet scoping, rate limiting and idempotency as needed.
func New(cfg *config.Config, db *sqlx.DB, hub *ws.Hub, limiter *mw.OutletRateLimiter) chi.Router {
	queries := database.New(db)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Link", "X-Idempotency-Replayed", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret, cfg.ReauthTTL)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/outlets/{oid}/tables", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(
		db,
		service.DefaultOrderStore(db),
		service.DefaultOrderStore,
		auth.ProofVerifier(cfg.JWTSecret),
		hub,
	)
	dayEndService := service.NewDayEndService(
		db,
		service.DefaultDayEndStore(db),
		service.DefaultDayEndStore,
		hub,
	)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		authHandler.RegisterProtectedRoutes(r)

		r.Route("/outlets/{oid}", func(r chi.Router) {
			r.Use(mw.RequireOutlet)
			r.Use(limiter.Middleware)
			r.Use(mw.Idempotency(queries))

			handler.NewMasterHandler(queries).RegisterRoutes(r)
			handler.NewCustomerHandler(queries).RegisterRoutes(r)
			handler.NewOrderHandler(orderService).RegisterRoutes(r)
			handler.NewPrintHandler(queries, orderService).RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleOwner, enum.UserRoleManager, enum.UserRoleCashier))
				handler.NewDayEndHandler(dayEndService).RegisterRoutes(r)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
