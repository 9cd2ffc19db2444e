package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/health-simulator/docs"
	"github.com/blaisecz/health-simulator/internal/api/handler"
	"github.com/blaisecz/health-simulator/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	userHandler       *handler.VirtualUserHandler
	generationHandler *handler.GenerationHandler
	insightsHandler   *handler.InsightsHandler
	logger            *zap.Logger
}

func NewRouter(
	userHandler *handler.VirtualUserHandler,
	generationHandler *handler.GenerationHandler,
	insightsHandler *handler.InsightsHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		userHandler:       userHandler,
		generationHandler: generationHandler,
		insightsHandler:   insightsHandler,
		logger:            logger,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", rt.generationHandler.GenerateAll)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", rt.userHandler.Create)
			r.Get("/", rt.userHandler.List)

			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", rt.userHandler.GetByID)
				r.Delete("/", rt.userHandler.Delete)
				r.Get("/profile", rt.userHandler.GetProfile)

				r.Post("/generate", rt.generationHandler.Generate)
				r.Get("/sleep", rt.generationHandler.ListSleep)
				r.Get("/steps", rt.generationHandler.ListSteps)
				r.Get("/steps/{date}/increments", rt.generationHandler.GetIncrements)

				r.Get("/insights", rt.insightsHandler.GetInsights)
			})
		})
	})

	return r
}
