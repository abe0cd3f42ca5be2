package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/database"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/handler"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/logger"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/metrics"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/optimizer"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/pricecache"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/repository"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// Deps bundles the collaborators the router wires into handlers
type Deps struct {
	DBPool     database.Pool
	ItemRepo   repository.Item
	PriceRepo  repository.Price
	RecipeRepo repository.Recipe
	PriceCache *pricecache.Cache
	Optimizer  optimizer.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, deps Deps) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Item catalog routes
		r.Route("/items", func(r chi.Router) {
			r.Get("/", handler.HandleListItems(deps.ItemRepo))
			r.Post("/", handler.HandleCreateItem(deps.ItemRepo, deps.Optimizer))
			r.Post("/init", handler.HandleInitItems(deps.ItemRepo, deps.Optimizer))
			r.Delete("/{itemID}", handler.HandleDeleteItem(deps.ItemRepo, deps.Optimizer, deps.PriceCache))

			r.Route("/{itemID}/recipe", func(r chi.Router) {
				r.Get("/", handler.HandleGetRecipe(deps.ItemRepo, deps.RecipeRepo))
				r.Put("/", handler.HandleSetRecipe(deps.ItemRepo, deps.RecipeRepo, deps.Optimizer))
				r.Delete("/", handler.HandleDeleteRecipe(deps.ItemRepo, deps.RecipeRepo, deps.Optimizer))
			})
		})

		// Price routes
		r.Route("/prices", func(r chi.Router) {
			r.Post("/", handler.HandleUpsertPrice(deps.PriceRepo, deps.ItemRepo, deps.PriceCache))
			r.Get("/{cityName}", handler.HandleListPricesForCity(deps.PriceRepo))
			r.Get("/{cityName}/{itemName}", handler.HandleGetPrice(deps.PriceRepo, deps.ItemRepo))
			r.Delete("/{cityName}/{itemName}", handler.HandleDeletePrice(deps.PriceRepo, deps.ItemRepo, deps.PriceCache))
		})

		r.Get("/cities", handler.HandleListCities(deps.PriceRepo))

		// Recommendation routes
		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/farming", handler.HandleFarmingRecommendations(deps.Optimizer))
			r.Get("/crafting", handler.HandleCraftingRecommendations(deps.Optimizer))
			r.Get("/summary", handler.HandleOptimizationSummary(deps.Optimizer))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: deps.DBPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
