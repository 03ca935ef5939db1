package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"localshop/internal/config"
	"localshop/internal/database"
	"localshop/internal/metrics"
	custommiddleware "localshop/internal/middleware"
	"localshop/internal/pricing"
	"localshop/internal/repository"
	"localshop/internal/service"
	"localshop/internal/transport"
)

// Dependencies are the resources the server is built over. DB and Redis are
// optional: a nil DB means the repositories live in memory and a nil Redis
// client falls back to a per-process rate limiter.
type Dependencies struct {
	Repos *repository.Repositories
	DB    database.Service
	Redis *redis.Client
}

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	deps    Dependencies
	metrics *metrics.Metrics
	stop    context.CancelFunc
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	ctx, stop := context.WithCancel(context.Background())

	s := &Server{
		config:  cfg,
		logger:  logger,
		deps:    deps,
		metrics: metrics.New(),
		stop:    stop,
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes(ctx context.Context) http.Handler {
	cfg := s.config
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(s.metrics.Middleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", s.health)
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	repos := s.deps.Repos
	calc := pricing.NewCalculator(cfg.Pricing.TaxRate)

	userService := service.NewUserService(repos.Users, repos.RefreshTokens, service.TokenConfig{
		Secret:        cfg.JWT.Secret,
		AccessExpiry:  cfg.JWT.AccessTTL(),
		RefreshExpiry: cfg.JWT.RefreshTTL(),
	})
	productService := service.NewProductService(repos.Products)
	customerService := service.NewCustomerService(repos.Customers)
	orderService := service.NewOrderService(repos.Orders, repos.Products, repos.Customers, calc, s.metrics)
	inventoryService := service.NewInventoryService(repos.Sales, s.metrics)
	reportService := service.NewReportService(repos)

	authMiddleware := custommiddleware.AuthMiddleware(userService, s.logger)

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimitMiddleware(s.limiter(ctx), s.rateLimitConfig(), s.logger))

		transport.NewUserHandler(userService, !cfg.IsDevelopment(), s.logger).RegisterRoutes(r, authMiddleware)
		transport.NewProductHandler(productService, s.logger).RegisterRoutes(r)
		transport.NewCustomerHandler(customerService, s.logger).RegisterRoutes(r)
		transport.NewOrderHandler(orderService, s.logger).RegisterRoutes(r)
		transport.NewSaleHandler(inventoryService, s.logger).RegisterRoutes(r, authMiddleware)
		transport.NewReportHandler(reportService, s.logger).RegisterRoutes(r, authMiddleware)
	})

	return router
}

func (s *Server) rateLimitConfig() custommiddleware.RateLimitConfig {
	return custommiddleware.RateLimitConfig{
		RequestsPerWindow: s.config.RateLimit.Requests,
		Window:            s.config.RateLimit.Window,
		KeyPrefix:         "localshop:ratelimit",
	}
}

// limiter shares the budget through Redis when available
func (s *Server) limiter(ctx context.Context) custommiddleware.Limiter {
	if s.deps.Redis != nil {
		return custommiddleware.NewRedisLimiter(s.deps.Redis, s.rateLimitConfig())
	}

	s.logger.Info("Redis not configured, rate limiting per process")
	local := custommiddleware.NewLocalLimiter(s.rateLimitConfig())
	local.StartCleanup(ctx, s.config.RateLimit.Window)
	return local
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status":  "ok",
		"storage": s.config.Storage.Driver,
	}

	if s.deps.DB != nil {
		dbHealth := s.deps.DB.Health()
		body["database"] = dbHealth
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}

	if s.deps.Redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
			body["redis"] = "down"
		} else {
			body["redis"] = "up"
		}
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")
	s.stop()

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
