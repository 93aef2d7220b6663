package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"jewel-shop/internal/config"
	"jewel-shop/internal/gateway"
	"jewel-shop/internal/identity"
	custommiddleware "jewel-shop/internal/middleware"
	"jewel-shop/internal/repository"
	"jewel-shop/internal/service"
	"jewel-shop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Redis backs the auth-route rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// External collaborators
	razorpayGateway := gateway.NewRazorpayGateway(cfg.Razorpay, logger)
	googleVerifier := identity.NewGoogleVerifier(cfg.Google.ClientID)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, addressRepo, googleVerifier, cfg.JWT.Secret)
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	paymentService := service.NewPaymentService(orderService, orderRepo, razorpayGateway, cfg.Razorpay, logger)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	paymentHandler := transport.NewPaymentHandler(paymentService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	rateLimitMiddleware := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware, rateLimitMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	paymentHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
