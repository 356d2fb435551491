// Package server
//
// @title JCE Consulta API
// @version 1.0
// @description Cédula lookup and token billing service API
// @host localhost:8080
// @BasePath /api/v1
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jce-consulta/cedula-cli/internal/auth"
	"github.com/jce-consulta/cedula-cli/internal/config"
	"github.com/jce-consulta/cedula-cli/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router      *gin.Engine
	db          *gorm.DB
	config      *config.Config
	logger      zerolog.Logger
	validator   *validator.Validate
	asynqClient *asynq.Client
	startedAt   time.Time
	version     string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Ensure the settings singleton exists and holds a JWT secret
	settings, err := ensureSettings(db, cfg)
	if err != nil {
		return nil, err
	}
	auth.InitializeJWT(settings.JWTSecret)

	// Initialize Asynq client for enqueueing tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	// Create server
	server := &Server{
		db:          db,
		config:      cfg,
		logger:      zlog,
		validator:   newValidator(),
		asynqClient: asynqClient,
		startedAt:   time.Now(),
		version:     version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// newValidator builds the request validator with the custom rules handlers
// rely on via `validate` struct tags.
func newValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, char := range value {
			if char < '0' || char > '9' {
				return false
			}
		}
		return value != ""
	})

	return validate
}

// ensureSettings loads the AppSettings singleton, creating it on first start.
// The JWT secret is persisted so tokens survive restarts; JWT_SECRET in the
// environment overrides the stored value.
func ensureSettings(db *gorm.DB, cfg *config.Config) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := db.First(&settings).Error
	if err == nil {
		if cfg.Auth.JWTSecret != "" {
			settings.JWTSecret = cfg.Auth.JWTSecret
		}
		if settings.JWTSecret == "" {
			secret, err := generateJWTSecret()
			if err != nil {
				return nil, err
			}
			settings.JWTSecret = secret
			if err := db.Save(&settings).Error; err != nil {
				return nil, fmt.Errorf("failed to persist JWT secret: %w", err)
			}
		}
		return &settings, nil
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = generateJWTSecret()
		if err != nil {
			return nil, err
		}
	}

	settings = models.AppSettings{
		SiteName:        "JCE Consulta",
		SiteDescription: "Consultas de cédulas de la República Dominicana",
		TokenPrice:      1.99,
		QueriesEnabled:  true,
		PaymentsEnabled: true,
		CleanupSchedule: "0 * * * *",
		JWTSecret:       secret,
	}
	if err := db.Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}

	return &settings, nil
}

func generateJWTSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8    // Reduced for SQLite efficiency
		maxIdleConns    = 4    // Reduced proportionally
		connMaxLifetime = 300  // 5 minutes
		busyTimeout     = 5000 // 5 seconds
		cacheSize       = 10000
	)

	// Open database connection
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool settings
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply SQLite pragmas directly (connection string pragmas may not work with all drivers)
	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api/v1")

	// Public endpoints (no auth required)
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/refresh", s.refresh)
	api.GET("/settings/public", s.getPublicSettings)
	api.GET("/settings/token-price", s.getTokenPrice)

	// Authenticated API routes (JWT required)
	authed := api.Group("")
	authed.Use(JWTAuthMiddleware(s.db, s.logger))
	{
		// Auth endpoints
		authed.GET("/auth/me", s.getCurrentUser)
		authed.GET("/auth/validate", s.validateSession)
		authed.POST("/auth/logout", s.logout)
		authed.POST("/auth/change-password", s.changePassword)

		// Cédula queries
		authed.POST("/cedula-queries/query", s.queryCedula)
		authed.POST("/cedula-queries/query-async", s.queryCedulaAsync)
		authed.GET("/cedula-queries/can-query", s.canQuery)
		authed.GET("/cedula-queries/history", s.queryHistory)
		authed.GET("/cedula-queries/stats", s.queryStats)
		authed.GET("/cedula-queries/recent", s.recentQueries)
		authed.GET("/cedula-queries/search", s.searchQueries)
		authed.GET("/cedula-queries/:id", s.getQuery)

		// Payments
		authed.POST("/payments/create-order", s.createPaymentOrder)
		authed.POST("/payments/verify/:id", s.verifyPayment)
		authed.GET("/payments/history", s.paymentHistory)
		authed.GET("/payments/tokens", s.tokenBalance)

		// Admin-only payment management
		paymentAdmin := authed.Group("/payments")
		paymentAdmin.Use(AdminOnlyMiddleware(s.logger))
		{
			paymentAdmin.GET("/pending", s.pendingPayments)
			paymentAdmin.GET("/expired", s.expiredPayments)
			paymentAdmin.POST("/:id/confirm", s.confirmPayment)
			paymentAdmin.POST("/:id/fail", s.failPayment)
			paymentAdmin.POST("/cleanup-expired", s.cleanupExpiredPayments)
		}

		// User management (admin only)
		userRoutes := authed.Group("/users")
		userRoutes.Use(AdminOnlyMiddleware(s.logger))
		{
			userRoutes.GET("", s.listUsers)
			userRoutes.GET("/search", s.searchUsers)
			userRoutes.GET("/stats", s.userStats)
			userRoutes.GET("/:id", s.getUser)
			userRoutes.PUT("/:id/toggle-status", s.toggleUserStatus)
			userRoutes.PUT("/:id/tokens", s.setUserTokens)
			userRoutes.DELETE("/:id", s.deleteUser)
		}

		// Admin panel
		adminRoutes := authed.Group("/admin")
		adminRoutes.Use(AdminOnlyMiddleware(s.logger))
		{
			adminRoutes.GET("/dashboard", s.dashboard)
			adminRoutes.GET("/health-check", s.adminHealthCheck)
			adminRoutes.POST("/cleanup", s.systemCleanup)
			adminRoutes.GET("/logs", s.systemLogs)
			adminRoutes.PUT("/token-price", s.updateTokenPrice)
			adminRoutes.GET("/settings", s.getSettings)
		}

		// Settings update (admin only)
		settingsRoutes := authed.Group("/settings")
		settingsRoutes.Use(AdminOnlyMiddleware(s.logger))
		{
			settingsRoutes.PUT("", s.updateSettings)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "cedula-api",
	})
}

// GetDB returns the database connection for use by workers
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.Server.ListenAddress

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create HTTP server with production timeouts
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second, // 5 minutes
	}

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Close Asynq client
	if err := s.asynqClient.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing Asynq client")
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	return nil
}
