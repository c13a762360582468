package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/identity-api/internal/config"
	"github.com/yourusername/identity-api/internal/handler"
	"github.com/yourusername/identity-api/internal/middleware"
	pgRepo "github.com/yourusername/identity-api/internal/repository/postgres"
	"github.com/yourusername/identity-api/internal/service"
	"github.com/yourusername/identity-api/pkg/auth"
	"github.com/yourusername/identity-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	loginCodeRepo := pgRepo.NewLoginCodeRepo(db)

	// Email delivery: Resend in real deployments, noop locally
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		log.Println("Email delivery via Resend enabled")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("Email delivery disabled, login codes are logged")
	}

	// Services
	loginCodeService, err := service.NewLoginCodeService(
		loginCodeRepo,
		userRepo,
		emailService,
		time.Duration(cfg.Auth.LoginCodeTTLSeconds)*time.Second,
		cfg.Auth.LoginCodeLength,
		cfg.Auth.Secret,
	)
	if err != nil {
		log.Printf("Failed to initialize LoginCodeService: %v", err)
		os.Exit(1)
	}

	userService := service.NewUserService(userRepo)

	jwtService, err := auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.AccessTokenLifetimeHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Handlers and middleware
	authHandler := handler.NewAuthHandler(loginCodeService, jwtService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Trusted proxies matter for rate limiting by c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(middleware.RequestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiting on the code endpoints; skipped when Redis is not
	// configured (local development).
	var requestLimit, authenticateLimit gin.HandlerFunc
	if cfg.Redis.Addr != "" || len(cfg.Redis.Addrs) > 0 {
		redisClient, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Println("Successfully connected to Redis")

		rateLimiter := middleware.NewRateLimiter(redisClient)
		requestLimit = rateLimiter.Limit(middleware.LoginCodeRequestRateLimitConfig())
		authenticateLimit = rateLimiter.Limit(middleware.LoginCodeAuthenticateRateLimitConfig())
	} else {
		log.Println("Redis not configured, rate limiting disabled")
		noop := func(c *gin.Context) { c.Next() }
		requestLimit, authenticateLimit = noop, noop
	}

	v1 := router.Group("/v1")
	{
		loginCode := v1.Group("/login-code")
		{
			loginCode.POST("/request", requestLimit, authHandler.RequestLoginCode)
			loginCode.POST("/authenticate", authenticateLimit, authHandler.AuthenticateLoginCode)
		}

		users := v1.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.Me)

			admin := users.Group("")
			admin.Use(authMiddleware.AdminOnly())
			{
				admin.GET("", userHandler.ListUsers)
				admin.GET("/export", userHandler.ExportUsers)
			}
		}
	}

	// Timeouts protect against slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := database.GetSQLDB(db); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}

	log.Println("Server exited")
}
