package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"libroflow/docs"
	"libroflow/internal/auth"
	"libroflow/internal/cache"
	"libroflow/internal/config"
	"libroflow/internal/db"
	"libroflow/internal/handler"
	"libroflow/internal/model"
	"libroflow/internal/recommend"
	"libroflow/internal/repository"
	"libroflow/internal/router"
	"libroflow/internal/seed"
	"libroflow/internal/service"
)

// @title LibroFlow API
// @version 1.0
// @description Library catalog and lending API with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	finePerDay, err := decimal.NewFromString(cfg.FinePerDay)
	if err != nil {
		log.Fatalf("invalid FINE_PER_DAY %q: %v", cfg.FinePerDay, err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Loan{},
		&model.LoanEvent{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	bookRepo := repository.NewBookRepository(gormDB)
	loanRepo := repository.NewLoanRepository(gormDB)
	eventRepo := repository.NewLoanEventRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Seed the catalog when missing or incomplete
	if err := seed.Apply(context.Background(), bookRepo); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	catalogService := service.NewCatalogService(bookRepo, loanRepo, cacheClient)
	lendingService := service.NewLendingService(bookRepo, loanRepo, eventRepo, userRepo, cacheClient, cfg.LoanPeriodDays, finePerDay)
	userService := service.NewUserService(userRepo, cacheClient)

	var generator service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		generator = recommend.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	} else {
		log.Println("GEMINI_API_KEY not set, recommendations degrade to fallback")
	}
	recommendService := service.NewRecommendService(generator)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(catalogService)
	loanHandler := handler.NewLoanHandler(lendingService)
	userHandler := handler.NewUserHandler(userService)
	dashboardHandler := handler.NewDashboardHandler(lendingService)
	recommendHandler := handler.NewRecommendHandler(recommendService)
	seedHandler := handler.NewSeedHandler(bookRepo)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		bookHandler,
		loanHandler,
		userHandler,
		dashboardHandler,
		recommendHandler,
		seedHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
