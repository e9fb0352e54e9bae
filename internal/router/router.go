package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"libroflow/internal/config"
	"libroflow/internal/handler"
	"libroflow/internal/model"
	"libroflow/internal/seed"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	userHandler *handler.UserHandler,
	dashboardHandler *handler.DashboardHandler,
	recommendHandler *handler.RecommendHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.GET("/categories", func(c echo.Context) error {
		return c.JSON(http.StatusOK, seed.Categories)
	})

	// Catalog routes
	secured.GET("/books", bookHandler.ListBooks)
	secured.GET("/books/:id", bookHandler.GetBook)

	// Circulation routes
	secured.POST("/loans", loanHandler.IssueLoan)
	secured.POST("/loans/:id/return", loanHandler.ReturnLoan)
	secured.GET("/loans", loanHandler.ListLoans)

	// Profile routes
	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateMe)

	// Recommendation routes
	secured.POST("/recommendations", recommendHandler.Suggest)

	// Admin routes (require the ADMIN role claim)
	admin := secured.Group("", RequireAdmin)
	admin.POST("/books", bookHandler.SaveBook)
	admin.PUT("/books", bookHandler.SaveBook)
	admin.DELETE("/books/:id", bookHandler.DeleteBook)
	admin.GET("/loans/:id/events", loanHandler.LoanEvents)
	admin.GET("/dashboard/stats", dashboardHandler.Stats)
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/seed/catalog", seedHandler.SeedCatalog)
}

// RequireAdmin rejects requests whose token does not carry the ADMIN role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if role, _ := claims["role"].(string); role != string(model.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
