package router

import (
	"log/slog"
	"net/http"

	"finance-ledger/internal/config"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds every HTTP handler plus the middleware the routes need
type Router struct {
	AuthHandler        *handlers.AuthHandler
	AccountHandler     *handlers.AccountHandler
	CatalogHandler     *handlers.CatalogHandler
	TransactionHandler *handlers.TransactionHandler
	HealthHandler      *handlers.HealthCheckHandler
	AuthMW             echo.MiddlewareFunc
	RateLimitMW        echo.MiddlewareFunc
	MetricsHandler     http.Handler
}

// NewEcho creates the echo instance with error handling, validation and the
// global middleware chain applied
func NewEcho(cfg *config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.TraceIDHeader},
		ExposeHeaders: []string{
			middleware.TraceIDHeader,
			echo.HeaderContentDisposition,
		},
	}))
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("trace_id", middleware.GetTraceID(c)),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	return e
}

// RegisterRoutes mounts the public and authenticated API under /api/v1
func (r *Router) RegisterRoutes(e *echo.Echo) {
	if r.MetricsHandler == nil {
		r.MetricsHandler = promhttp.Handler()
	}
	e.GET("/metrics", echo.WrapHandler(r.MetricsHandler))

	var groupMW []echo.MiddlewareFunc
	if r.RateLimitMW != nil {
		groupMW = append(groupMW, r.RateLimitMW)
	}
	api := e.Group("/api/v1", groupMW...)

	if r.HealthHandler != nil {
		api.GET("/health", r.HealthHandler.HealthCheck)
	}

	auth := api.Group("/auth")
	auth.POST("/register", r.AuthHandler.Register)
	auth.POST("/login", r.AuthHandler.Login)
	auth.GET("/me", r.AuthHandler.Me, r.AuthMW)

	// reference data is readable without a token
	api.GET("/account-types", r.CatalogHandler.ListAccountTypes)
	api.GET("/categories", r.CatalogHandler.ListCategories)

	api.POST("/account-types", r.CatalogHandler.CreateAccountType, r.AuthMW)
	api.PUT("/account-types/:id", r.CatalogHandler.UpdateAccountType, r.AuthMW)
	api.DELETE("/account-types/:id", r.CatalogHandler.DeleteAccountType, r.AuthMW)
	api.GET("/categories/:id", r.CatalogHandler.GetCategory, r.AuthMW)
	api.POST("/categories", r.CatalogHandler.CreateCategory, r.AuthMW)
	api.PUT("/categories/:id", r.CatalogHandler.UpdateCategory, r.AuthMW)
	api.DELETE("/categories/:id", r.CatalogHandler.DeleteCategory, r.AuthMW)

	accounts := api.Group("/accounts", r.AuthMW)
	accounts.GET("", r.AccountHandler.GetUserAccounts)
	accounts.POST("", r.AccountHandler.CreateAccount)
	accounts.GET("/summary", r.AccountHandler.GetFinancialSummary)
	accounts.GET("/:id", r.AccountHandler.GetAccount)
	accounts.PUT("/:id", r.AccountHandler.UpdateAccount)
	accounts.DELETE("/:id", r.AccountHandler.DeleteAccount)

	transactions := api.Group("/transactions", r.AuthMW)
	transactions.GET("", r.TransactionHandler.ListTransactions)
	transactions.POST("", r.TransactionHandler.CreateTransaction)
	transactions.GET("/summary", r.TransactionHandler.GetSummary)
	transactions.GET("/export", r.TransactionHandler.ExportTransactions)
	transactions.GET("/:id", r.TransactionHandler.GetTransaction)
	transactions.PUT("/:id", r.TransactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", r.TransactionHandler.DeleteTransaction)
}
