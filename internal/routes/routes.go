package routes

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/ai"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/handlers"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/internal/reports"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Deps are the services the routes are served from. Receipts and Extractor
// may be nil when no model is configured.
type Deps struct {
	DB             *database.DB
	Ledger         *ledger.Service
	Reports        *reports.Service
	Tokens         *auth.Tokens
	Receipts       *ai.ReceiptParser
	Extractor      *ai.Extractor
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(d.Logger), CORSMiddleware(d.AllowedOrigins))

	r.GET("/health", HealthHandler(d.DB))

	users := r.Group("/users")
	users.POST("/register", handlers.RegisterHandler(d.Ledger, d.Tokens))
	users.POST("/login", handlers.LoginHandler(d.DB, d.Tokens))

	api := r.Group("/", auth.RequireUser(d.Tokens))
	api.GET("/users/me", handlers.MeHandler(d.DB))

	api.GET("/accounts/get", handlers.GetAccountHandler(d.Ledger))
	api.POST("/accounts/adjust", handlers.AdjustBalanceHandler(d.Ledger))

	api.POST("/transactions/create", handlers.CreateTransactionHandler(d.Ledger))
	api.PUT("/transactions/update", handlers.UpdateTransactionHandler(d.Ledger))
	api.DELETE("/transactions/delete", handlers.DeleteTransactionHandler(d.Ledger))
	api.GET("/transactions/getall", handlers.GetTransactionsHandler(d.Ledger))
	api.GET("/transactions/get", handlers.GetTransactionHandler(d.Ledger))

	api.POST("/budgets/create", handlers.CreateBudgetHandler(d.Ledger))
	api.PUT("/budgets/update", handlers.UpdateBudgetHandler(d.Ledger))
	api.PUT("/budgets/amount", handlers.UpdateBudgetAmountHandler(d.Ledger))
	api.DELETE("/budgets/delete", handlers.DeleteBudgetHandler(d.Ledger))
	api.GET("/budgets/getall", handlers.GetBudgetsHandler(d.Ledger))
	api.GET("/budgets/get", handlers.GetBudgetHandler(d.Ledger))

	api.POST("/goals/create", handlers.CreateGoalHandler(d.Ledger))
	api.PUT("/goals/update", handlers.UpdateGoalHandler(d.Ledger))
	api.PUT("/goals/amount", handlers.UpdateGoalAmountHandler(d.Ledger))
	api.DELETE("/goals/delete", handlers.DeleteGoalHandler(d.Ledger))
	api.GET("/goals/getall", handlers.GetGoalsHandler(d.Ledger))
	api.GET("/goals/get", handlers.GetGoalHandler(d.Ledger))

	api.POST("/categories/create", handlers.CreateCategoryHandler(d.DB))
	api.PUT("/categories/update", handlers.UpdateCategoryHandler(d.DB))
	api.DELETE("/categories/delete", handlers.DeleteCategoryHandler(d.DB))
	api.GET("/categories/getall", handlers.GetCategoriesHandler(d.DB))

	api.GET("/notifications/getall", handlers.GetNotificationsHandler(d.DB))
	api.PUT("/notifications/read", handlers.MarkNotificationAsReadHandler(d.DB))
	api.DELETE("/notifications/delete", handlers.DeleteNotificationHandler(d.DB))

	api.GET("/reports/excel", handlers.ReportHandler(d.Reports, models.ReportExcel))
	api.GET("/reports/pdf", handlers.ReportHandler(d.Reports, models.ReportPDF))
	api.GET("/reports/summary", handlers.SummaryHandler(d.DB))

	api.POST("/ai/receipt", handlers.ReceiptHandler(d.Receipts))
	api.POST("/ai/extract", handlers.ExtractHandler(d.Extractor))

	return r
}

func HealthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
	}
}

func CORSMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && slices.Contains(allowed, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// RequestLogger writes one slog record per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
