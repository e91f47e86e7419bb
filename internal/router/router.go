package router

import (
	"time"

	"redecell/internal/auth"
	"redecell/internal/config"
	"redecell/internal/handler"
	"redecell/internal/infra"
	"redecell/internal/middleware"
	"redecell/internal/repository"
	"redecell/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// Deps are the process-wide resources shared by every request.
type Deps struct {
	DB       *gorm.DB
	ReportDB *sqlx.DB
	Redis    *redis.Client
	Jobs     service.JobEnqueuer
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	pdf := infra.NewPurchaseOrderPDF(cfg.PDFStoragePath, "RedeCell")
	cache := infra.NewRedisCache(deps.Redis)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(deps.DB)
	supplierRepo := repository.NewSupplierRepository(deps.DB)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(deps.DB)
	variationRepo := repository.NewVariationRepository(deps.DB)
	stockHistoryRepo := repository.NewStockHistoryRepository(deps.DB)
	checklistRepo := repository.NewChecklistRepository(deps.DB)
	cashSessionRepo := repository.NewCashSessionRepository(deps.DB)
	cashierReportRepo := repository.NewCashierReportRepository(deps.ReportDB)
	bankAccountRepo := repository.NewBankAccountRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	supplierSvc := service.NewSupplierService(supplierRepo)
	purchaseOrderSvc := service.NewPurchaseOrderService(purchaseOrderRepo, variationRepo, stockHistoryRepo, pdf, deps.Jobs)
	stockHistorySvc := service.NewStockHistoryService(stockHistoryRepo)
	checklistSvc := service.NewChecklistService(checklistRepo, cache, cfg.ChecklistCacheTTL)
	cashierSvc := service.NewCashierService(cashSessionRepo, cashierReportRepo)
	financeSvc := service.NewFinanceService(bankAccountRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	purchaseOrdersH := handler.NewPurchaseOrdersHandler(purchaseOrderSvc)
	stockHistoryH := handler.NewStockHistoryHandler(stockHistorySvc)
	checklistsH := handler.NewChecklistsHandler(checklistSvc)
	cashierH := handler.NewCashierHandler(cashierSvc)
	financeH := handler.NewFinanceHandler(financeSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis))
	r.POST("/api/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes
	api := r.Group("/api", middleware.Authenticate(cfg.JWTSecret, authSvc))
	api.GET("/auth/me", authH.Me)

	po := api.Group("/purchase-orders", middleware.Authorize(auth.PermPurchasesManage))
	{
		po.POST("", purchaseOrdersH.Create)
		po.GET("", purchaseOrdersH.List)
		po.GET("/:id", purchaseOrdersH.GetByID)
		po.PUT("/:id", purchaseOrdersH.Update)
		po.POST("/:id/receive", purchaseOrdersH.Receive)
		po.POST("/:id/send", purchaseOrdersH.Send)
		po.GET("/:id/pdf", purchaseOrdersH.PDF)
	}

	suppliers := api.Group("/suppliers", middleware.Authorize(auth.PermPurchasesManage))
	{
		suppliers.GET("", suppliersH.List)
		suppliers.GET("/:id", suppliersH.GetByID)
		suppliers.POST("", suppliersH.Create)
	}

	api.GET("/stock-history", middleware.Authorize(auth.PermInventoryRead), stockHistoryH.List)

	checklists := api.Group("/checklists/templates", middleware.Authorize(auth.PermRepairsManage))
	{
		checklists.GET("", checklistsH.List)
		checklists.GET("/:id", checklistsH.GetByID)
		checklists.POST("", checklistsH.Create)
		checklists.PUT("/:id", checklistsH.Update)
		checklists.DELETE("/:id", checklistsH.Delete)
	}

	cashier := api.Group("/cashier", middleware.Authorize(auth.PermCashierOperate))
	{
		cashier.POST("/open", cashierH.Open)
		cashier.POST("/close", cashierH.Close)
		cashier.GET("/status", cashierH.Status)
		cashier.GET("/summary", cashierH.Summary)
		cashier.GET("/history", cashierH.History)
	}

	accounts := api.Group("/finance/bank-accounts", middleware.Authorize(auth.PermFinanceManage))
	{
		accounts.GET("", financeH.ListBankAccounts)
		accounts.POST("", financeH.CreateBankAccount)
		accounts.PUT("/:id", financeH.UpdateBankAccount)
		accounts.DELETE("/:id", financeH.DeleteBankAccount)
	}

	return r
}
