package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig"
	"github.com/sawa0358/hr-system-2025-sub003/internal/audit"
	"github.com/sawa0358/hr-system-2025-sub003/internal/consumption"
	"github.com/sawa0358/hr-system-2025-sub003/internal/employee"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	"github.com/sawa0358/hr-system-2025-sub003/internal/messaging/kafka"
	"github.com/sawa0358/hr-system-2025-sub003/internal/middleware"
	"github.com/sawa0358/hr-system-2025-sub003/internal/rbac"
	"github.com/sawa0358/hr-system-2025-sub003/internal/rbac/infra"
	"github.com/sawa0358/hr-system-2025-sub003/internal/request"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/counter"
	"github.com/sawa0358/hr-system-2025-sub003/internal/stats"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	configRepo := accrualconfig.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	lotRepo := lot.NewRepository(gormDB)
	consumptionRepo := consumption.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	engine := consumption.NewEngine()
	configService := accrualconfig.NewService(db, configRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	lotService := lot.NewService(db, lotRepo, employeeRepo, configService, auditRepo, outboxRepo)
	requestService := request.NewService(
		db, requestRepo, lotRepo, consumptionRepo, engine,
		employeeRepo, rbacService, auditRepo, outboxRepo, rdb,
	)
	statsService := stats.NewService(
		lotRepo, requestRepo, consumptionRepo, employeeRepo, configService, rdb,
	)

	// --- Handlers ---
	configHandler := accrualconfig.NewHandler(configService)
	employeeHandler := employee.NewHandler(employeeService)
	lotHandler := lot.NewHandler(lotService)
	requestHandler := request.NewHandler(requestService)
	statsHandler := stats.NewHandler(statsService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByIP(rate.Limit(50), 100),
		middleware.Idempotency(rdb),
	)
	{
		accrualconfig.RegisterRoutes(api, configHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		lot.RegisterRoutes(api, lotHandler, rbacService)
		request.RegisterRoutes(api, requestHandler, rbacService)
		stats.RegisterRoutes(api, statsHandler, rbacService)
	}

	return nil
}
