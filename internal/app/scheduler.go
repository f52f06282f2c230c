package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig"
	"github.com/sawa0358/hr-system-2025-sub003/internal/audit"
	"github.com/sawa0358/hr-system-2025-sub003/internal/employee"
	"github.com/sawa0358/hr-system-2025-sub003/internal/lot"
	"github.com/sawa0358/hr-system-2025-sub003/internal/messaging/kafka"
	"github.com/sawa0358/hr-system-2025-sub003/internal/shared/connection"
)

// RunScheduler sweeps all active employees once at startup and then on
// an interval, granting every lot due by that moment. Grants are
// idempotent, so overlapping runs and restarts are safe.
func RunScheduler() error {
	logger := zap.L().Named("app.scheduler")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	configRepo := accrualconfig.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	lotRepo := lot.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	configService := accrualconfig.NewService(sqlDB, configRepo)
	lotService := lot.NewService(sqlDB, lotRepo, employeeRepo, configService, auditRepo, outboxRepo)

	interval := 24 * time.Hour
	if raw := os.Getenv("SCHEDULER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		} else {
			logger.Warn("invalid SCHEDULER_INTERVAL, using default",
				zap.String("value", raw),
				zap.Duration("default", interval),
			)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweep := func() {
		resp, err := lotService.Backfill(ctx, "", time.Now().UTC())
		if err != nil {
			logger.Error("grant sweep failed", zap.Error(err))
			return
		}
		logger.Info("grant sweep finished",
			zap.Int("employees_checked", resp.EmployeesChecked),
			zap.Int("lots_created", resp.LotsCreated),
		)
	}

	go func() {
		sweep()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	cancel()

	return nil
}
