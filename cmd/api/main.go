package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	httpadp "scrapgate/internal/adapter/http"
	appmw "scrapgate/internal/adapter/middleware"
	"scrapgate/internal/adapter/notify"
	"scrapgate/internal/adapter/repository/mysql"
	"scrapgate/internal/config"
	"scrapgate/internal/domain/notification"
	"scrapgate/internal/infrastructure/cache"
	"scrapgate/internal/infrastructure/db"
	evidenceuc "scrapgate/internal/usecase/evidence"
	"scrapgate/internal/usecase/gatepass"
	"scrapgate/internal/usecase/lifecycle"
	vehicleuc "scrapgate/internal/usecase/vehicle"
	"scrapgate/internal/usecase/weighbridge"
	"scrapgate/pkg/clock"
	"scrapgate/pkg/logger"
	"scrapgate/pkg/qr"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "scrapgate",
	})

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	uow := mysql.NewGormUoW(gdb)
	clk := clock.System()
	locker := cache.NewLockManager(rdb)

	var notifier notification.Notifier = notify.NopNotifier{}
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, lg)
	}

	lifecycleUC := lifecycle.NewUsecase(uow, clk, notifier, lg)
	weighUC := weighbridge.NewUsecase(uow, clk, decimal.NewFromFloat(cfg.DiscrepancyThreshold), lg)
	evidenceUC := evidenceuc.NewUsecase(uow, clk, cfg.AppVersion, cfg.Environment, lg)
	gatepassUC := gatepass.NewUsecase(uow, clk, qr.NewPNGEncoder(256), locker, cfg.GatePassValidityHours, lg)
	vehicleUC := vehicleuc.NewUsecase(uow)

	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("mysql pool: %v", err)
	}

	e := echo.New()
	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Base: httpadp.NewHandler(
			func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
			func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		),
		Transaction: httpadp.NewTransactionHandler(lifecycleUC),
		Weighbridge: httpadp.NewWeighbridgeHandler(weighUC),
		Evidence:    httpadp.NewEvidenceHandler(evidenceUC),
		GatePass:    httpadp.NewGatePassHandler(gatepassUC),
		Vehicle:     httpadp.NewVehicleHandler(vehicleUC),
		Idempotency: appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	})

	addr := ":" + cfg.AppPort
	lg.Info("listening", map[string]interface{}{"addr": addr, "env": cfg.Environment})
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
