package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/ogurasousui/timesheet-clean-arch/internal/adapters/export/xlsx"
	"github.com/ogurasousui/timesheet-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/timesheet-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
	"github.com/ogurasousui/timesheet-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/timesheet-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/timesheet-clean-arch/internal/platform/logger"
	"github.com/ogurasousui/timesheet-clean-arch/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.EffectivePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database, pg.WithQueryLogger(zl, queryLogLevel(cfg.Log.Level)))
	if err != nil {
		return err
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	recordRepo := postgres.NewWorkRecordRepository(dbPool)

	employeeSvc := employee.NewService(employeeRepo, nil, txManager)
	recordSvc := workrecord.NewService(recordRepo, employeeRepo, nil, txManager)
	reportSvc := report.NewService(employeeRepo, recordRepo, nil, txManager)

	router := handler.NewRouter(
		handler.RouterConfig{Logger: zl, CORSOrigins: cfg.Server.CORSOrigins},
		handler.NewEmployeeHandler(employeeSvc, recordSvc, reportSvc),
		handler.NewWorkRecordHandler(recordSvc, reportSvc, xlsx.NewSummaryExporter()),
		handler.NewReferenceHandler(reportSvc),
	)

	srv := server.New(server.Config{
		HTTPAddr:        cfg.Server.HTTPAddr,
		GRPCAddr:        cfg.Server.GRPCAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, zl)

	zl.Info("timesheet server starting",
		zap.String("http_addr", cfg.Server.HTTPAddr),
		zap.String("grpc_addr", cfg.Server.GRPCAddr),
	)
	return srv.Run(ctx)
}

// queryLogLevel はアプリのログレベルが debug の場合のみ SQL を記録します。
func queryLogLevel(level string) tracelog.LogLevel {
	if level == "debug" {
		return tracelog.LogLevelDebug
	}
	return tracelog.LogLevelWarn
}
