package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const serviceName = "fulfillment"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs := getConfigs()

	level, err := telemetry.ParseLevel(configs.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL: %v", err)
	}
	logger := telemetry.NewLogger(os.Stderr, level)
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName, configs.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Failed to flush traces", "error", err)
		}
	}()

	gormDB := mustGormOpen(configs)
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	carrierClient, err := carrier.NewClient(configs.Carrier())
	if err != nil {
		log.Fatalf("Invalid carrier configuration: %v", err)
	}

	redisClient, err := redis.NewClient(ctx, configs.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	guard, err := redis.NewInFlightGuard(redisClient, configs.InFlightTTL)
	if err != nil {
		log.Fatalf("Invalid in-flight guard configuration: %v", err)
	}

	notifier, closeNotifier := buildNotifier(configs, logger)
	defer closeNotifier()

	app := cmd.NewCompositionRoot(configs, gormDB, carrierClient, notifier, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(ctx); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, guard, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// A missing .env file is fine: the environment may already be set.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  configs.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

// buildNotifier always logs notifications and also publishes them to Kafka
// when brokers are configured.
func buildNotifier(configs cmd.Config, logger *slog.Logger) (ports.NotificationSink, func()) {
	logSink := notify.NewLogSink(logger)
	if len(configs.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, notifications are only logged")
		return logSink, func() {}
	}

	kafkaSink := kafka.NewSink(configs.KafkaBrokers, configs.KafkaNotificationsTopic, logger)
	return notify.Fanout{logSink, kafkaSink}, func() {
		if err := kafkaSink.Close(); err != nil {
			logger.Error("Failed to close kafka writer", "error", err)
		}
	}
}

func startWebServer(
	ctx context.Context,
	app cmd.CompositionRoot,
	guard ports.InFlightGuard,
	port string,
	logger *slog.Logger,
) {
	server := httpin.NewServer(app.CreateHTTPHandlers(), guard, logger)
	e, err := httpin.NewRouter(server, logger)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}
}
