package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		logger.Error("composition root failed", "error", err)
		os.Exit(1)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	app.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil {
			logger.Info("http server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	// In-flight requests get a grace window; the deferred StopAll waits for
	// running job passes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&shipmentrepo.AssignmentDTO{},
		&shipmentrepo.StatusEventDTO{},
		&notificationrepo.PreferenceDTO{},
		&notificationrepo.NotificationDTO{},
	)
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		RedisAddr: goDotEnvVariable("REDIS_ADDR"),

		CarrierDHLBaseURL:   goDotEnvVariable("CARRIER_DHL_BASE_URL"),
		CarrierUPSBaseURL:   goDotEnvVariable("CARRIER_UPS_BASE_URL"),
		CarrierFedexBaseURL: goDotEnvVariable("CARRIER_FEDEX_BASE_URL"),

		EmailGatewayURL:  goDotEnvVariable("EMAIL_GATEWAY_URL"),
		EmailAPIKey:      goDotEnvVariable("EMAIL_API_KEY"),
		EmailFromAddress: goDotEnvVariable("EMAIL_FROM_ADDRESS"),
		EmailFromName:    goDotEnvVariable("EMAIL_FROM_NAME"),
		SMSGatewayURL:    goDotEnvVariable("SMS_GATEWAY_URL"),
		SMSAuthToken:     goDotEnvVariable("SMS_AUTH_TOKEN"),
		SMSFromNumber:    goDotEnvVariable("SMS_FROM_NUMBER"),
		PushGatewayURL:   goDotEnvVariable("PUSH_GATEWAY_URL"),
		PushAPIKey:       goDotEnvVariable("PUSH_API_KEY"),

		PickupLine1:      goDotEnvVariable("PICKUP_LINE1"),
		PickupCity:       goDotEnvVariable("PICKUP_CITY"),
		PickupPostalCode: goDotEnvVariable("PICKUP_POSTAL_CODE"),
		PickupRegion:     goDotEnvVariable("PICKUP_REGION"),
		PickupCountry:    goDotEnvVariable("PICKUP_COUNTRY"),

		TrackingPollSchedule:      goDotEnvVariable("TRACKING_POLL_SCHEDULE"),
		NotificationRetrySchedule: goDotEnvVariable("NOTIFICATION_RETRY_SCHEDULE"),
		NotificationRetryAttempts: goDotEnvVariable("NOTIFICATION_RETRY_ATTEMPTS"),
		NotificationDedupeTTL:     goDotEnvVariable("NOTIFICATION_DEDUPE_TTL"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}
