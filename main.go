package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hospitality-booking/cmd"
	"hospitality-booking/internal/consumer"
	"hospitality-booking/internal/data/repository"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/internal/wire"
	"hospitality-booking/pkg/database"
	"hospitality-booking/pkg/mq"
	"hospitality-booking/pkg/obs"
	"hospitality-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, config.App.Name, config.App.Env, config.Telemetry.OTLPEndpoint, logger)
	if err != nil {
		logger.Fatal("Failed to init tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepository(db, config.Booking.LockTimeout.Milliseconds(), logger)

	var events usecase.EventPublisher
	if config.Rabbit.URL != "" {
		publisher, err := mq.NewPublisher(config.Rabbit.URL, config.Rabbit.BookingExchange)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
	} else {
		logger.Warn("RABBIT_URL not set, booking events are not published")
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, events, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, logger)
	})

	if config.Rabbit.URL != "" {
		source, err := mq.NewConsumer(config.Rabbit.URL, config.Rabbit.PaymentExchange, config.Rabbit.PaymentQueue, consumer.PaymentRoutingKeys, 16)
		if err != nil {
			logger.Fatal("Failed to start payment consumer", zap.Error(err))
		}
		defer source.Close()

		payments := consumer.NewPaymentConsumer(app.Service.Booking, source, logger)
		g.Go(func() error {
			return payments.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return
	}
	logger.Info("Application stopped")
}
