package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"parking_enforcement/internal/api"
	"parking_enforcement/internal/api/handler"
	"parking_enforcement/internal/api/middleware"
	"parking_enforcement/internal/queue"
	"parking_enforcement/internal/repository/postgresql"
	"parking_enforcement/internal/service"
	"parking_enforcement/internal/storage"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, websocket hub and background workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgresql.NewDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}
	sqsClient := sqs.NewFromConfig(awsCfg)
	rekognitionClient := rekognition.NewFromConfig(awsCfg)

	var images service.ImageStore
	if cfg.ReportImagesBucket != "" {
		images = storage.NewS3ImageStore(s3.NewFromConfig(awsCfg), cfg.ReportImagesBucket)
	} else {
		logger.Warn("REPORT_IMAGES_BUCKET is empty, report images are disabled")
	}

	userRepo := postgresql.NewPgUserRepository(db)
	officialRepo := postgresql.NewPgOfficialRepository(db)
	areaRepo := postgresql.NewPgAreaRepository(db)
	streetRepo := postgresql.NewPgStreetRepository(db)
	spotRepo := postgresql.NewPgParkingSpotRepository(db)
	sessionRepo := postgresql.NewPgParkingSessionRepository(db)
	reportRepo := postgresql.NewPgReportRepository(db)
	violationRepo := postgresql.NewPgViolationRepository(db)
	compoundRepo := postgresql.NewPgCompoundRepository(db)
	transactionRepo := postgresql.NewPgTransactionRepository(db)

	var wg sync.WaitGroup

	wsManager := handler.NewWebSocketManager(logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		wsManager.Start(ctx)
	}()

	authService := service.NewAuthService(userRepo, officialRepo, cfg.JWTSecret, cfg.JWTExpirationHours, logger)
	parkingService := service.NewParkingService(areaRepo, streetRepo, spotRepo, sessionRepo, wsManager, logger)
	inventoryService := service.NewInventoryService(areaRepo, streetRepo, spotRepo, cfg.InventoryConcurrency, logger)
	lprService := service.NewLPRService(rekognitionClient, logger)
	svc := api.Services{
		Auth:        authService,
		Parking:     parkingService,
		Inventory:   inventoryService,
		Reports:     service.NewReportService(reportRepo, spotRepo, images, logger),
		Compounds:   service.NewCompoundService(violationRepo, compoundRepo, parkingService, lprService, wsManager, logger),
		Officials:   service.NewOfficialService(officialRepo),
		Transaction: service.NewTransactionService(transactionRepo),
	}

	if cfg.SQSSpotEventQueueURL == "" {
		logger.Warn("SQS_SPOT_EVENT_QUEUE_URL is empty, spot sensor consumer disabled")
	} else {
		spotEvents := service.NewSpotEventService(parkingService, logger)
		consumer := queue.NewSQSConsumer(sqsClient, cfg.SQSSpotEventQueueURL, spotEvents, logger, service.ErrMalformedEvent)
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumer.Start(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		runExpirySweep(ctx, parkingService, cfg.ExpiredSessionSweep)
	}()

	authMw := middleware.NewAuthMiddleware(authService, logger)
	wsHandler := handler.NewWebSocketHandler(wsManager, parkingService, cfg.CountdownInterval, logger)
	router := api.SetupRouter(svc, authMw, wsHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: api.WithCORS(router, cfg.CORSAllowedOrigins),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server forced to shut down", "error", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Warn("background workers did not stop in time")
	}

	logger.Info("server stopped")
	return nil
}

// runExpirySweep flips overdue active sessions to expired on every tick.
func runExpirySweep(ctx context.Context, ps *service.ParkingService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		count, err := ps.ExpireOverdueSessions(sweepCtx)
		cancel()
		if err != nil {
			logger.Errorw("expiring overdue sessions", "error", err)
		} else if count > 0 {
			logger.Infow("expired overdue sessions", "count", count)
		}
	}
}
