package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"scan2know/config"
	"scan2know/controllers"
	"scan2know/metrics"
	"scan2know/routes"
	"scan2know/services"
	"scan2know/utils"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer config.CloseDB(db)
	if err := config.Migrate(db); err != nil {
		return err
	}

	metrics.Register()

	app, err := buildApp(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer app.close()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

type app struct {
	router  *gin.Engine
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.WithError(err).Warn("shutdown cleanup failed")
		}
	}
}

// buildApp wires stores, collaborators and controllers from cfg. Optional
// integrations are skipped when their settings are empty.
func buildApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*app, error) {
	a := &app{}

	tieBreak, err := services.ParseTieBreak(cfg.MatchTieBreak)
	if err != nil {
		return nil, err
	}
	catalog := services.NewGormCatalog(db)
	history := services.NewGormHistory(db)

	var extractor services.TextExtractor
	switch cfg.OCRProvider {
	case "rekognition":
		rx, err := services.NewRekognitionExtractor(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		extractor = rx
	default:
		extractor = services.NewHTTPExtractor(cfg.OCRServiceURL, cfg.OCRTimeout)
	}

	var summarizer services.Summarizer
	switch cfg.SummarizerProvider {
	case "huggingface":
		summarizer = services.NewHFSummarizer(cfg.HuggingFaceToken, cfg.HuggingFaceModel, cfg.SummarizerTimeout)
	case "none":
	default:
		summarizer = services.NewHTTPSummarizer(cfg.SummarizerServiceURL, cfg.SummarizerTimeout)
	}

	var archive services.ImageArchiver
	if cfg.S3Bucket != "" {
		ia, err := utils.NewImageArchive(ctx, cfg.S3RegionOrDefault(), cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			return nil, err
		}
		archive = ia
	}

	push, err := services.NewPushService(ctx, db, cfg.AWSRegion, cfg.SNSFCMArn)
	if err != nil {
		return nil, err
	}

	var mailer services.AlertMailer
	if cfg.SESEmail != "" {
		m, err := utils.NewMailer(ctx, cfg.AWSRegion, cfg.SESEmail)
		if err != nil {
			return nil, err
		}
		mailer = m
	}

	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(db, hub, push, mailer)
	listeners := []services.ScanListener{alerts}

	if cfg.AMQPURL != "" {
		pub, err := services.NewEventPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pub.Close)
		listeners = append(listeners, pub)
	}

	scans := services.NewScanService(services.ScanDeps{
		UploadDir:      cfg.UploadDir,
		UploadMaxBytes: cfg.UploadMaxBytes,
		Extractor:      extractor,
		Matcher:        services.NewMatcher(catalog, tieBreak),
		Summaries:      services.NewSummaryGenerator(summarizer),
		History:        history,
		Archive:        archive,
		Listeners:      listeners,
	})
	products := services.NewProductService(db)

	a.router = routes.SetupRouter(routes.Deps{
		JWTSecret:      cfg.JWTSecret,
		ScanRateLimit:  cfg.ScanRateLimit,
		ScanRateBurst:  cfg.ScanRateBurst,
		UploadMaxBytes: cfg.UploadMaxBytes,

		Auth:          controllers.NewAuthController(services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)),
		Scan:          controllers.NewScanController(scans),
		Products:      controllers.NewProductController(products),
		Ingredients:   controllers.NewIngredientController(catalog),
		Users:         controllers.NewUserController(services.NewUserService(history, products)),
		Devices:       controllers.NewDeviceController(push),
		Notifications: controllers.NewNotificationController(push, alerts),
		Realtime:      controllers.NewRealtimeController(hub),
	})
	return a, nil
}
