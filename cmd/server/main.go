package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/config"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/housekeeping"
	apphttp "github.com/CiceroLino/full-stack-technical-assessment/internal/http"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository/sqlite"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	verificationRepo := sqlite.NewVerificationRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)

	sessionCache := service.NewMemorySessionCache(cfg.Auth.CacheTTL)
	sessionService := service.NewSessionService(sessionRepo, sessionCache, service.SessionConfig{
		TTL:       cfg.Auth.SessionTTL,
		UpdateAge: cfg.Auth.SessionUpdateAge,
		Logger:    logger,
	})
	authService := service.NewAuthService(userRepo, cfg.Auth.BcryptCost)
	taskService := service.NewTaskService(taskRepo)

	var exportService service.ExportService
	if cfg.Storage.Bucket != "" {
		storageSvc, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		exportService = service.NewExportService(taskService, storageSvc, service.ExportConfig{
			Bucket:     cfg.Storage.Bucket,
			KeyPrefix:  cfg.Storage.KeyPrefix,
			PresignTTL: cfg.Storage.PresignTTL,
			Logger:     logger,
		})
	} else {
		logger.Info("storage bucket not configured, task export disabled")
	}

	sweeper := housekeeping.NewSweeper(housekeeping.Config{
		Interval: cfg.Housekeeping.Interval,
		Logger:   logger,
	}, map[string]housekeeping.Purger{
		"sessions":      sessionRepo,
		"verifications": verificationRepo,
	}, sessionCache)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatalf("start housekeeping: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), apphttp.RequestLogger(logger))
	handler := apphttp.NewHandler(authService, sessionService, taskService, exportService, apphttp.Options{
		Cookie:     apphttp.CookieConfig{Secure: cfg.Auth.CookieSecure},
		AutoSignIn: cfg.Auth.AutoSignIn,
		AuthLimit: apphttp.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.AuthRequests,
			Window:            cfg.RateLimit.AuthWindow,
			Burst:             cfg.RateLimit.AuthBurst,
		},
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	sweeper.Shutdown()

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
