package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/config"
	"github.com/hireradar/hireradar-api/internal/identity"
	"github.com/hireradar/hireradar-api/internal/logging"
	"github.com/hireradar/hireradar-api/internal/media"
	"github.com/hireradar/hireradar-api/internal/repository/minio"
	"github.com/hireradar/hireradar-api/internal/repository/postgres"
	"github.com/hireradar/hireradar-api/internal/service"
	transporthttp "github.com/hireradar/hireradar-api/internal/transport/http"
	"github.com/hireradar/hireradar-api/internal/transport/mail"
	"github.com/hireradar/hireradar-api/internal/util"
)

func main() {
	cfg := config.Load()

	logger, logCloser, err := logging.New(logging.Options{
		Level:        cfg.LogLevel,
		LogstashAddr: cfg.LogstashAddr,
		Service:      "hireradar-api",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	resetRepo := postgres.NewPasswordResetRepo(db)
	jobRepo := postgres.NewJobRepo(db)
	savedJobRepo := postgres.NewSavedJobRepo(db)
	skillRepo := postgres.NewSkillRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	connectionRepo := postgres.NewConnectionRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	store := postgres.NewStore(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	var authOpts []service.AuthServiceOption
	if cfg.GoogleEnabled() {
		authOpts = append(authOpts, service.WithGoogle(identity.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)))
	} else {
		logger.Warn().Msg("google sign-in disabled: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set")
	}
	if cfg.MinIOEnabled() {
		client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			return fmt.Errorf("minio client: %w", err)
		}
		if err := minio.EnsureBucket(ctx, client, cfg.MinIOBucketAvatar); err != nil {
			return fmt.Errorf("minio bucket: %w", err)
		}
		storage := minio.NewStorage(client, cfg.MinIOPublicURL)
		authOpts = append(authOpts, service.WithAvatarStorage(storage, media.NewInspector(cfg.AvatarMaxBytes), cfg.MinIOBucketAvatar))
	} else {
		logger.Warn().Msg("avatar uploads disabled: MinIO is not configured")
	}

	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.AppName, cfg.PasswordResetTTL)

	authService := service.NewAuthService(userRepo, sessionRepo, jwtManager, logger, authOpts...)
	resetService := service.NewPasswordResetService(store, resetRepo, mailer, logger, cfg.FrontendURL, cfg.PasswordResetTTL)
	adminService := service.NewAdminService(userRepo, jobRepo, skillRepo, categoryRepo, statsRepo)
	jobService := service.NewJobService(jobRepo, store)
	savedJobService := service.NewSavedJobService(savedJobRepo, jobRepo)
	connectionService := service.NewConnectionService(connectionRepo, store)
	notificationService := service.NewNotificationService(notificationRepo)

	e := transporthttp.NewRouter(cfg.AllowOrigins, logger)
	transporthttp.RegisterPages(e, cfg.AppName, cfg.FrontendURL)
	if err := transporthttp.RegisterSwagger(e); err != nil {
		return fmt.Errorf("swagger: %w", err)
	}
	transporthttp.RegisterAuth(e, authService, logger)
	transporthttp.RegisterPasswordReset(e, resetService, logger, transporthttp.ForgotPasswordLimiter(cfg.ForgotPasswordRateLimit))
	transporthttp.RegisterAdmin(e, authService, adminService, logger)
	transporthttp.RegisterJobs(e, authService, jobService, savedJobService, logger)
	transporthttp.RegisterConnections(e, authService, connectionService, logger)
	transporthttp.RegisterNotifications(e, authService, notificationService, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
