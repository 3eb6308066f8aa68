// Package server wires configuration, storage, services and transports
// together and runs the HTTP API and the gRPC health endpoint until a
// shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/notify"
	"github.com/dmitrijs2005/shipagency/internal/server/auth"
	"github.com/dmitrijs2005/shipagency/internal/server/config"
	"github.com/dmitrijs2005/shipagency/internal/server/events"
	"github.com/dmitrijs2005/shipagency/internal/server/mailer"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shipagency/internal/server/services"
	"github.com/dmitrijs2005/shipagency/internal/shared"
	"github.com/sethvargo/go-retry"

	gs "github.com/dmitrijs2005/shipagency/internal/server/grpc"
	hs "github.com/dmitrijs2005/shipagency/internal/server/http"
)

const (
	dbConnectAttempts = 5
	dbConnectDelay    = 5 * time.Second
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         repomanager.RepositoryManager
	hub           *events.Hub
	users         *services.UserService
	vessels       *services.VesselService
	notifications *services.NotificationService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	repos, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	transport, err := newTransport(c, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	var archiver mailer.Archiver
	if c.S3Bucket != "" {
		a, err := mailer.NewS3Archiver(ctx, mailer.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("s3 archive: %w", err)
		}
		archiver = a
	}

	secret, err := signingSecret(ctx, c, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	hub := events.NewHub(logger, c.CORSAllowedOrigins)
	tokens := auth.NewIssuer(secret, c.TokenValidityDuration)

	app := &App{
		config:        c,
		logger:        logger,
		repos:         repos,
		hub:           hub,
		users:         services.NewUserService(repos, tokens, c.BcryptCost, logger),
		vessels:       services.NewVesselService(repos, c.VesselPolicy, hub, logger),
		notifications: services.NewNotificationService(repos, notify.NewComposer(c.Recipients, c.AgencyEmail), transport, archiver, logger),
	}

	if _, err := app.users.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		logger.Error(ctx, "admin seeding failed", "error", err)
	}

	return app, nil
}

// signingSecret returns the configured JWT key. Outside development the
// built-in default is replaced by a random key, so tokens stop validating
// after a restart.
func signingSecret(ctx context.Context, c *config.Config, l logging.Logger) (string, error) {
	if c.IsDevelopment() || c.SecretKey != config.DefaultSecretKey {
		return c.SecretKey, nil
	}

	secret, err := shared.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}
	l.Warn(ctx, "no signing key configured, using a random one; tokens will not survive a restart")
	return secret, nil
}

// openRepositories returns the memory store for DatabaseMemory, otherwise
// connects to Postgres, retrying while the database is coming up.
func openRepositories(ctx context.Context, c *config.Config, l logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.DatabaseMemory {
		l.Warn(ctx, "using in-memory storage; data is lost on restart")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	var m *repomanager.PostgresRepositoryManager
	b := retry.WithMaxRetries(dbConnectAttempts-1, retry.NewConstant(dbConnectDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		m, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			l.Warn(ctx, "database connection failed, retrying", "error", err, "delay", dbConnectDelay.String())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newTransport(c *config.Config, l logging.Logger) (mailer.Transport, error) {
	if c.SMTPHost == "" {
		l.Warn(context.Background(), "SMTP_HOST not set; notification e-mails are logged, not sent")
		return mailer.NewLogTransport(c.EmailFrom, l), nil
	}
	t, err := mailer.NewSMTPTransport(mailer.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		Secure:   c.SMTPSecure,
		From:     c.EmailFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp transport: %w", err)
	}
	return t, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewServer(app.config, hs.Deps{
		Users:         app.users,
		Vessels:       app.vessels,
		Notifications: app.notifications,
		Repos:         app.repos,
		Hub:           app.hub,
	}, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.repos, app.config.HealthCheckInterval, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "database", app.repos.State(ctx))

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
