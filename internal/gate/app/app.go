package app

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

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	httpapi "github.com/aussiebroadwan/bananabrain/internal/gate/http"
	"github.com/aussiebroadwan/bananabrain/internal/gate/identity"
	"github.com/aussiebroadwan/bananabrain/internal/gate/mail"
	"github.com/aussiebroadwan/bananabrain/internal/gate/puzzle"
	"github.com/aussiebroadwan/bananabrain/internal/gate/replay"
	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store/drivers/sqlite"
	"github.com/aussiebroadwan/bananabrain/pkg/cryptox"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
	"github.com/aussiebroadwan/bananabrain/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the gate process with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      *sqlite.Store
	idp     *identity.Local
	mailer  mail.Sender
	codec   *tokenx.Codec[domain.AnswerPayload]
	puzzles *puzzle.Client
	spent   *replay.Guard // Optional: nil unless REDIS_URL is set
	hasher  *cryptox.PasswordHasher
	events  *service.SessionEvents

	answerService       *service.AnswerService
	mfaService          *service.MFAService
	passwordService     *service.PasswordService
	emailCodeService    *service.EmailCodeService // Optional: EMAIL_CODES_ENABLED
	leaderboardService  *service.LeaderboardService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bananabrain-gate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	secret, err := InitTokenSecret(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.codec, err = tokenx.NewCodec[domain.AnswerPayload](secret, tokenx.WithLeeway(cfg.TokenLeeway))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initUpstreams(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("gate starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"single_use_tokens", app.spent != nil,
		"email_codes", app.emailCodeService != nil,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains HTTP, stops housekeeping and closes the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.spent != nil {
		if err := app.spent.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gate stopped")
	return nil
}

func (app *Application) initDatabase() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initUpstreams builds the mailer, the puzzle client and the optional
// Redis replay guard.
func (app *Application) initUpstreams() error {
	if app.cfg.SMTPHost != "" {
		sender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			TLS:      app.cfg.SMTPTLS,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.SMTPFrom,
			Timeout:  app.cfg.UpstreamTimeout,
		}, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize smtp: %w", err)
		}
		app.mailer = sender
	} else {
		app.logger.Warn("SMTP_HOST not set, outgoing email will be logged and dropped")
		app.mailer = mail.LogSender{Logger: app.logger}
	}

	puzzles, err := puzzle.New(app.cfg.PuzzleURL, &http.Client{Timeout: app.cfg.UpstreamTimeout})
	if err != nil {
		return fmt.Errorf("failed to initialize puzzle client: %w", err)
	}
	app.puzzles = puzzles

	if app.cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.UpstreamTimeout)
		defer cancel()

		guard, err := replay.NewFromURL(ctx, app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.spent = guard
		app.logger.Info("single-use answer tokens enabled")
	}

	return nil
}

func (app *Application) initServices() {
	app.idp = identity.NewLocal(app.db, app.hasher, app.mailer, app.logger, identity.Config{
		Issuer:       app.cfg.TOTPIssuer,
		SessionTTL:   app.cfg.SessionTTL,
		RecoveryTTL:  app.cfg.RecoveryTTL,
		ChallengeTTL: app.cfg.ChallengeTTL,
		ResetURL:     app.cfg.ResetURL(),
	})

	app.answerService = &service.AnswerService{
		Source:  app.puzzles,
		Codec:   app.codec,
		TTL:     app.cfg.AnswerTokenTTL,
		Timeout: app.cfg.UpstreamTimeout,
		Logger:  app.logger,
	}
	if app.spent != nil {
		app.answerService.Spent = app.spent
	}

	app.events = service.NewSessionEvents()
	app.mfaService = &service.MFAService{
		Provider: app.idp,
		Timeout:  app.cfg.UpstreamTimeout,
		Logger:   app.logger,
		Events:   app.events,
	}
	app.passwordService = &service.PasswordService{
		Provider: app.idp,
		Timeout:  app.cfg.UpstreamTimeout,
		Events:   app.events,
	}
	app.leaderboardService = &service.LeaderboardService{
		Store:  app.db,
		Logger: app.logger,
	}

	if app.cfg.EmailCodesEnabled {
		app.emailCodeService = &service.EmailCodeService{
			Store:   app.db,
			Mailer:  app.mailer,
			TTL:     app.cfg.EmailCodeTTL,
			Timeout: app.cfg.UpstreamTimeout,
			Logger:  app.logger,
		}
		app.logger.Info("email code endpoints enabled")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.Limits = httpx.LimitsFromEnv()
	router.ResetPath = app.cfg.PasswordResetPath
	router.UpstreamTimeout = app.cfg.UpstreamTimeout
	router.Events = app.events
	if app.spent != nil {
		router.Replay = app.spent
	}

	router.Accounts = app.idp
	router.Assurance = app.idp
	router.AnswerService = app.answerService
	router.MFAService = app.mfaService
	router.PasswordService = app.passwordService
	router.EmailCodeService = app.emailCodeService // nil unless enabled
	router.LeaderboardService = app.leaderboardService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
