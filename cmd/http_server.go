package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	authPostgres "github.com/Jakababa94/kenya-liga-hub/internal/auth/postgres"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
	"github.com/Jakababa94/kenya-liga-hub/internal/match"
	matchPostgres "github.com/Jakababa94/kenya-liga-hub/internal/match/postgres"
	"github.com/Jakababa94/kenya-liga-hub/internal/payment"
	paymentPostgres "github.com/Jakababa94/kenya-liga-hub/internal/payment/postgres"
	"github.com/Jakababa94/kenya-liga-hub/internal/paymentgateway"
	"github.com/Jakababa94/kenya-liga-hub/internal/registration"
	registrationPostgres "github.com/Jakababa94/kenya-liga-hub/internal/registration/postgres"
	"github.com/Jakababa94/kenya-liga-hub/internal/team"
	teamPostgres "github.com/Jakababa94/kenya-liga-hub/internal/team/postgres"
	"github.com/Jakababa94/kenya-liga-hub/internal/tournament"
	tournamentPostgres "github.com/Jakababa94/kenya-liga-hub/internal/tournament/postgres"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport/rest"
	"github.com/Jakababa94/kenya-liga-hub/internal/user"
	userPostgres "github.com/Jakababa94/kenya-liga-hub/internal/user/postgres"
	"github.com/Jakababa94/kenya-liga-hub/pkg/kvstore"
	"github.com/Jakababa94/kenya-liga-hub/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests and M-Pesa callbacks`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	KV       kvstore.KVStore
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "callback_url", deps.Config.CallbackURL())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.close(ctx)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close(ctx context.Context) {
	if err := d.EventBus.Close(ctx); err != nil {
		d.Logger.Error("Event bus close error", "error", err)
	}
	if d.KV != nil {
		if err := d.KV.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	log := deps.Logger

	tokenCache := paymentgateway.NewMemoryTokenCache()
	health := map[string]rest.Pinger{"postgres": deps.DB.DB}
	if deps.KV != nil {
		tokenCache = paymentgateway.NewRedisTokenCache(deps.KV, cfg.Mpesa.ShortCode)
		health["redis"] = rest.PingFunc(deps.KV.Ping)
	}

	gateway := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:           cfg.Mpesa.BaseURL,
		ConsumerKey:       cfg.Mpesa.ConsumerKey,
		ConsumerSecret:    cfg.Mpesa.ConsumerSecret,
		ShortCode:         cfg.Mpesa.ShortCode,
		Passkey:           cfg.Mpesa.Passkey,
		TransactionType:   cfg.Mpesa.TransactionType,
		CallbackURL:       cfg.CallbackURL(),
		Timeout:           cfg.Mpesa.Timeout,
		RequestsPerSecond: cfg.Mpesa.RequestsPerSecond,
	}, log, paymentgateway.WithTokenCache(tokenCache))

	payment.NewEventHandler(log).RegisterEventHandlers(deps.EventBus)
	registration.NewEventHandler(log).RegisterEventHandlers(deps.EventBus)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.GormDB), tokenGen, log)
	userService := user.NewService(userPostgres.NewRepository(deps.DB), log)
	tournamentService := tournament.NewService(tournamentPostgres.NewRepository(deps.GormDB), log)
	teamService := team.NewService(teamPostgres.NewRepository(deps.GormDB), log)
	matchService := match.NewService(matchPostgres.NewRepository(deps.GormDB), log)
	registrationService := registration.NewService(
		registrationPostgres.NewRepository(deps.GormDB),
		registrationPostgres.NewEligibilityReader(deps.DB),
		deps.EventBus,
		log,
	)

	paymentRepo := paymentPostgres.NewPaymentRepository(deps.GormDB)
	initiator := payment.NewInitiator(paymentRepo, gateway, log)
	processor := payment.NewCallbackProcessor(paymentRepo, deps.EventBus, log)
	paymentService := payment.NewService(paymentRepo, log)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Tournament:   tournament.NewHandler(tournamentService),
		Team:         team.NewHandler(teamService),
		Registration: registration.NewHandler(registrationService),
		Match:        match.NewHandler(matchService),
		Payment:      payment.NewHandler(initiator, paymentService),
		Webhook:      payment.NewWebhookHandler(processor),
	}, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		Health:         health,
		Logger:         log,
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		EventBus: events.NewEventBus(log),
		Router:   chi.NewRouter(),
		Logger:   log,
	}

	if config.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		kv, err := kvstore.NewRedis(ctx, kvstore.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err != nil {
			// tokens fall back to the in-process cache
			log.Warn("redis unavailable, using in-memory token cache", "addr", config.Redis.Addr, "error", err)
		} else {
			deps.KV = kv
		}
	}

	return deps, nil
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
}
