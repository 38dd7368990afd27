// Package server wires configuration, secrets, storage and the HTTP
// layer together and runs the application until it is told to stop.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/cvyas/quotewall/internal/logging"
	"github.com/cvyas/quotewall/internal/secrets"
	"github.com/cvyas/quotewall/internal/server/config"
	"github.com/cvyas/quotewall/internal/server/db"
	"github.com/cvyas/quotewall/internal/server/httpapi"
	"github.com/cvyas/quotewall/internal/server/repositories/repomanager"
	"github.com/cvyas/quotewall/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.Manager
	server  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, repos, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx, manager.Conn()); err != nil {
		manager.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	es := services.NewEntryService(manager, repos, cfg, logger)
	srv := httpapi.NewServer(cfg.EndpointAddr, es, logger, cfg.SecretKey)

	return &App{config: cfg, logger: logger, manager: manager, server: srv}, nil
}

// secretProvider picks the credential source named in the config.
func secretProvider(cfg *config.Config) (secrets.Provider, error) {
	switch cfg.SecretSource {
	case config.SecretSourceManager:
		return secrets.NewManagerProvider(cfg.SecretName, cfg.AWSRegion,
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey), nil
	case config.SecretSourceEnv:
		return secrets.EnvProvider{}, nil
	case config.SecretSourceStatic:
		return secrets.StaticProvider{Credentials: secrets.Credentials{
			Username: cfg.DBUser,
			Password: cfg.DBPassword,
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			DBName:   cfg.DBName,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown secret source: %q", cfg.SecretSource)
	}
}

// initStorage builds the connection manager and repository manager for
// the configured engine. SQLite needs no credentials, so the secret
// provider is only consulted for postgres.
func initStorage(ctx context.Context, cfg *config.Config) (db.Manager, repomanager.RepositoryManager, error) {
	switch cfg.DBEngine {
	case config.EnginePostgres:
		provider, err := secretProvider(cfg)
		if err != nil {
			return nil, nil, err
		}
		creds, err := provider.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		m, err := db.NewPostgresManager(cfg, creds)
		if err != nil {
			return nil, nil, err
		}
		return m, &repomanager.PostgresRepositoryManager{}, nil
	case config.EngineSQLite:
		m, err := db.NewSQLiteManager(cfg)
		if err != nil {
			return nil, nil, err
		}
		return m, &repomanager.SQLiteRepositoryManager{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown db engine: %q", cfg.DBEngine)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "app stopped")
}
