package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	cancellation "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/memory"
	postgresadapter "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/postgres"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/redisflood"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/smtp"
	sqliteadapter "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/adapters/sqlite"
	workerapp "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application/workers"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/render"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/internal/platform/config"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/internal/platform/db"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	purger       workerapp.ArtifactPurger
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	settings, err := config.LoadClientSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}

	stores, pg, err := buildStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	flood := ports.FloodStore(stores.flood)
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		flood = redisflood.New(rdb, redisflood.WithTTL(2*cfg.FloodWindow))
	}

	var mailer ports.Mailer
	if strings.TrimSpace(cfg.SMTPHost) != "" {
		mailer = smtp.NewMailer(smtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	} else {
		// No transport configured: capture mail in memory so local runs
		// still exercise the full pipeline.
		mailer = memory.NewMailer(logger)
	}

	module := cancellation.NewModule(cancellation.Dependencies{
		Settings:       settings,
		Flood:          flood,
		Artifacts:      stores.artifacts,
		Deliveries:     stores.deliveries,
		Mailer:         mailer,
		Renderer:       render.FormRenderer{},
		Clock:          postgresadapter.SystemClock{},
		FloodThreshold: cfg.FloodThreshold,
		FloodWindow:    cfg.FloodWindow,
		BaseURL:        cfg.BaseURL,
		Logger:         logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	stores, pg, err := buildStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		purger: workerapp.ArtifactPurger{
			Artifacts:  stores.artifacts,
			Deliveries: stores.deliveries,
			Clock:      postgresadapter.SystemClock{},
			Retention:  cfg.ArtifactRetention,
			Logger:     logger,
		},
		pollInterval: cfg.PurgeInterval,
		logger:       logger,
	}, nil
}

// boundStores carries the persistence ports resolved for the configured
// backend. All three come from the same repository instance.
type boundStores struct {
	flood      ports.FloodStore
	artifacts  ports.ArtifactStore
	deliveries ports.DeliveryRecordStore
}

func buildStores(cfg config.Config, logger *slog.Logger) (boundStores, *db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return boundStores{}, nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, cfg.ArtifactDir, logger)
		if err := repo.Migrate(); err != nil {
			_ = pg.Close()
			return boundStores{}, nil, err
		}
		return boundStores{flood: repo, artifacts: repo, deliveries: repo}, pg, nil
	}

	sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return boundStores{}, nil, err
	}
	repo, err := sqliteadapter.New(sqlDB, cfg.ArtifactDir)
	if err != nil {
		sqlDB.Close()
		return boundStores{}, nil, err
	}
	return boundStores{flood: repo, artifacts: repo, deliveries: repo}, nil, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.purger.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
