package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	campaignregistry "crowdfund/contexts/crowdfunding/campaign-registry"
	campaignevents "crowdfund/contexts/crowdfunding/campaign-registry/adapters/events"
	campaignmemory "crowdfund/contexts/crowdfunding/campaign-registry/adapters/memory"
	campaignpostgres "crowdfund/contexts/crowdfunding/campaign-registry/adapters/postgres"
	"crowdfund/contexts/crowdfunding/campaign-registry/application/workers"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	campaignports "crowdfund/contexts/crowdfunding/campaign-registry/ports"
	identitydirectory "crowdfund/contexts/crowdfunding/identity-directory"
	identitypostgres "crowdfund/contexts/crowdfunding/identity-directory/adapters/postgres"
	"crowdfund/internal/platform/config"
	"crowdfund/internal/platform/db"
	"crowdfund/internal/platform/httpserver"
	"crowdfund/internal/platform/keylock"
	"crowdfund/internal/platform/messaging"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server     *httpserver.Server
	bus        *messaging.Bus
	changeFeed workers.ChangeFeedConsumer
	postgres   *db.Postgres
	logger     *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  workers.OutboxRelay
	changeFeed   workers.ChangeFeedConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg config.Config, process string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return BuildAPIFromConfig(cfg, NewLogger(cfg, "api"))
}

// BuildAPIFromConfig wires both modules onto the configured storage backend.
// The memory backend publishes changes straight to an in-process bus and logs
// them from a change-feed consumer; the postgres backend appends them to the
// outbox for the worker to relay.
func BuildAPIFromConfig(cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bus := messaging.NewBus(logger)
	app := &APIApp{
		bus:    bus,
		logger: logger,
	}

	var (
		identities identitydirectory.Module
		campaigns  campaignregistry.Module
	)
	switch cfg.StorageBackend {
	case config.StorageMemory:
		identities = identitydirectory.NewInMemoryModule(nil, logger)
		store := campaignmemory.NewStore(nil)
		campaigns = campaignregistry.NewModule(campaignregistry.Dependencies{
			Campaigns: store,
			Reader:    store,
			Registry:  campaignports.RegistrationCheckerFunc(identities.IsRegistered.Execute),
			Locks:     keylock.New(),
			Notifier: campaignevents.BusNotifier{
				Publisher:   bus,
				IDGenerator: store,
				Clock:       store,
			},
			Clock:       store,
			MaxPageSize: cfg.MaxPageSize,
			Logger:      logger,
		})
		campaigns.Store = store
		app.changeFeed = workers.ChangeFeedConsumer{
			Subscriber:    bus,
			ConsumerGroup: "campaign-registry-api-change-log",
			Handle:        logChange(logger),
			Logger:        logger,
		}
	case config.StoragePostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, errors.New("POSTGRES_DSN is required")
		}
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.postgres = pg

		identities = identitydirectory.NewModule(identitydirectory.Dependencies{
			Profiles: identitypostgres.NewRepository(pg.DB, logger),
			Clock:    identitypostgres.SystemClock{},
			Logger:   logger,
		})
		repo := campaignpostgres.NewRepository(pg.DB, logger)
		campaigns = campaignregistry.NewModule(campaignregistry.Dependencies{
			Campaigns: repo,
			Reader:    repo,
			Registry:  campaignports.RegistrationCheckerFunc(identities.IsRegistered.Execute),
			Locks:     keylock.New(),
			Notifier: campaignevents.OutboxNotifier{
				Outbox:      repo,
				IDGenerator: campaignpostgres.UUIDGenerator{},
				Clock:       campaignpostgres.SystemClock{},
			},
			Clock:       campaignpostgres.SystemClock{},
			MaxPageSize: cfg.MaxPageSize,
			Logger:      logger,
		})
	default:
		return nil, errors.New("unknown storage backend " + cfg.StorageBackend)
	}

	app.server = httpserver.New(identities, campaigns, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg, "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	repo := campaignpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: workers.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     campaignpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		changeFeed: workers.ChangeFeedConsumer{
			Subscriber:    bus,
			ConsumerGroup: "campaign-registry-change-feed",
			Handle:        logChange(logger),
			Logger:        logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

// Run serves HTTP and consumes the change feed until ctx is cancelled. The
// feed subscribes before the server accepts requests so no change published
// by a request can miss it.
func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.bus.Wait()
	}()

	if a.changeFeed.Subscriber != nil {
		if err := a.changeFeed.Start(ctx); err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.server.Run(groupCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run subscribes the change feed, then relays outbox rows to the bus on every
// poll tick until ctx is cancelled. Rows are only marked published once the
// feed is listening.
func (w *WorkerApp) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		w.bus.Wait()
	}()

	if err := w.changeFeed.Start(ctx); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return w.relayLoop(groupCtx)
	})
	return group.Wait()
}

func (w *WorkerApp) relayLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		// A busy subscriber leaves the rest of the batch pending for the
		// next tick.
		if err := w.outboxRelay.RunOnce(ctx); err != nil && !errors.Is(err, messaging.ErrSubscriberBusy) {
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

func logChange(logger *slog.Logger) func(context.Context, entities.Change) error {
	return func(_ context.Context, change entities.Change) error {
		logger.Info("campaign change applied to feed",
			"event", "campaign_change_feed_applied",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"change_type", change.ChangeType(),
			"owner", change.PartitionOwner(),
		)
		return nil
	}
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
