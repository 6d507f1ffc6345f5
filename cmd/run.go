package cmd

import (
	"context"
	"fmt"
	"time"

	"wagerbook/application"
	"wagerbook/config"
	"wagerbook/database"
	"wagerbook/events"
	"wagerbook/infrastructure/observability"
	"wagerbook/repository"

	log "github.com/sirupsen/logrus"
)

// components are the pieces shared by every entry point
type components struct {
	db         *database.DB
	eventBus   *events.Bus
	uowFactory application.UnitOfWorkFactory
	engine     *application.SettlementEngine
}

// bootstrap connects to the database and wires the event bus, subscribers
// and unit of work factory
func bootstrap(ctx context.Context, cfg *config.Config) (*components, error) {
	configureLogging(cfg)

	log.Println("Initializing metrics...")
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	application.RegisterAuditSubscriptions(eventBus)
	observability.RegisterMetricsSubscriptions(eventBus, observability.GetMetrics())
	log.Println("Event bus initialized successfully")

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	return &components{
		db:         db,
		eventBus:   eventBus,
		uowFactory: uowFactory,
		engine:     application.NewSettlementEngine(uowFactory, eventBus),
	}, nil
}

func configureLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
		log.SetLevel(log.InfoLevel)
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.DebugLevel)
}

// close releases the database pool and flushes metrics
func (c *components) close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	log.Println("Closing database connection...")
	c.db.Close()
}

// Run starts the service and blocks until ctx is cancelled
func Run(ctx context.Context) error {
	log.Println("Starting wagerbook...")

	cfg := config.Get()

	c, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.close()

	stopWorker := func() {}
	if cfg.SettlementEnabled {
		log.Println("Starting settlement worker...")
		worker := application.NewSettlementWorker(c.engine, cfg.SettlementSchedule)
		stopWorker, err = worker.Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start settlement worker: %w", err)
		}
	} else {
		log.Println("Settlement worker disabled")
	}

	log.Printf("Wagerbook is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Println("Shutting down...")
	stopWorker()
	log.Println("Shutdown completed")

	return nil
}
