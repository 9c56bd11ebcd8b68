package bootstrap

import (
	"context"
	"fmt"

	"project-ledger-be/internal/config"
	"project-ledger-be/internal/constant"
	"project-ledger-be/internal/controller"
	"project-ledger-be/internal/handler"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/internal/repository/contract"
	"project-ledger-be/internal/repository/implementation"
	"project-ledger-be/internal/repository/memory"
	"project-ledger-be/internal/repository/unitofwork"
	"project-ledger-be/internal/service"
	"project-ledger-be/internal/websocket"
	"project-ledger-be/pkg/database"
	"project-ledger-be/pkg/ledger"
	"project-ledger-be/pkg/llm/factory"

	pktNats "project-ledger-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NotebookController controller.INotebookController
	NoteController     controller.INoteController
	LedgerController   controller.ILedgerController
	ResearchController controller.IResearchController
	SettingsController controller.ISettingsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	Store           *ledger.Store

	// WebSockets
	FingerprintHandler *handler.FingerprintHandler
	WebSocketHub       *websocket.Hub

	closers []func()
}

func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{}

	// 1. Infrastructure
	rdb := connectRedis(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	medium, uowFactory, err := c.storage(cfg, rdb, sysLogger)
	if err != nil {
		return nil, err
	}

	var natsPub *pktNats.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
			natsPub = nil
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Ledger store, attached to the bus before it loads so the startup
	// fingerprint is seen by the consumer
	store := ledger.NewStore(medium,
		ledger.WithStorageKey(cfg.Storage.LedgerKey),
		ledger.WithLogger(sysLogger),
	)
	publisherService := service.NewPublisherService(constant.LedgerEventsTopic, pubSub, sysLogger)
	c.closers = append(c.closers, publisherService.Attach(store))

	wsHub := websocket.NewHub(rdb, sysLogger)

	var forwarder service.EventForwarder
	if natsPub != nil {
		forwarder = natsPub
	}
	consumerService := service.NewConsumerService(
		pubSub,
		constant.LedgerEventsTopic,
		uowFactory,
		wsHub,
		forwarder,
		cfg.Storage.RevisionRetention,
		sysLogger,
	)

	// 4. Services
	settingsService := service.NewSettingsService(medium, cfg.Ai.GoogleGemini, sysLogger)

	chain, err := factory.NewChain(cfg.Ai.ProviderOrder, factory.Config{
		GeminiKey:        settingsService.ResolveGeminiKey,
		GeminiModel:      cfg.Ai.GeminiModel,
		GeminiImageModel: cfg.Ai.GeminiImageModel,
		GeminiBaseURL:    cfg.Ai.GeminiBaseURL,
		OllamaBaseURL:    cfg.Ai.OllamaBaseURL,
		OllamaModel:      cfg.Ai.OllamaModel,
	}, sysLogger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize LLM chain: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider chain ready", map[string]interface{}{"providers": chain.Providers()})

	notebookService := service.NewNotebookService(store)
	noteService := service.NewNoteService(store)
	ledgerService := service.NewLedgerService(store, uowFactory)
	researchService := service.NewResearchService(store, chain, sysLogger)

	// 5. Controllers
	c.NotebookController = controller.NewNotebookController(notebookService)
	c.NoteController = controller.NewNoteController(noteService)
	c.LedgerController = controller.NewLedgerController(ledgerService)
	c.ResearchController = controller.NewResearchController(researchService)
	c.SettingsController = controller.NewSettingsController(settingsService)

	c.ConsumerService = consumerService
	c.Store = store
	c.FingerprintHandler = handler.NewFingerprintHandler(ledgerService, wsHub, sysLogger)
	c.WebSocketHub = wsHub

	return c, nil
}

// storage picks the medium holding the ledger and the unit of work factory
// holding revisions.
func (c *Container) storage(cfg *config.Config, rdb *redis.Client, log logger.ILogger) (contract.LedgerEntryRepository, unitofwork.RepositoryFactory, error) {
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		db, err := database.NewGormDBFromDSN(cfg.Storage.Connection, cfg.Storage.VerboseSQL)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to GORM DB: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate ledger tables: %w", err)
		}
		c.closers = append(c.closers, func() { closeDB(db) })
		log.Info("BOOTSTRAP", "Using postgres storage", nil)
		return implementation.NewLedgerEntryRepository(db), unitofwork.NewRepositoryFactory(db), nil

	case config.StorageRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("STORAGE_BACKEND=redis requires a reachable REDIS_URL")
		}
		log.Info("BOOTSTRAP", "Using redis storage", map[string]interface{}{"prefix": cfg.Storage.RedisPrefix})
		return implementation.NewRedisLedgerEntryRepository(rdb, cfg.Storage.RedisPrefix), unitofwork.NewMemoryRepositoryFactory(), nil

	case config.StorageMemory, "":
		log.Info("BOOTSTRAP", "Using in-memory storage, the ledger is lost on restart", nil)
		return memory.NewLedgerEntryRepository(), unitofwork.NewMemoryRepositoryFactory(), nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Storage.Backend)
	}
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis, running single instance", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Close releases infrastructure in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
