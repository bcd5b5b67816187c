package container

import (
	"context"
	"fmt"

	"github.com/allkinds24/allkinds-backend/internal/config"
	httpdelivery "github.com/allkinds24/allkinds-backend/internal/delivery/http"
	"github.com/allkinds24/allkinds-backend/internal/delivery/http/handler"
	"github.com/allkinds24/allkinds-backend/internal/delivery/http/middleware"
	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/infrastructure/database"
	"github.com/allkinds24/allkinds-backend/internal/infrastructure/deeplink"
	"github.com/allkinds24/allkinds-backend/internal/infrastructure/events"
	"github.com/allkinds24/allkinds-backend/internal/infrastructure/logger"
	"github.com/allkinds24/allkinds-backend/internal/infrastructure/notify"
	"github.com/allkinds24/allkinds-backend/internal/infrastructure/server"
	"github.com/allkinds24/allkinds-backend/internal/repository/postgres"
	"github.com/allkinds24/allkinds-backend/internal/repository/redisstore"
	"github.com/allkinds24/allkinds-backend/internal/usecase/chat"
	"github.com/allkinds24/allkinds-backend/internal/usecase/match"
	"github.com/allkinds24/allkinds-backend/internal/usecase/matching"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Events *events.Bus
	Server *server.Server
}

// NewMatchmaker builds the matching process: propose, confirm and cancel
// flows plus the proposal store.
func NewMatchmaker(cfg *config.Config) (*Container, error) {
	log := logger.New(&cfg.Logging, cfg.Server.Env == "production")

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	bus := events.NewBus(log)
	if err := events.LogConsumer(context.Background(), bus, log,
		domain.TopicMatchProposed,
		domain.TopicMatchConfirmed,
	); err != nil {
		return nil, fmt.Errorf("failed to attach event consumer: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	answerRepo := postgres.NewAnswerRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	sessionRepo := postgres.NewChatSessionRepository(db)
	messageRepo := postgres.NewChatMessageRepository(db)
	transactor := postgres.NewTransactor(db)
	proposalStore := redisstore.NewProposalStore(redisClient)

	// Use cases
	finder := matching.NewFinder(answerRepo, groupRepo, cfg.Matching.MinSharedQuestions)
	coordinator := chat.NewCoordinator(sessionRepo, messageRepo, bus, log)
	linkIssuer := deeplink.NewIssuer(cfg.DeepLink.BotUsername)
	notifier := notify.NewGatewayNotifier(cfg.Chat.GatewayURL, log)

	matchService := match.NewService(
		finder,
		matchRepo,
		userRepo,
		proposalStore,
		coordinator,
		transactor,
		linkIssuer,
		notifier,
		bus,
		cfg.Matching,
		log,
	)

	// Delivery
	matchHandler := handler.NewMatchHandler(matchService)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.ServiceSecret)
	router := httpdelivery.NewMatchmakerRouter(matchHandler, authMiddleware)

	srv := server.NewServer(&cfg.Server, router.Setup(), log)

	return &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  redisClient,
		Events: bus,
		Server: srv,
	}, nil
}

// NewCommunicator builds the chat process: deep-link handoff, message relay,
// identity reveal and session teardown.
func NewCommunicator(cfg *config.Config) (*Container, error) {
	log := logger.New(&cfg.Logging, cfg.Server.Env == "production")

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewBus(log)
	if err := events.LogConsumer(context.Background(), bus, log,
		domain.TopicSessionStarted,
		domain.TopicMessageRelayed,
		domain.TopicSessionEnded,
	); err != nil {
		return nil, fmt.Errorf("failed to attach event consumer: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewChatSessionRepository(db)
	messageRepo := postgres.NewChatMessageRepository(db)
	blockRepo := postgres.NewBlockedUserRepository(db)

	// Use cases
	coordinator := chat.NewCoordinator(sessionRepo, messageRepo, bus, log)
	notifier := notify.NewGatewayNotifier(cfg.Chat.GatewayURL, log)
	relay := chat.NewRelay(
		sessionRepo,
		messageRepo,
		blockRepo,
		userRepo,
		notifier,
		bus,
		cfg.Chat.DeliveryMaxAttempts,
		log,
	)
	linkIssuer := deeplink.NewIssuer(cfg.DeepLink.BotUsername)

	// Delivery
	chatHandler := handler.NewChatHandler(coordinator, relay, linkIssuer)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.ServiceSecret)
	router := httpdelivery.NewCommunicatorRouter(chatHandler, authMiddleware)

	srv := server.NewServer(&cfg.Server, router.Setup(), log)

	return &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Events: bus,
		Server: srv,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			c.Logger.Warn("error closing event bus", zap.Error(err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
