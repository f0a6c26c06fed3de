package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
	"phone_orders/internal/database"
	"phone_orders/internal/handlers"
	"phone_orders/internal/logger"
	"phone_orders/internal/menu"
	"phone_orders/internal/rabbitmq"
	"phone_orders/internal/redis"
	"phone_orders/internal/repository"
	"phone_orders/internal/services"
	"phone_orders/pkg/telnyx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		log.Fatal().Err(err).Msg("failed to load env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Log)
	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Order store: Redis when configured, otherwise process memory
	store := repository.NewMemoryOrderStore()
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()
		store = repository.NewRedisOrderStore(redisClient, cfg.OrderIdleTTL)
		log.Info().Msg("pending orders stored in Redis")
	}

	// Confirmed order archive
	var archive services.OrderArchive
	var archiveReader handlers.OrderArchiveReader
	if cfg.DatabaseURL != "" {
		db, err := database.Initialize(cfg.DatabaseURL, cfg.Log.Debug)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		repo := repository.NewConfirmedOrderRepository(db)
		archive, archiveReader = repo, repo
	}

	// Kitchen tickets
	var kitchen services.KitchenPublisher
	if cfg.AMQPURL != "" {
		mq, err := rabbitmq.Dial(cfg.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer mq.Close()
		if err := mq.DeclareTopicExchange(rabbitmq.KitchenExchange); err != nil {
			log.Fatal().Err(err).Msg("failed to declare kitchen exchange")
		}
		kitchen = rabbitmq.NewKitchenPublisher(mq, rabbitmq.KitchenExchange)
	}

	// Initialize services
	catalog := menu.NewCatalog(menu.DefaultItems(), cfg.CurrencySymbol)
	orderService := services.NewOrderService(catalog, store, archive, kitchen, services.OrderConfig{
		Platform:               string(cfg.Platform),
		LargeQuantityThreshold: cfg.LargeQuantityThreshold,
		IdleTTL:                cfg.OrderIdleTTL,
	})
	dispatcher := services.NewToolDispatcher(orderService)

	// Initialize handlers
	profile := config.Profile{RestaurantName: cfg.RestaurantName, WebsiteURL: cfg.WebsiteURL}
	tools := handlers.NewToolHandler(handlers.AdapterFor(cfg.Platform), dispatcher)
	router := handlers.Router{
		Platform: cfg.Platform,
		Tools:    tools,
		Health:   handlers.NewHealthHandler(string(cfg.Platform)),
		Retell:   handlers.NewRetellHandler(orderService, profile),
		Vapi:     handlers.NewVapiHandler(tools, orderService),
	}
	if cfg.Platform == config.PlatformTelnyx {
		router.Telnyx = handlers.NewTelnyxHandler(
			telnyx.NewClient(cfg.Telnyx.BaseURL, cfg.Telnyx.APIKey),
			orderService,
			cfg.Telnyx,
			agent.Profile{
				RestaurantName:      cfg.RestaurantName,
				WebsiteURL:          cfg.WebsiteURL,
				LargeQuantityLimit:  cfg.LargeQuantityThreshold,
				CallTimeLimitMinute: 1,
			},
		)
	}
	if archiveReader != nil && cfg.AdminTokenHash != "" {
		router.Admin = handlers.NewAdminHandler(archiveReader, cfg.AdminTokenHash)
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("platform", string(cfg.Platform)).
			Str("port", cfg.ServerPort).
			Str("restaurant", cfg.RestaurantName).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return orderService.RunJanitor(gctx, cfg.JanitorInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}
