package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/config"
	"github.com/xavierca1/zapvendas/internal/infra/catalog"
	"github.com/xavierca1/zapvendas/internal/infra/database"
	"github.com/xavierca1/zapvendas/internal/infra/http/handlers"
	"github.com/xavierca1/zapvendas/internal/infra/http/middleware"
	"github.com/xavierca1/zapvendas/internal/infra/integration/kommo"
	"github.com/xavierca1/zapvendas/internal/infra/integration/ollama"
	"github.com/xavierca1/zapvendas/internal/infra/integration/whatsapp"
	"github.com/xavierca1/zapvendas/internal/infra/logger"
	"github.com/xavierca1/zapvendas/internal/infra/mail"
	"github.com/xavierca1/zapvendas/internal/infra/queue"
	"github.com/xavierca1/zapvendas/internal/infra/worker"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ invalid configuration")
	}
	baseLogger := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ failed to connect to database")
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("❌ failed to apply migrations")
		}
	}

	leadRepo := database.NewLeadRepository(db)
	chatRepo := database.NewChatRepository(db)
	orderRepo := database.NewOrderRepository(db)

	// 2. Lead events
	var events usecase.EventPublisher = usecase.NopPublisher{}
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ failed to connect to rabbitmq")
		}
		defer rabbitMQ.Close()
		events = queue.NewProducer(rabbitMQ.Ch)

		var notifier queue.HandoffNotifier
		if cfg.MailConfigured() {
			notifier = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass,
				cfg.MailFrom, cfg.HandoffNotifyEmail, cfg.StoreName)
		}
		var crm queue.OrderSyncer
		if cfg.KommoConfigured() {
			crm = kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL, cfg.KommoStatusID)
		}

		eventsWorker := queue.NewWorker(rabbitMQ.Ch, notifier, crm)
		go func() {
			if err := eventsWorker.Start(ctx); err != nil {
				log.Error().Err(err).Msg("lead events worker exited")
			}
		}()
	} else {
		log.Warn().Msg("AMQP_URL not set, lead events are not published")
	}

	// 3. Responder
	storeCatalog, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ failed to load catalog")
	}
	model := ollama.NewClient(ollama.Config{
		BaseURL:     cfg.OllamaURL,
		Model:       cfg.OllamaModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	})
	responder := usecase.NewResponder(storeCatalog, model, usecase.ResponderOptions{
		StoreName: cfg.StoreName,
		Timeout:   cfg.LLMTimeout,
	})
	conversations := usecase.NewConversationService(leadRepo, chatRepo, responder, events, cfg.HistoryLimit)

	// 4. WhatsApp gateway
	var sender usecase.MessageSender = disabledSender{}
	var gateway *whatsapp.Gateway
	if cfg.WhatsAppEnabled {
		waLogger := baseLogger.With().Str("component", "whatsmeow").Logger().Level(logger.ParseLevel(cfg.WhatsAppLogLevel))
		store, err := whatsapp.OpenDeviceStore(ctx, cfg.WhatsAppStoreDSN, waLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ failed to open whatsapp device store")
		}
		defer store.Close()

		gateway = whatsapp.NewGateway(store, conversations, whatsapp.Config{
			ReconnectDelay: cfg.WhatsAppReconnectDelay,
			TypingDelay:    cfg.TypingDelay,
		})
		if err := gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("⚠️ first whatsapp connection attempt failed, retrying in background")
		}
		sender = gateway
	} else {
		log.Warn().Msg("WhatsApp gateway disabled")
	}

	// 5. Background jobs
	staleWorker := worker.NewStaleLeadWorker(leadRepo, cfg.LeadStaleAfter, cfg.LeadSweepInterval)
	go staleWorker.Start(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	go limiter.Cleanup(ctx, 10*time.Minute)

	// 6. HTTP
	router := newRouter(routes{
		Health:   handlers.NewHealthHandler(db, sender, model),
		Leads:    handlers.NewLeadHandler(usecase.NewLeadService(leadRepo)),
		Messages: handlers.NewMessageHandler(usecase.NewMessagingService(sender, chatRepo, cfg.BroadcastDelay)),
		Orders:   handlers.NewOrderHandler(usecase.NewOrderService(orderRepo, leadRepo, events)),
		Limiter:  limiter,
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("🔥 API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if gateway != nil {
		gateway.Stop(shutdownCtx)
	}
}

// disabledSender stands in for the gateway when WHATSAPP_ENABLED=false.
type disabledSender struct{}

func (disabledSender) Send(context.Context, string, string) error { return whatsapp.ErrNotConnected }

func (disabledSender) SendWithTyping(context.Context, string, string) error {
	return whatsapp.ErrNotConnected
}

func (disabledSender) IsConnected() bool { return false }

func (disabledSender) State() string { return "disabled" }
