package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bookswap-api/config"
	"bookswap-api/internal/cache"
	"bookswap-api/internal/consumer"
	"bookswap-api/internal/hashing"
	"bookswap-api/internal/producer"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/router"
	"bookswap-api/internal/sender"
	"bookswap-api/internal/service"
	"bookswap-api/internal/token"
	"bookswap-api/pkg/database"
	"bookswap-api/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// kafkaEmailQueue routes reset/notification emails through the kafka topic
// consumed by the email worker.
type kafkaEmailQueue struct{ p *producer.EmailProducer }

func (q kafkaEmailQueue) SendEmail(ctx context.Context, key, to, subject, template string, data map[string]any) error {
	return q.p.SendEmail(ctx, key, producer.EmailMessage{To: to, Subject: subject, Template: template, Data: data})
}

// inlineEmailQueue sends over SMTP directly when kafka is not configured.
type inlineEmailQueue struct{ s *sender.EmailSender }

func (q inlineEmailQueue) SendEmail(_ context.Context, _, to, subject, template string, data map[string]any) error {
	return q.s.SendEmail(sender.EmailNotification{To: to, Subject: subject, Template: template, Data: data})
}

type orderEventBus struct{ p *producer.OrderEventProducer }

func (b orderEventBus) PublishOrderEvent(ctx context.Context, ev service.OrderEvent) error {
	return b.p.Publish(ctx, ev.OrderID, ev)
}

// @title BookSwap API
// @version 1.0
// @description Campus book exchange backend: catalog, orders, helpdesk, finance.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		var err error
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
	} else {
		log.Info("redis disabled")
	}

	hasher := hashing.NewBcrypt(0)
	tokens := token.NewHSProvider(cfg.JWT.AccessSecret, cfg.JWT.Issuer, cfg.JWT.Audience)

	var emailSender *sender.EmailSender
	if cfg.SMTP.Enabled {
		emailSender = sender.NewEmailSender(&cfg.SMTP)
	}

	var emailQueue service.EmailQueue
	var bus service.EventBus
	if cfg.Kafka.Enabled {
		emailProducer := producer.NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.EmailTopic)
		defer emailProducer.Close()
		orderProducer := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer orderProducer.Close()
		emailQueue = kafkaEmailQueue{p: emailProducer}
		bus = orderEventBus{p: orderProducer}
		log.Info("kafka producers enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else if emailSender != nil {
		emailQueue = inlineEmailQueue{s: emailSender}
		log.Info("kafka disabled, sending email inline")
	} else {
		log.Info("email disabled")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var emailConsumer *consumer.KafkaEmailConsumer
	if cfg.Kafka.Enabled && emailSender != nil {
		emailConsumer = consumer.NewKafkaEmailConsumer(
			cfg.Kafka.Brokers, cfg.Kafka.EmailGroup, cfg.Kafka.EmailTopic, emailSender, log)
		go func() {
			if err := emailConsumer.Run(workerCtx); err != nil {
				log.Error("email consumer stopped", zap.Error(err))
			}
		}()
	}

	var limiter service.RateLimiter
	var statsCache service.StatsCache
	if redisClient != nil {
		limiter = redisClient
		statsCache = redisClient
	}

	svcs := router.Services{
		Users:         service.NewUserService(repos, hasher, tokens, emailQueue, limiter, cfg.JWT.AccessTTL, log),
		Catalog:       service.NewCatalogService(repos, log),
		Orders:        service.NewOrderService(repos, bus, log),
		Tickets:       service.NewTicketService(repos, statsCache, log),
		Finance:       service.NewFinanceService(repos, log),
		Notifications: service.NewNotificationService(repos),
		Loans:         service.NewLoanService(repos, log),
		Tokens:        tokens,
	}

	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: router.Router(svcs, log),
	}

	go func() {
		log.Info("starting http server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	workerCancel()
	if emailConsumer != nil {
		if err := emailConsumer.Close(); err != nil {
			log.Warn("email consumer close failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped gracefully")
}
