package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	"directstay/internal/infra/broker/kafka"
	"directstay/internal/infra/config"
	ginserver "directstay/internal/infra/http/gin"
	"directstay/internal/infra/obs"
	infraoutbox "directstay/internal/infra/outbox"
	"directstay/internal/infra/schedule"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev", "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	infra, err := buildInfrastructure(ctx, cfg, logger)
	if err != nil {
		logger.Error("infrastructure init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		infra.close(closeCtx, logger)
	}()

	app := buildApplication(infra.deps)
	readiness := obs.Readiness{Checks: infra.checks}

	producer := startOutboxRelay(ctx, cfg, infra, logger)
	if producer != nil {
		defer producer.Close()
	}
	startPaymentConsumer(ctx, cfg, app, logger)

	scheduler := schedule.NewScheduler(logger)
	for _, job := range infra.jobs {
		if err := scheduler.Register(job); err != nil {
			logger.Error("cron job rejected", "job", job.Name, "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	grpcHealth := obs.NewGRPCHealth(readiness.Check, logger)
	go grpcHealth.Watch(ctx)
	go serveGRPC(cfg.GRPCAddr, grpcHealth, logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: readiness.Check}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		grpcHealth.Server.GracefulStop()
		scheduler.Stop(shutdownCtx)
	}()

	logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// startOutboxRelay runs the relay against Kafka, or against the log producer when no brokers are set.
func startOutboxRelay(ctx context.Context, cfg config.Config, infra *infrastructure, logger *slog.Logger) *kafka.Producer {
	var (
		producer infraoutbox.Producer = infraoutbox.LogProducer{Logger: logger}
		kp       *kafka.Producer
	)
	if cfg.KafkaEnabled() {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, sarama.NewConfig())
		if err != nil {
			logger.Warn("kafka producer unavailable, events will be logged", "error", err)
		} else {
			kp = p
			producer = p
		}
	}
	worker := &infraoutbox.Worker{
		Source:      infra.outboxSrc,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()
	return kp
}

func startPaymentConsumer(ctx context.Context, cfg config.Config, app application, logger *slog.Logger) {
	if !cfg.KafkaEnabled() {
		return
	}
	handler := &kafka.PaymentEventsHandler{Commands: app.commands, Logger: logger}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, sarama.NewConfig(), handler, logger)
	if err != nil {
		logger.Warn("payment consumer unavailable", "error", err)
		return
	}
	consumer.Backoff = cfg.RetryBackoff
	topic := cfg.KafkaTopicPrefix + "payments.events.v1"
	go func() {
		defer consumer.Close()
		if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("payment consumer stopped", "topic", topic, "error", err)
		}
	}()
	logger.Info("payment consumer started", "topic", topic, "group", cfg.KafkaConsumerGroup)
}

func serveGRPC(addr string, h *obs.GRPCHealth, logger *slog.Logger) {
	if addr == "" {
		return
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("grpc listen failed", "addr", addr, "error", err)
		return
	}
	logger.Info("grpc health server starting", "addr", addr)
	if err := h.Server.Serve(lis); err != nil {
		logger.Error("grpc server failed", "error", err)
	}
}
