// cmd/intake-bot/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"application-intake-bot/internal/common/audit"
	awsclients "application-intake-bot/internal/common/aws"
	"application-intake-bot/internal/common/config"
	"application-intake-bot/internal/common/database"
	"application-intake-bot/internal/common/discord"
	apperrors "application-intake-bot/internal/common/errors"
	"application-intake-bot/internal/common/logger"
	"application-intake-bot/internal/common/notify"
	"application-intake-bot/internal/common/observability"
	"application-intake-bot/internal/record"
	"application-intake-bot/internal/workers/dispatch"
	"application-intake-bot/internal/workers/intake"
	"application-intake-bot/internal/workers/review"
	"application-intake-bot/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting application intake bot...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    "application-intake-bot",
		ServiceVersion: cfg.App.Version,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	zapLog.Info("Registry loaded", zap.Int("applicationTypes", reg.Len()))

	// --- Audit sinks ---
	var sinks audit.MultiSink
	var closers []func() error

	if cfg.Audit.UsesPostgres() {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		closers = append(closers, pg.Close)

		pgSink := audit.NewPostgresSink(pg.DB)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		sinks = append(sinks, pgSink)
		zapLog.Info("PostgreSQL audit sink ready")
	}

	if cfg.Audit.UsesRedis() {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		closers = append(closers, rdb.Close)

		sinks = append(sinks, audit.NewRedisSink(rdb.Client, cfg.Audit.RedisKeyPrefix, cfg.Audit.RedisMaxEntries))
		zapLog.Info("Redis audit sink ready")
	}

	var sink audit.Sink = audit.NoopSink{}
	if len(sinks) > 0 {
		sink = sinks
	}

	// --- Alerts ---
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Alerts.SES.Enabled || cfg.Alerts.SNS.Enabled {
		awsCfg, err := awsclients.LoadConfig(ctx, cfg.Alerts.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		var sesClient awsclients.SESService
		var snsClient awsclients.SNSService
		if cfg.Alerts.SES.Enabled {
			sesClient = awsclients.NewSESClient(awsCfg)
		}
		if cfg.Alerts.SNS.Enabled {
			snsClient = awsclients.NewSNSClient(awsCfg)
		}
		notifier = notify.NewAWSNotifier(&notify.Config{
			GuildID:     cfg.Discord.GuildID,
			SESEnabled:  cfg.Alerts.SES.Enabled,
			FromEmail:   cfg.Alerts.SES.FromEmail,
			ToEmails:    cfg.Alerts.SES.ToEmails,
			SNSEnabled:  cfg.Alerts.SNS.Enabled,
			SNSTopicARN: cfg.Alerts.SNS.TopicARN,
		}, sesClient, snsClient)
		zapLog.Info("AWS alerts enabled",
			zap.Bool("ses", cfg.Alerts.SES.Enabled),
			zap.Bool("sns", cfg.Alerts.SNS.Enabled),
		)
	}

	// --- Discord ---
	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		zapLog.Fatal("discord session failed", zap.Error(err))
	}
	gateway := discord.NewSessionGateway(session)
	codec := record.NewCodec(record.Palette{
		Pending:  cfg.Review.Colors.Pending,
		Accepted: cfg.Review.Colors.Accepted,
		Rejected: cfg.Review.Colors.Rejected,
	})

	intakeHandler := intake.NewHandler(intake.LoadConfig(cfg), reg, gateway, codec, sink, notifier, log)
	reviewHandler := review.NewHandler(review.LoadConfig(cfg), reg, gateway, codec, sink, notifier, log)
	router := dispatch.NewRouter(
		dispatch.LoadConfig(cfg),
		intakeHandler,
		reviewHandler,
		apperrors.NewErrorHandler(log, gateway),
		obs,
		log,
	)
	session.AddHandler(router.OnInteraction(ctx))

	var ready atomic.Bool
	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		ready.Store(true)
		zapLog.Info("Discord session ready", zap.String("user", r.User.Username))
	})
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		ready.Store(false)
		zapLog.Warn("Discord session disconnected")
	})

	err = retryWithBackoff(session.Open, 5, 2*time.Second, zapLog, "Discord gateway connection")
	if err != nil {
		zapLog.Fatal("discord connection failed after retries", zap.Error(err))
	}
	if err := discord.RegisterCommands(session, cfg.Discord.ApplicationID, cfg.Discord.GuildID, cfg.Discord.CommandName); err != nil {
		zapLog.Fatal("command registration failed", zap.Error(err))
	}
	zapLog.Info("Entry command registered",
		zap.String("command", cfg.Discord.CommandName),
		zap.String("guildId", cfg.Discord.GuildID),
	)

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.Observability.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping bot...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := session.Close(); err != nil {
		zapLog.Error("Error closing Discord session", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			zapLog.Error("Error closing audit backend", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Application intake bot stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
