package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/internal/email"
	"github.com/medictrans/oncall-api/internal/platform"
	"github.com/medictrans/oncall-api/internal/repository/docstore"
	"github.com/medictrans/oncall-api/internal/worker"
	"github.com/medictrans/oncall-api/pkg/logger"
	"github.com/medictrans/oncall-api/pkg/messaging"
	"github.com/medictrans/oncall-api/pkg/messaging/redis"
	"github.com/medictrans/oncall-api/pkg/metrics"
)

// Config is read from MAILER_* environment variables, e.g. MAILER_SMTP_HOST
// or MAILER_RELAY_POLL_INTERVAL.
type Config struct {
	ProjectID       string `envconfig:"PROJECT_ID" required:"true"`
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`
	RedisURL        string `envconfig:"REDIS_URL"`
	HealthPort      int    `envconfig:"HEALTH_PORT" default:"8081"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	SMTP  email.SMTPConfig       `envconfig:"SMTP"`
	Relay worker.MailRelayConfig `envconfig:"RELAY"`
}

func setupHealthCheck(port int, db *docstore.DB, registry *prometheus.Registry, appLogger *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "health check server failed")
		}
	}()
	return srv
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("MAILER", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    true,
	}).WithFields(map[string]interface{}{"service": "mail-relay"})
	log.Logger = appLogger.Zerolog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics("medictrans", registry)

	app, err := platform.NewFirebaseApp(ctx, platform.FirebaseConfig{
		ProjectID:       cfg.ProjectID,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		appLogger.Fatal(err, "failed to initialize firebase")
	}
	client, err := platform.NewFirestore(ctx, app)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to firestore")
	}
	db := docstore.NewDB(client, m)
	defer db.Close()

	var broker messaging.Broker
	if cfg.RedisURL != "" {
		redisBroker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL, MaxRetries: 3}, appLogger.Zerolog())
		if err != nil {
			appLogger.Fatal(err, "failed to connect to Redis")
		}
		defer redisBroker.Close()
		broker = redisBroker
	}

	relay, err := worker.NewMailRelay(
		docstore.NewMailOutbox(db),
		email.NewSMTPSender(cfg.SMTP),
		broker,
		cfg.Relay,
		appLogger,
		m,
	)
	if err != nil {
		appLogger.Fatal(err, "invalid relay configuration")
	}

	health := setupHealthCheck(cfg.HealthPort, db, registry, appLogger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down...")
		cancel()
	}()

	relay.Start(ctx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = health.Shutdown(shutdownCtx)
}
