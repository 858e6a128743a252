package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/internal/config"
	"github.com/medictrans/oncall-api/internal/email"
	adminHandler "github.com/medictrans/oncall-api/internal/handler/admin"
	authHandler "github.com/medictrans/oncall-api/internal/handler/auth"
	catalogHandler "github.com/medictrans/oncall-api/internal/handler/catalog"
	"github.com/medictrans/oncall-api/internal/handler/health"
	messageHandler "github.com/medictrans/oncall-api/internal/handler/message"
	metricsHandler "github.com/medictrans/oncall-api/internal/handler/prometheus"
	questionHandler "github.com/medictrans/oncall-api/internal/handler/question"
	requestHandler "github.com/medictrans/oncall-api/internal/handler/request"
	userHandler "github.com/medictrans/oncall-api/internal/handler/user"
	"github.com/medictrans/oncall-api/internal/identity"
	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/platform"
	"github.com/medictrans/oncall-api/internal/repository/docstore"
	"github.com/medictrans/oncall-api/internal/router"
	authService "github.com/medictrans/oncall-api/internal/service/auth"
	catalogService "github.com/medictrans/oncall-api/internal/service/catalog"
	eventService "github.com/medictrans/oncall-api/internal/service/event"
	messageService "github.com/medictrans/oncall-api/internal/service/message"
	notificationService "github.com/medictrans/oncall-api/internal/service/notification"
	questionService "github.com/medictrans/oncall-api/internal/service/question"
	requestService "github.com/medictrans/oncall-api/internal/service/request"
	triageService "github.com/medictrans/oncall-api/internal/service/triage"
	userService "github.com/medictrans/oncall-api/internal/service/user"
	"github.com/medictrans/oncall-api/pkg/logger"
	"github.com/medictrans/oncall-api/pkg/messaging"
	"github.com/medictrans/oncall-api/pkg/messaging/redis"
	"github.com/medictrans/oncall-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Output:  os.Stdout,
		Console: cfg.Log.Console,
	})
	log.Logger = appLogger.Zerolog().With().Str("service", "api").Logger()

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("medictrans", registry)

	// Firebase
	app, err := platform.NewFirebaseApp(ctx, platform.FirebaseConfig{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase")
	}

	firestoreClient, err := platform.NewFirestore(ctx, app)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to firestore")
	}
	db := docstore.NewDB(firestoreClient, m)
	defer db.Close()

	idp, err := identity.NewFirebase(ctx, identity.FirebaseConfig{APIKey: cfg.Firebase.APIKey, App: app})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize identity provider")
	}

	// Event broker is optional
	var broker messaging.Broker
	checks := map[string]health.Pinger{"firestore": db}
	if cfg.Redis.URL != "" {
		redisBroker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisBroker.Close()
		broker = redisBroker
		checks["redis"] = redisBroker
	} else {
		log.Warn().Msg("redis url not set, events are not published")
	}

	// Repositories
	userRepo := docstore.NewUserRepository(db)
	requestRepo := docstore.NewRequestRepository(db)
	messageRepo := docstore.NewMessageRepository(db)
	serviceRepo := docstore.NewServiceRepository(db)
	questionRepo := docstore.NewQuestionRepository(db)
	emailRepo := docstore.NewEmailRepository(db)

	// Services
	events := eventService.NewEventService(broker, m)
	composer := email.NewComposer(cfg.Mail.SiteURL)
	mailer := notificationService.NewService(emailRepo, events)

	authSvc := authService.NewService(idp, userRepo, events)
	userSvc := userService.NewService(userRepo)
	catalogSvc := catalogService.NewService(serviceRepo, events)
	requestSvc := requestService.NewService(requestRepo, serviceRepo, mailer, composer, events)
	messageSvc := messageService.NewService(messageRepo, requestRepo, userRepo, serviceRepo, mailer, composer, events)
	questionSvc := questionService.NewService(questionRepo, mailer, composer, events)
	triageSvc := triageService.NewService(requestRepo, messageRepo, userRepo)

	authMiddleware := middleware.NewAuthMiddleware(idp, userRepo, cfg.Auth.RoleCacheTTL)

	r := router.NewRouter(
		authMiddleware,
		health.NewHandler(checks),
		metricsHandler.New(registry, m),
		router.RouterConfig{
			Mode:           cfg.Server.Mode,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig: middleware.CORSConfig{
				AllowOrigins:     cfg.CORS.AllowedOrigins,
				AllowCredentials: true,
				MaxAge:           cfg.CORS.MaxAge,
			},
			Security: middleware.DefaultSecurityConfig(),
		},
		authHandler.NewHandler(authSvc),
		userHandler.NewHandler(userSvc, authMiddleware.Forget),
		catalogHandler.NewHandler(catalogSvc, middleware.DefaultCacheConfig()),
		questionHandler.NewHandler(questionSvc),
		requestHandler.NewHandler(requestSvc),
		messageHandler.NewHandler(messageSvc),
		adminHandler.NewHandler(triageSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
