package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"course-subscription-platform/internal/config"
	"course-subscription-platform/internal/domain/ports/adapter"
	"course-subscription-platform/internal/domain/ports/repository"
	chatAdapters "course-subscription-platform/internal/infra/adapters/chat"
	tele "course-subscription-platform/internal/infra/adapters/telegram"
	"course-subscription-platform/internal/infra/api"
	pg "course-subscription-platform/internal/infra/db/postgres"
	"course-subscription-platform/internal/infra/logging"
	"course-subscription-platform/internal/infra/metrics"
	"course-subscription-platform/internal/infra/payme"
	red "course-subscription-platform/internal/infra/redis"
	"course-subscription-platform/internal/infra/sched"
	"course-subscription-platform/internal/infra/web"
	"course-subscription-platform/internal/infra/worker"
	"course-subscription-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Repositories ----
	purchaseRepo := pg.NewPurchaseRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	notifRepo := pg.NewNotificationRepo(pool)

	var courseRepo repository.CourseRepository = pg.NewCourseRepo(pool)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		courseRepo = pg.NewCourseRepoCacheDecorator(courseRepo, redisClient, cfg.Redis.TTL)
	} else {
		logger.Warn().Msg("redis.url not set; course cache disabled")
	}

	// ---- Sink adapters ----
	var bot adapter.TelegramBotAdapter
	if cfg.Bot.Token != "" {
		bot, err = tele.NewRealBotAdapter(cfg.Bot.Token)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
	} else {
		bot = tele.NewNoopBotAdapter(logger)
	}

	var rooms adapter.ChatRoomAdapter
	if cfg.Chat.ServiceURL != "" {
		rooms = chatAdapters.NewHTTPRoomService(cfg.Chat.ServiceURL, cfg.Chat.Timeout)
	} else {
		rooms = chatAdapters.NewNoopRoomService(logger)
	}

	// ---- Side-effect worker pool ----
	pool2 := worker.NewPool(cfg.Worker.SideEffectWorkers, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	// ---- Use cases ----
	ledger := usecase.NewEntitlementUseCase(subRepo, logger)
	effects := usecase.NewSideEffectsUseCase(userRepo, courseRepo, notifRepo, bot, rooms, pool2, logger)
	paymentUC := usecase.NewPaymentUseCase(purchaseRepo, courseRepo, ledger, effects, tm, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, purchaseRepo, subRepo)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- HTTP ----
	r := chi.NewRouter()
	r.Use(api.TraceID())
	r.Use(api.Recover(logger))
	r.Use(api.RequestLog(logger))
	r.Use(api.Timeout(cfg.HTTP.RequestTimeout))

	authGate := payme.NewAuthenticator(cfg.Payme.Key)
	webhook := payme.NewHandler(authGate, paymentUC, logger)
	webhook.Register(r, cfg.Payme.WebhookPath)

	adminAuth := web.NewAuthManager(cfg.Admin.SessionSecret, cfg.Admin.SecureCookie, cfg.Admin.CookieDomain, cfg.Admin.SessionTTL)
	adminSrv := web.NewServer(statsUC, purchaseRepo, adminAuth, cfg.Admin.APIKey, logger)
	adminSrv.RegisterRoutes(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: r,
	}

	// ---- Background workers ----
	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, subRepo, logger)
	go func() {
		if err := expiry.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("expiry worker stopped")
		}
	}()

	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Str("webhook", cfg.Payme.WebhookPath).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
