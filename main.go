package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repairhub/config"
	"repairhub/cron"
	"repairhub/database"
	appointmentRepo "repairhub/database/repository/appointment"
	feedbackRepo "repairhub/database/repository/feedback"
	reportRepo "repairhub/database/repository/report"
	shopRepo "repairhub/database/repository/shop"
	snapshotRepo "repairhub/database/repository/snapshot"
	technicianRepo "repairhub/database/repository/technician"
	userRepo "repairhub/database/repository/user"
	"repairhub/handlers"
	"repairhub/middleware"
	"repairhub/routes"
	"repairhub/services/admin"
	"repairhub/services/appointment"
	"repairhub/services/notification"
	"repairhub/services/ranking"
	"repairhub/services/report"
	"repairhub/services/stats"
	"repairhub/services/storage"
	"repairhub/services/technician"
	"repairhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fb, err := utils.FirebaseInit(rootCtx, cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase", zap.Error(err))
	}
	defer fb.Close()

	mongoClient, err := database.InitMongo(cfg)
	if err != nil {
		logger.Fatal("main: failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Warn("main: mongo disconnect failed", zap.Error(err))
		}
	}()

	// The cache is optional; services recompute on every call without it.
	cache, err := utils.NewCacheClient(cfg)
	if err != nil {
		logger.Warn("main: redis cache unavailable, caching disabled", zap.Error(err))
	} else {
		defer cache.Close()
	}

	var media storage.MediaService
	if cld, err := utils.Cloudinary(cfg); err != nil {
		logger.Warn("main: cloudinary not configured, avatars pass through", zap.Error(err))
	} else {
		media = storage.NewCloudinaryMediaService(cld)
	}

	// repositories.
	users := userRepo.NewFirestoreUserRepo(fb.Firestore)
	technicians := technicianRepo.NewFirestoreTechnicianRepo(fb.Firestore)
	shops := shopRepo.NewFirestoreShopRepo(fb.Firestore)
	appointments := appointmentRepo.NewFirestoreAppointmentRepo(fb.Firestore)
	reports := reportRepo.NewFirestoreReportRepo(fb.Firestore)
	feedback := feedbackRepo.NewFirestoreFeedbackRepo(fb.Firestore)
	snapshots := snapshotRepo.NewMongoSnapshotRepo(mongoClient, cfg.MongoDatabase)
	if idx, ok := snapshots.(interface{ EnsureIndexes(context.Context) error }); ok {
		if err := idx.EnsureIndexes(rootCtx); err != nil {
			logger.Warn("main: failed to ensure snapshot indexes", zap.Error(err))
		}
	}

	queue := asynq.NewClient(utils.QueueRedisOpt(cfg))
	defer queue.Close()

	// services.
	statsRepos := stats.Repositories{
		Appointments: appointments,
		Users:        users,
		Technicians:  technicians,
		Shops:        shops,
		Feedback:     feedback,
		Snapshots:    snapshots,
	}
	statsService := stats.NewDefaultStatsService(statsRepos, cache, cfg.StatsCacheTTL, logger)

	ranker := ranking.NewRanker(
		ranking.RepositoryEnricher{Shops: shops, Appointments: appointments},
		media,
		cfg.RankingConcurrency,
		cfg.RankingLookupTimeout,
		logger,
	)
	rankingService := ranking.NewDefaultRankingService(technicians, users, ranker, cache, cfg.RankingCacheTTL, logger)

	reportService := report.NewDefaultReportService(reports, queue, cfg.ReportBlockThreshold, logger, rankingService, statsService)
	moderationService := technician.NewDefaultModerationService(technicians, fb.Auth, queue, logger, rankingService, statsService)
	appointmentService := appointment.NewDefaultAppointmentService(appointments, queue, logger, rankingService, statsService)
	accountService := admin.NewDefaultAccountService(fb.Auth, users, technicians, logger)

	notificationService, err := notification.NewDefaultNotificationService(users, technicians, fb.Messaging, logger)
	if err != nil {
		logger.Fatal("main: failed to build notification service", zap.Error(err))
	}

	worker, err := cron.NewWorker(utils.QueueRedisOpt(cfg), notificationService, statsService, cfg.SnapshotCron, logger)
	if err != nil {
		logger.Fatal("main: failed to build task worker", zap.Error(err))
	}
	worker.Start()
	defer worker.Shutdown()

	monitor := stats.NewMonitor(stats.RepositoryWatchers(statsRepos), logger)
	monitor.Start(rootCtx)

	utils.StartHealthMonitor(rootCtx, utils.HealthTargets{
		Firestore: fb.Firestore,
		Mongo:     mongoClient,
		Redis:     cache,
	}, time.Minute)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Verifier:     fb.Auth,
		Admins:       accountService,
		Health:       handlers.NewHealthHandler(),
		Stats:        handlers.NewStatsHandler(statsService, monitor),
		Ranking:      handlers.NewRankingHandler(rankingService),
		Reports:      handlers.NewReportHandler(reportService),
		Technicians:  handlers.NewTechnicianHandler(moderationService),
		Appointments: handlers.NewAppointmentHandler(appointmentService),
		Accounts:     handlers.NewAccountHandler(accountService),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, handlerBundle, cfg)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logger.Info("main: server is shutting down...")
	// Closing the monitor ends open stats streams.
	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
