package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	"github.com/BruksfildServices01/wealth-crm/internal/config"
	dbpkg "github.com/BruksfildServices01/wealth-crm/internal/db"
	"github.com/BruksfildServices01/wealth-crm/internal/infra/archive"
	gcal "github.com/BruksfildServices01/wealth-crm/internal/infra/calendar"
	"github.com/BruksfildServices01/wealth-crm/internal/infra/google"
	"github.com/BruksfildServices01/wealth-crm/internal/infra/lock"
	"github.com/BruksfildServices01/wealth-crm/internal/infra/notify"
	infraRepo "github.com/BruksfildServices01/wealth-crm/internal/infra/repository"
	logpkg "github.com/BruksfildServices01/wealth-crm/internal/logger"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	"github.com/BruksfildServices01/wealth-crm/internal/routes"
	"github.com/BruksfildServices01/wealth-crm/internal/scheduler"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
	ucBooking "github.com/BruksfildServices01/wealth-crm/internal/usecase/booking"
	ucDeal "github.com/BruksfildServices01/wealth-crm/internal/usecase/deal"
)

func main() {

	cfg := config.Load()

	logger := logpkg.New(cfg.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("database setup failed", zap.Error(err))
	}

	// ======================================================
	// ADAPTERS
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger, cfg.AuditQueueSize)
	defer auditDispatcher.Close()

	deps := routes.Deps{
		Logger:      logger,
		Audit:       auditDispatcher,
		AuditLogger: auditLogger,
		Notifier:    buildNotifier(cfg, logger),
		Archiver:    buildArchiver(ctx, cfg, logger),
		Clock:       timezone.SystemClock,
	}

	if cal := buildCalendar(ctx, cfg, logger); cal != nil {
		deps.Calendar = cal
	}

	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis setup failed", zap.Error(err))
		}
		defer client.Close()
		deps.Locker = lock.NewRedisLocker(client, logger)
		logger.Info("slot lock enabled")
	}

	// ======================================================
	// BACKGROUND TASKS
	// ======================================================
	completeBookings := ucBooking.NewCompletePastBookings(
		infraRepo.NewBookingGormRepository(db),
		&ucBooking.Effects{Audit: auditDispatcher, Logger: logger},
		deps.Clock,
	)
	reconciler := ucDeal.NewReconciler(
		infraRepo.NewDealGormRepository(db),
		auditDispatcher,
		logger,
		deps.Clock,
	)

	sched := scheduler.New(logger,
		scheduler.Task{
			Name:     "complete_bookings",
			Interval: cfg.CompleteBookingsEvery,
			Run:      completeBookings.Execute,
		},
		scheduler.Task{
			Name:     "reconcile_intents",
			Interval: cfg.ReconcileEvery,
			Run: func(ctx context.Context) (int, error) {
				return reconciler.Sweep(ctx, cfg.IntentStaleAfter)
			},
		},
	)
	sched.Start(ctx)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	routes.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

func buildNotifier(cfg *config.Config, logger *zap.Logger) ucBooking.Notifier {
	if !cfg.SMTP.Enabled() {
		logger.Info("SMTP not configured, emails are only logged")
		return notify.NewLogNotifier(logger)
	}

	n, err := notify.NewSMTPNotifier(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("smtp setup failed", zap.Error(err))
	}
	return n
}

func buildArchiver(ctx context.Context, cfg *config.Config, logger *zap.Logger) ucDeal.Archiver {
	switch cfg.Archive.Backend {
	case "s3":
		return archive.NewS3Archiver(archive.NewS3Client(cfg.Archive), cfg.Archive, logger)

	case "drive":
		oauth := cfg.GoogleOAuth()
		if !oauth.Enabled() {
			logger.Fatal("drive archive needs GOOGLE_CLIENT_ID and GOOGLE_REFRESH_TOKEN")
		}
		a, err := archive.NewDriveArchiver(ctx, cfg.Archive.DriveFolderID, logger,
			google.ClientOption(ctx, oauth, drive.DriveScope))
		if err != nil {
			logger.Fatal("drive setup failed", zap.Error(err))
		}
		return a
	}

	logger.Info("archive backend not configured, archives are only logged")
	return archive.NewLogArchiver(logger)
}

// buildCalendar returns nil when calendar sync is off.
func buildCalendar(ctx context.Context, cfg *config.Config, logger *zap.Logger) *gcal.GoogleCalendar {
	oauth := cfg.GoogleOAuth()
	if cfg.Calendar.CalendarID == "" || !oauth.Enabled() {
		return nil
	}

	cal, err := gcal.NewGoogleCalendar(ctx, cfg.Calendar.CalendarID, logger,
		google.ClientOption(ctx, oauth, calendar.CalendarEventsScope))
	if err != nil {
		logger.Error("calendar setup failed, sync disabled", zap.Error(err))
		return nil
	}
	logger.Info("calendar sync enabled", zap.String("calendar_id", cfg.Calendar.CalendarID))
	return cal
}
