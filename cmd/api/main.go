package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-scheduler-api/api/swagger"
	"github.com/noah-isme/course-scheduler-api/internal/handler"
	"github.com/noah-isme/course-scheduler-api/internal/repository"
	"github.com/noah-isme/course-scheduler-api/internal/router"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	"github.com/noah-isme/course-scheduler-api/pkg/cache"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/database"
	"github.com/noah-isme/course-scheduler-api/pkg/logger"
)

// @title Course Scheduler API
// @version 1.0.0
// @description Room bookings and weekly course schedules.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Migrations.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, cfg.Migrations.Dir, logr); err != nil {
			return err
		}
	}

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, schedule cache disabled", zap.Error(err))
		rdb = nil
	}
	validate := validator.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(rdb, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Schedule.CacheTTL, logr, cfg.Schedule.CacheEnabled && rdb != nil)

	meetingRepo := repository.NewMeetingRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	bookingRepo := repository.NewRoomBookingRepository(db, metrics)
	scheduleRepo := repository.NewCourseScheduleRepository(db, metrics)

	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheSvc, cfg.Schedule.CacheTTL, validate, logr)
	meetingSvc := service.NewMeetingService(service.MeetingServiceDeps{
		Meetings:  meetingRepo,
		Semesters: semesterRepo,
		Rooms:     roomRepo,
		Bookings:  bookingRepo,
		Schedule:  scheduleSvc,
		Metrics:   metrics,
	}, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, bookingRepo, validate, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, logr)
	exportSvc := service.NewExportService(scheduleSvc, logr)
	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	checks := map[string]handler.Pinger{"database": db}
	if rdb != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	engine := router.Setup(cfg, router.Handlers{
		Meeting:  handler.NewMeetingHandler(meetingSvc),
		Schedule: handler.NewScheduleHandler(scheduleSvc, exportSvc),
		Room:     handler.NewRoomHandler(roomSvc),
		Semester: handler.NewSemesterHandler(semesterSvc),
		Metrics:  handler.NewMetricsHandler(metrics.Handler(), checks),
	}, tokenSvc, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logr.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
