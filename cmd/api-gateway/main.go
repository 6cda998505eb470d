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

	"github.com/centroforma/forma-api/internal/handler"
	"github.com/centroforma/forma-api/internal/repository"
	"github.com/centroforma/forma-api/internal/router"
	"github.com/centroforma/forma-api/internal/service"
	"github.com/centroforma/forma-api/pkg/cache"
	"github.com/centroforma/forma-api/pkg/config"
	"github.com/centroforma/forma-api/pkg/database"
	"github.com/centroforma/forma-api/pkg/logger"
)

// @title Forma API
// @version 1.0.0
// @description Training centre administration API
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
	sugar := logr.Sugar()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	traineeRepo := repository.NewTraineeRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	classRepo := repository.NewClassRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	var cacheRepo *repository.RedisCacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			sugar.Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo = repository.NewRedisCacheRepository(redisClient)
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	var trainerService *service.TrainerService
	if cacheRepo != nil {
		trainerService = service.NewTrainerService(trainerRepo, cacheRepo, validate, logr)
	} else {
		trainerService = service.NewTrainerService(trainerRepo, nil, validate, logr)
	}
	traineeService := service.NewTraineeService(traineeRepo, validate, logr)
	courseService := service.NewCourseService(courseRepo, validate, logr)
	roomService := service.NewRoomService(roomRepo, validate, logr)
	classService := service.NewClassService(classRepo, courseRepo, traineeRepo, validate, logr)
	scheduleService := service.NewScheduleService(scheduleRepo, validate, logr)
	availabilityService := service.NewAvailabilityService(availabilityRepo, scheduleRepo, trainerRepo, cfg.Availability, validate, logr)
	progressService := service.NewProgressService(scheduleRepo, courseRepo, logr)
	evaluationService := service.NewEvaluationService(evaluationRepo, classRepo, courseRepo, validate, logr)
	reportService := service.NewReportService(scheduleRepo, trainerRepo, classRepo, progressService, logr)

	engine := router.New(cfg, logr, authService, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Trainers:     handler.NewTrainerHandler(trainerService),
		Trainees:     handler.NewTraineeHandler(traineeService),
		Courses:      handler.NewCourseHandler(courseService),
		Rooms:        handler.NewRoomHandler(roomService),
		Classes:      handler.NewClassHandler(classService),
		Schedule:     handler.NewScheduleHandler(scheduleService),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Progress:     handler.NewProgressHandler(progressService),
		Evaluations:  handler.NewEvaluationHandler(evaluationService),
		Reports:      handler.NewReportHandler(reportService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugar.Errorw("shutdown failed", "error", err)
	}
}
