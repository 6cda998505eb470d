package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/centroforma/forma-api/api/swagger"
	"github.com/centroforma/forma-api/internal/handler"
	"github.com/centroforma/forma-api/internal/middleware"
	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/pkg/config"
	"github.com/centroforma/forma-api/pkg/logger"
	"github.com/centroforma/forma-api/pkg/middleware/cors"
	"github.com/centroforma/forma-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Trainers     *handler.TrainerHandler
	Trainees     *handler.TraineeHandler
	Courses      *handler.CourseHandler
	Rooms        *handler.RoomHandler
	Classes      *handler.ClassHandler
	Schedule     *handler.ScheduleHandler
	Availability *handler.AvailabilityHandler
	Progress     *handler.ProgressHandler
	Evaluations  *handler.EvaluationHandler
	Reports      *handler.ReportHandler
}

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// New assembles the gin engine with all middleware and routes.
func New(cfg *config.Config, log *zap.Logger, auth tokenValidator, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(cors.New(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(cfg.APIPrefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.POST("/auth/logout", h.Auth.Logout)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTrainer)

	trainers := authed.Group("/trainers")
	{
		trainers.GET("", staff, h.Trainers.List)
		trainers.GET("/:trainer_id", staff, h.Trainers.Get)
		trainers.POST("", adminOnly, h.Trainers.Create)
		trainers.PATCH("/:trainer_id", adminOnly, h.Trainers.Update)
		trainers.DELETE("/:trainer_id", adminOnly, h.Trainers.Deactivate)

		// Ownership of trainer-scoped reads is enforced in the service
		// layer, which maps the caller's user id to a trainer record.
		trainers.GET("/:trainer_id/availability", staff, h.Availability.Reconcile)
		trainers.GET("/:trainer_id/hours", staff, h.Progress.TaughtHours)
		trainers.GET("/:trainer_id/hours/month", staff, h.Progress.TaughtHoursMonth)
	}

	availability := authed.Group("/availability", staff)
	{
		availability.POST("", h.Availability.CreateWindow)
		availability.POST("/range", h.Availability.CreateWindowRange)
		availability.DELETE("/range", h.Availability.DeleteWindowRange)
		availability.DELETE("/:id", h.Availability.DeleteWindow)
	}

	trainees := authed.Group("/trainees", staff)
	{
		trainees.GET("", h.Trainees.List)
		trainees.GET("/:id", h.Trainees.Get)
		trainees.POST("", adminOnly, h.Trainees.Create)
		trainees.PATCH("/:id", adminOnly, h.Trainees.Update)
		trainees.DELETE("/:id", adminOnly, h.Trainees.Deactivate)
	}

	courses := authed.Group("/courses", staff)
	{
		courses.GET("", h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.POST("", adminOnly, h.Courses.Create)
		courses.PATCH("/:id", adminOnly, h.Courses.Update)
		courses.DELETE("/:id", adminOnly, h.Courses.Deactivate)
		courses.GET("/:id/modules", h.Courses.ListModules)
		courses.POST("/:id/modules", adminOnly, h.Courses.CreateModule)
	}

	modules := authed.Group("/modules")
	{
		modules.GET("/:module_id", staff, h.Courses.GetModule)
		modules.PATCH("/:module_id", adminOnly, h.Courses.UpdateModule)
		modules.DELETE("/:module_id", adminOnly, h.Courses.DeleteModule)
	}

	rooms := authed.Group("/rooms", staff)
	{
		rooms.GET("", h.Rooms.List)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.POST("", adminOnly, h.Rooms.Create)
		rooms.PATCH("/:id", adminOnly, h.Rooms.Update)
		rooms.DELETE("/:id", adminOnly, h.Rooms.Deactivate)
	}

	classes := authed.Group("/classes", staff)
	{
		classes.GET("", h.Classes.List)
		classes.GET("/:class_id", h.Classes.Get)
		classes.POST("", adminOnly, h.Classes.Create)
		classes.PATCH("/:class_id", adminOnly, h.Classes.Update)
		classes.DELETE("/:class_id", adminOnly, h.Classes.Deactivate)
		classes.GET("/:class_id/enrollments", h.Classes.ListEnrollments)
		classes.POST("/:class_id/enrollments", adminOnly, h.Classes.Enroll)
		classes.DELETE("/:class_id/enrollments/:enrollment_id", adminOnly, h.Classes.Unenroll)
		classes.GET("/:class_id/modules/:module_id/progress", h.Progress.ModuleProgress)
	}

	schedule := authed.Group("/schedule", staff)
	{
		schedule.GET("", h.Schedule.List)
		schedule.GET("/:id", h.Schedule.Get)
		schedule.POST("", adminOnly, h.Schedule.Create)
		schedule.DELETE("/:id", adminOnly, h.Schedule.Delete)
	}

	evaluations := authed.Group("/evaluations", staff)
	{
		evaluations.GET("", h.Evaluations.List)
		evaluations.GET("/:id", h.Evaluations.Get)
		evaluations.POST("", h.Evaluations.Record)
	}

	reports := authed.Group("/reports", staff)
	{
		reports.GET("/trainers/:trainer_id/timetable", h.Reports.Timetable)
		reports.GET("/trainers/:trainer_id/hours", h.Reports.Hours)
		reports.GET("/classes/:class_id/timetable", h.Reports.ClassTimetable)
		reports.GET("/classes/:class_id/modules/:module_id", h.Reports.ModuleProgress)
	}

	return engine
}
