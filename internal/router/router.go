package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/handler"
	"github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-scheduler-api/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Meeting  *handler.MeetingHandler
	Schedule *handler.ScheduleHandler
	Room     *handler.RoomHandler
	Semester *handler.SemesterHandler
	Metrics  *handler.MetricsHandler
}

// Setup builds the gin engine with global middleware and all routes.
func Setup(cfg *config.Config, h Handlers, tokens middleware.TokenValidator, metrics middleware.RequestObserver, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	{
		api.GET("/semesters", h.Semester.List)

		api.GET("/rooms", h.Room.List)
		api.GET("/rooms/:id/bookings", h.Room.Bookings)

		api.GET("/schedules", h.Schedule.Blocks)
		api.GET("/schedules/export", h.Schedule.Export)

		api.GET("/meetings/:id", h.Meeting.Get)
		api.GET("/course-instances/:id/meetings", h.Meeting.ListByCourseInstance)
		api.GET("/non-class-events/:id/meetings", h.Meeting.ListByNonClassEvent)
	}

	admin := api.Group("")
	admin.Use(middleware.JWT(tokens), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/course-instances/:id/meetings", middleware.Audit(logr, "meeting.create"), h.Meeting.CreateForCourseInstance)
		admin.POST("/non-class-events/:id/meetings", middleware.Audit(logr, "meeting.create"), h.Meeting.CreateForNonClassEvent)
		admin.PUT("/meetings/:id", middleware.Audit(logr, "meeting.update"), h.Meeting.Update)
		admin.DELETE("/meetings/:id", middleware.Audit(logr, "meeting.delete"), h.Meeting.Delete)
		admin.POST("/meetings/conflicts", h.Meeting.CheckConflicts)
	}

	return r
}
