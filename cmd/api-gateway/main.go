package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-timetable-api/api/swagger"
	"github.com/noah-isme/campus-timetable-api/internal/handler"
	"github.com/noah-isme/campus-timetable-api/internal/middleware"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/repository"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	"github.com/noah-isme/campus-timetable-api/pkg/cache"
	"github.com/noah-isme/campus-timetable-api/pkg/config"
	"github.com/noah-isme/campus-timetable-api/pkg/database"
	"github.com/noah-isme/campus-timetable-api/pkg/export"
	"github.com/noah-isme/campus-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-timetable-api/pkg/middleware/requestid"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Timetable allocation and conflict resolution for campus scheduling
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, timetable cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	catalogRepo := repository.NewCatalogRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	checker := service.NewConflictChecker(assignmentRepo, metricsSvc, logr)
	allocationSvc := service.NewAllocationService(assignmentRepo, catalogRepo, checker, repository.IsUniqueViolation, validate, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, validate, logr)
	timetableSvc := service.NewTimetableService(
		assignmentRepo, catalogRepo, enrollmentSvc, export.NewPDFExporter(),
		cfg.Timetable.MaxReportSlotDuration, cfg.Reports.Title, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		Expiration:        cfg.JWT.Expiration,
		RefreshExpiration: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	allocationHandler := handler.NewAllocationHandler(allocationSvc, redisClient, logr)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, authSvc, metricsSvc, logr,
		authHandler, catalogHandler, allocationHandler, timetableHandler, enrollmentHandler, redisClient)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	authSvc *service.AuthService,
	metricsSvc *service.MetricsService,
	logr *zap.Logger,
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	allocationHandler *handler.AllocationHandler,
	timetableHandler *handler.TimetableHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	redisClient *redis.Client,
) {
	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	// Catalog reads are open to all signed-in roles; writes are admin.
	authed.GET("/departments", catalogHandler.ListDepartments)
	authed.POST("/departments", adminOnly, catalogHandler.CreateDepartment)
	authed.PUT("/departments/:id", adminOnly, catalogHandler.UpdateDepartment)
	authed.DELETE("/departments/:id", adminOnly, catalogHandler.DeleteDepartment)
	authed.GET("/rooms", catalogHandler.ListRooms)
	authed.POST("/rooms", adminOnly, catalogHandler.CreateRoom)
	authed.PUT("/rooms/:id", adminOnly, catalogHandler.UpdateRoom)
	authed.DELETE("/rooms/:id", adminOnly, catalogHandler.DeleteRoom)
	authed.GET("/faculty", catalogHandler.ListFaculty)
	authed.POST("/faculty", adminOnly, catalogHandler.CreateFaculty)
	authed.PUT("/faculty/:id", adminOnly, catalogHandler.UpdateFaculty)
	authed.DELETE("/faculty/:id", adminOnly, catalogHandler.DeleteFaculty)
	authed.GET("/courses", catalogHandler.ListCourses)
	authed.POST("/courses", adminOnly, catalogHandler.CreateCourse)
	authed.PUT("/courses/:id", adminOnly, catalogHandler.UpdateCourse)
	authed.DELETE("/courses/:id", adminOnly, catalogHandler.DeleteCourse)
	authed.GET("/time-slots", catalogHandler.ListTimeSlots)
	authed.POST("/time-slots", adminOnly, catalogHandler.CreateTimeSlot)
	authed.PUT("/time-slots/:id", adminOnly, catalogHandler.UpdateTimeSlot)
	authed.DELETE("/time-slots/:id", adminOnly, catalogHandler.DeleteTimeSlot)
	authed.GET("/sessions", catalogHandler.ListSessions)
	authed.POST("/sessions", adminOnly, catalogHandler.CreateSession)
	authed.PUT("/sessions/:id", adminOnly, catalogHandler.UpdateSession)
	authed.DELETE("/sessions/:id", adminOnly, catalogHandler.DeleteSession)
	authed.GET("/programs", catalogHandler.ListPrograms)
	authed.POST("/programs", adminOnly, catalogHandler.CreateProgram)
	authed.PUT("/programs/:id", adminOnly, catalogHandler.UpdateProgram)
	authed.DELETE("/programs/:id", adminOnly, catalogHandler.DeleteProgram)
	authed.GET("/programs/:id/current-semester", catalogHandler.CurrentSemester)
	authed.POST("/current-semesters", adminOnly, catalogHandler.SetCurrentSemester)
	authed.GET("/semesters", catalogHandler.ListSemesters)
	authed.POST("/semesters", adminOnly, catalogHandler.CreateSemester)
	authed.PUT("/semesters/:id", adminOnly, catalogHandler.UpdateSemester)
	authed.DELETE("/semesters/:id", adminOnly, catalogHandler.DeleteSemester)
	authed.GET("/students", staff, catalogHandler.ListStudents)
	authed.POST("/students", adminOnly, catalogHandler.CreateStudent)
	authed.PUT("/students/:id", adminOnly, catalogHandler.UpdateStudent)
	authed.DELETE("/students/:id", adminOnly, catalogHandler.DeleteStudent)

	// Booking lifecycle is admin-only; listings are staff.
	authed.GET("/assignments", staff, allocationHandler.List)
	authed.POST("/assignments", adminOnly, allocationHandler.Create)
	authed.PUT("/assignments/:id", adminOnly, allocationHandler.Update)
	authed.DELETE("/assignments/:id", adminOnly, allocationHandler.Delete)

	// Grid projections. Only the shared staff/admin views go through the
	// cache: its key carries no caller identity, so per-actor routes
	// (single faculty or student week) would leak across users on a HIT.
	cached := func(c *gin.Context) { c.Next() }
	if cfg.Timetable.CacheEnabled && redisClient != nil {
		cached = middleware.Cache(redisClient, cfg.Timetable.CacheTTL, metricsSvc, logr)
	}
	timetable := authed.Group("/timetable")
	timetable.GET("/rooms/:day", staff, cached, timetableHandler.RoomGrid)
	timetable.GET("/faculty", staff, cached, timetableHandler.FacultyWeeks)
	timetable.GET("/faculty/:id", timetableHandler.FacultyWeek)
	timetable.GET("/faculty/:id/pdf", timetableHandler.FacultyWeekPDF)
	timetable.GET("/week", staff, cached, timetableHandler.ProgramWeek)
	timetable.GET("/students/:id", timetableHandler.StudentWeek)
	timetable.GET("/report", adminOnly, cached, timetableHandler.WeeklyReport)

	authed.GET("/dashboard", staff, timetableHandler.Dashboard)

	authed.GET("/students/:id/enrollment", staff, enrollmentHandler.Resolve)
	authed.GET("/student-courses", staff, enrollmentHandler.ListGrouped)
	authed.GET("/student-courses/me", enrollmentHandler.MyCourses)
	authed.POST("/student-courses", adminOnly, enrollmentHandler.AssignCourse)
	authed.PATCH("/student-courses/:id", adminOnly, enrollmentHandler.SetCourseFlags)
	authed.DELETE("/student-courses/:id", adminOnly, enrollmentHandler.RemoveCourse)
}
