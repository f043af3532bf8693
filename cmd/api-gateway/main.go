package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"

	internalhandler "github.com/noah-isme/sma-adp-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-adp-api/internal/middleware"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/repository"
	"github.com/noah-isme/sma-adp-api/internal/service"
	"github.com/noah-isme/sma-adp-api/pkg/cache"
	"github.com/noah-isme/sma-adp-api/pkg/config"
	"github.com/noah-isme/sma-adp-api/pkg/database"
	"github.com/noah-isme/sma-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-adp-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-adp-api/pkg/storage"
)

// @title Tutoring Shift Scheduler API
// @version 1.0.0
// @description Roster management and CP-SAT-backed shift scheduling for a cram-school summer campaign
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	// --- Auth & users ---

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "scheduler-api",
		Audience:           []string{"scheduler-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authSvc))
	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.POST("/change-password", authHandler.ChangePassword)
	protectedAuth.GET("/me", authHandler.Me)

	userSvc := service.NewUserService(userRepo, nil, logr)
	userHandler := internalhandler.NewUserHandler(userSvc)

	// --- Roster verticals ---

	teacherRepo := repository.NewTeacherRepository(db)
	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc)

	studentRepo := repository.NewStudentRepository(db)
	studentSvc := service.NewStudentService(studentRepo, nil, logr)
	studentHandler := internalhandler.NewStudentHandler(studentSvc)

	subjectRepo := repository.NewSubjectRepository(db)
	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	subjectHandler := internalhandler.NewSubjectHandler(subjectSvc)

	campaignRepo := repository.NewCampaignRepository(db)
	campaignSvc := service.NewCampaignService(campaignRepo, nil, logr)
	campaignHandler := internalhandler.NewCampaignHandler(campaignSvc)

	// --- Scheduler core ---

	timeslotRepo := repository.NewTimeSlotRepository(db)
	regularClassRepo := repository.NewRegularClassRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	weightRepo := repository.NewConstraintWeightRepository(db)
	solveRepo := repository.NewSolveRepository(db)
	shiftRepo := repository.NewShiftRepository(db)

	var cacheRepo service.CacheRepository
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("eligibility cache disabled", "error", err)
	} else {
		defer client.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(client, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.EligibilityCacheTTL, logr, cacheRepo != nil)

	schedulerSvc := service.NewSchedulerService(
		db,
		campaignRepo,
		teacherRepo,
		studentRepo,
		subjectRepo,
		timeslotRepo,
		regularClassRepo,
		availabilityRepo,
		requirementRepo,
		weightRepo,
		solveRepo,
		shiftRepo,
		cacheSvc,
		metricsSvc,
		logr,
	)
	schedulerHandler := internalhandler.NewSchedulerHandler(schedulerSvc)

	exportStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)
	exportSvc := service.NewExportService(exportStore, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		Workers:   cfg.Scheduler.Workers,
	}, logr)
	exportCtx, cancelExport := context.WithCancel(context.Background())
	exportSvc.Start(exportCtx, 10*time.Minute, cfg.Export.SignedURLTTL)
	defer func() {
		cancelExport()
		exportSvc.Stop()
	}()
	exportHandler := internalhandler.NewExportHandler(schedulerSvc, exportSvc)

	// --- Routes ---

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	usersGroup := secured.Group("/users")
	usersGroup.Use(internalmiddleware.RBAC(string(models.RoleAdmin)))
	usersGroup.GET("", userHandler.List)
	usersGroup.POST("", userHandler.Create)
	usersGroup.GET("/:id", userHandler.Get)
	usersGroup.PUT("/:id", userHandler.Update)
	usersGroup.DELETE("/:id", userHandler.Delete)

	teachersGroup := secured.Group("/teachers")
	teachersGroup.GET("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), teacherHandler.List)
	teachersGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin)), teacherHandler.Create)
	teachersGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), teacherHandler.Get)
	teachersGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), teacherHandler.Update)
	teachersGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), teacherHandler.Delete)

	studentsGroup := secured.Group("/students")
	studentsGroup.GET("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), studentHandler.List)
	studentsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin)), studentHandler.Create)
	studentsGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), studentHandler.Get)
	studentsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), studentHandler.Update)
	studentsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), studentHandler.Delete)

	subjectsGroup := secured.Group("/subjects")
	subjectsGroup.GET("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), subjectHandler.List)
	subjectsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin)), subjectHandler.Create)
	subjectsGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), subjectHandler.Get)
	subjectsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), subjectHandler.Update)
	subjectsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), subjectHandler.Delete)

	campaignsGroup := secured.Group("/campaigns")
	campaignsGroup.GET("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), campaignHandler.List)
	campaignsGroup.GET("/active", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), campaignHandler.Active)
	campaignsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin)), campaignHandler.Create)
	campaignsGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), campaignHandler.Get)
	campaignsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), campaignHandler.Update)
	campaignsGroup.POST("/:id/activate", internalmiddleware.RBAC(string(models.RoleAdmin)), campaignHandler.Activate)
	campaignsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleAdmin)), campaignHandler.Delete)

	campaignsGroup.POST("/:id/solve", internalmiddleware.RBAC(string(models.RoleAdmin)), schedulerHandler.Solve)
	campaignsGroup.GET("/:id/shifts", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), schedulerHandler.Shifts)
	campaignsGroup.GET("/:id/shortages", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), schedulerHandler.Shortages)
	campaignsGroup.GET("/:id/solves", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), schedulerHandler.History)
	campaignsGroup.GET("/:id/export", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), exportHandler.Export)

	secured.GET("/export/:token", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
