package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/config"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/controller"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/curriculum"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/configwatcher"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/database"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/monitoring"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/security"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracer          *sdktrace.TracerProvider

	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	user         *repository.UserRepository
	quiz         *repository.QuizRepository
	attempt      *repository.AttemptRepository
	assignment   *repository.AssignmentRepository
	submission   *repository.SubmissionRepository
	notification *repository.NotificationRepository
	report       *repository.ReportRepository
}

type services struct {
	user         *service.UserService
	quiz         *service.QuizService
	attempt      *service.AttemptService
	assignment   *service.AssignmentService
	submission   *service.SubmissionService
	report       *service.ReportService
	notification *service.NotificationService
	curriculum   *service.CurriculumService
	catalog      *curriculum.Catalog
}

type controllers struct {
	user         *controller.UserController
	quiz         *controller.QuizController
	attempt      *controller.AttemptController
	assignment   *controller.AssignmentController
	submission   *controller.SubmissionController
	notification *controller.NotificationController
	curriculum   *controller.CurriculumController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		quiz:         repository.NewQuizRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		assignment:   repository.NewAssignmentRepository(db),
		submission:   repository.NewSubmissionRepository(db),
		notification: repository.NewNotificationRepository(db),
		report:       repository.NewReportRepository(db),
	}
}

func (a *App) initServices(r *repositories, cfg *config.Config, rdb *redis.Client, files service.FileStore) *services {
	catalog := curriculum.FromConfig(cfg.Curriculum)
	notifications := service.NewNotificationService(r.user, r.notification, rdb)

	return &services{
		user:         service.NewUserService(r.user),
		quiz:         service.NewQuizService(r.user, r.quiz, catalog),
		attempt:      service.NewAttemptService(r.user, r.quiz, r.attempt),
		assignment:   service.NewAssignmentService(r.user, r.assignment, catalog, files),
		submission:   service.NewSubmissionService(r.user, r.assignment, r.submission, files, notifications, cfg.Grading.AutoGradeFeedback),
		report:       service.NewReportService(r.user, r.quiz, r.assignment, r.report, catalog),
		notification: notifications,
		curriculum:   service.NewCurriculumService(r.user, catalog),
		catalog:      catalog,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client, cfg *config.Config) *controllers {
	maxUpload := cfg.Storage.MaxUploadMB << 20
	return &controllers{
		user:         controller.NewUserController(s.user),
		quiz:         controller.NewQuizController(s.quiz, s.report),
		attempt:      controller.NewAttemptController(s.attempt, s.report),
		assignment:   controller.NewAssignmentController(s.assignment, s.submission, s.report, maxUpload),
		submission:   controller.NewSubmissionController(s.submission, s.report, maxUpload, cfg.Grading.UpcomingDays),
		notification: controller.NewNotificationController(s.notification),
		curriculum:   controller.NewCurriculumController(s.curriculum, s.catalog),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New wires the HTTP application over an open database. rdb and files may be nil:
// without Redis notifications are only stored, and without files a
// StorageService is built from cfg.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, files service.FileStore) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	if files == nil {
		files = service.NewStorageService(cfg)
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb, files)
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb, cfg)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == "debug" {
		router.Use(gin.Logger())
	}
	router.MaxMultipartMemory = cfg.Storage.MaxUploadMB << 20
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, repos, cfg)

	app.RegisterConfigCallback(logger.Reconfigure)
	app.RegisterConfigCallback(func(next *config.Config) {
		svcs.submission.SetAutoGradeFeedback(next.Grading.AutoGradeFeedback)
	})

	return app
}

// NewApp initializes logging, storage backends and tracing from cfg and wires the app.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := New(cfg, db, rdb, nil)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) watchConfig() {
	if a.ConfigDir == "" {
		return
	}
	go func() {
		err := configwatcher.Watch(a.ctx, a.ConfigDir, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.watchConfig()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close stops background work and releases connections.
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
