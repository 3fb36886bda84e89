package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aral_lms_backend/internal/config"
	"aral_lms_backend/internal/controller"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/service"
	"aral_lms_backend/pkg/configwatcher"
	"aral_lms_backend/pkg/database"
	"aral_lms_backend/pkg/logger"
	"aral_lms_backend/pkg/monitoring"
	"aral_lms_backend/pkg/security"
	"aral_lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user         *repository.UserRepository
	otp          *repository.OtpRepository
	course       *repository.CourseRepository
	module       *repository.ModuleRepository
	lesson       *repository.LessonRepository
	progress     *repository.ProgressRepository
	lockStatus   *repository.LockStatusRepository
	quiz         *repository.QuizRepository
	enrollment   *repository.EnrollmentRepository
	discussion   *repository.DiscussionRepository
	notification *repository.NotificationRepository
	output       *repository.OutputRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	course       *service.CourseService
	lesson       *service.LessonService
	progress     *service.ProgressService
	gate         *service.ModuleGateService
	quiz         *service.QuizService
	discussion   *service.DiscussionService
	notification *service.NotificationService
	output       *service.OutputService
	mailer       service.Mailer
	storage      service.StorageProvider
	hub          *service.NotificationHub
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	content      *controller.ContentController
	progress     *controller.ProgressController
	quiz         *controller.QuizController
	discussion   *controller.DiscussionController
	notification *controller.NotificationController
	output       *controller.OutputController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		otp:          repository.NewOtpRepository(db),
		course:       repository.NewCourseRepository(db),
		module:       repository.NewModuleRepository(db),
		lesson:       repository.NewLessonRepository(db),
		progress:     repository.NewProgressRepository(db),
		lockStatus:   repository.NewLockStatusRepository(db),
		quiz:         repository.NewQuizRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		discussion:   repository.NewDiscussionRepository(db),
		notification: repository.NewNotificationRepository(db, rdb),
		output:       repository.NewOutputRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage
	s.mailer = service.NewSendgridMailer(cfg)

	s.hub = service.NewNotificationHub(rdb)
	go s.hub.Run()

	s.notification = service.NewNotificationService(repos.notification, repos.user, s.hub, s.mailer)

	s.gate = service.NewModuleGateService(db, s.notification)
	s.progress = service.NewProgressService(db, repos.progress, repos.lockStatus, s.gate)
	s.quiz = service.NewQuizService(db, repos.quiz, s.gate)
	s.course = service.NewCourseService(db, repos.course, repos.enrollment, s.gate, s.notification)
	s.lesson = service.NewLessonService(repos.module, repos.lesson, s.storage)

	s.auth = service.NewAuthService(cfg, repos.user, repos.otp, s.mailer)
	s.user = service.NewUserService(db, repos.user)
	s.discussion = service.NewDiscussionService(repos.discussion, s.notification)
	s.output = service.NewOutputService(repos.output, s.storage, s.notification)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course),
		content:      controller.NewContentController(s.lesson, s.gate),
		progress:     controller.NewProgressController(s.progress),
		quiz:         controller.NewQuizController(s.quiz),
		discussion:   controller.NewDiscussionController(s.discussion),
		notification: controller.NewNotificationController(s.notification, s.hub),
		output:       controller.NewOutputController(s.output),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, caching and websocket fan-out degraded", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Hot-reload the config file; components that read through the shared
	// pointer (JWT secret, mail settings) pick changes up on the next request.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if loaded, ok := newCfg.(*config.Config); ok {
			*app.Config = *loaded
			logger.Log.Info("Config reloaded")
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
