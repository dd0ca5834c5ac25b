package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/controller"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/service"
	"mathquest_backend/pkg/database"
	"mathquest_backend/pkg/logger"
	"mathquest_backend/pkg/monitoring"
	"mathquest_backend/pkg/security"
	"mathquest_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Backend         repository.Backend
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginSet
	limitPolicy     *security.RateLimitPolicy
	configCallbacks []func(*config.Config)
}

type services struct {
	session     *service.SessionService
	auth        *service.AuthService
	storage     *service.StorageService
	progress    *service.ProgressService
	achievement *service.AchievementService
	score       *service.ScoreService
	activity    *service.ActivityService
	reset       *service.ResetService
	admin       *service.AdminService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	progress    *controller.ProgressController
	achievement *controller.AchievementController
	score       *controller.ScoreController
	activity    *controller.ActivityController
	reset       *controller.ResetController
	admin       *controller.AdminController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热重载入口，把新配置分发给各个已登记的回调
func (a *App) ApplyConfig(newCfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("Runtime config applied",
		zap.Strings("cors_origins", newCfg.CORS.AllowedOrigins),
		zap.Int("rate_limit_max", newCfg.RateLimit.MaxRequests))
}

// rateLimitParams 缺省兜底：未配置时每分钟600次
func rateLimitParams(cfg *config.Config) (int, time.Duration) {
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	return maxRequests, window
}

// initBackend 按 driver 挑选存储后端：mongo 走远程文档库，其余走嵌入式关系库
func (a *App) initBackend(cfg *config.Config) (repository.Backend, error) {
	if cfg.Database.Driver == "mongo" {
		mdb, err := database.InitMongo(&cfg.Mongo)
		if err != nil {
			return nil, err
		}
		backend := repository.NewMongoBackend(mdb)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := backend.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return backend, nil
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db
	return repository.NewGormBackend(db), nil
}

func (a *App) initServices(backend repository.Backend, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.session = service.NewSessionService(rdb)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(backend, s.session, cfg)
	s.progress = service.NewProgressService(backend)
	s.achievement = service.NewAchievementService(backend)
	s.score = service.NewScoreService(backend)
	s.activity = service.NewActivityService(backend)
	s.reset = service.NewResetService(backend)
	s.admin = service.NewAdminService(backend, rdb)

	return s
}

func (a *App) initControllers(s *services, backend repository.Backend) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.auth, s.storage),
		progress:    controller.NewProgressController(s.progress, s.activity),
		achievement: controller.NewAchievementController(s.achievement),
		score:       controller.NewScoreController(s.score),
		activity:    controller.NewActivityController(s.activity),
		reset:       controller.NewResetController(s.reset),
		admin:       controller.NewAdminController(s.admin, s.reset),
		health:      controller.NewHealthController(backend),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.origins = security.NewOriginSet(cfg.CORS.AllowedOrigins)
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())

	a.limitPolicy = security.NewRateLimitPolicy(rateLimitParams(cfg))
	router.Use(security.RateLimiter(a.limitPolicy))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	backend, err := app.initBackend(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage backend", zap.Error(err))
	}
	app.Backend = backend

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}
	app.Redis = rdb

	services := app.initServices(backend, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, backend)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	// CORS 白名单、限流参数和管理员白名单支持热更新，其余改动需要重启
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.origins.Replace(newCfg.CORS.AllowedOrigins)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.limitPolicy.Update(rateLimitParams(newCfg))
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Config.Admin.Replace(newCfg.Admin.Emails)
	})

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mathquest-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
