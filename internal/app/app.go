package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/internal/controller"
	"pdf_quiz_backend/internal/repository"
	"pdf_quiz_backend/internal/service"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/configwatcher"
	"pdf_quiz_backend/pkg/database"
	"pdf_quiz_backend/pkg/logger"
	"pdf_quiz_backend/pkg/monitoring"
	"pdf_quiz_backend/pkg/security"
	"pdf_quiz_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	assignment *repository.AssignmentRepository
	document   *repository.PDFDocumentRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	quiz       *service.QuizService
	assignment *service.AssignmentService
	tokens     service.TokenStore
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	quiz       *controller.QuizController
	assignment *controller.AssignmentController
	document   *controller.DocumentController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		document:   repository.NewPDFDocumentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	if rdb != nil {
		s.tokens = service.NewRedisTokenStore(rdb)
	} else {
		s.tokens = service.NewMemoryTokenStore()
	}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, service.BcryptHasher{}, s.tokens, cfg.JWT)
	s.user = service.NewUserService(repos.user)

	s.quiz = service.NewQuizService(
		service.NewPDFService(),
		buildGenerator(cfg.AI),
		s.storage,
		repos.document,
		cfg.Storage.QuizPath,
	)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.user, s.quiz)

	return s
}

// buildGenerator returns nil when the AI settings are incomplete; uploads then fail with a clear error.
func buildGenerator(cfg config.AIConfig) service.QuestionGenerator {
	gen, err := service.NewGenerator(context.Background(), cfg)
	if err != nil {
		logger.Log.Warn("Question generator not available", zap.String("provider", cfg.Provider), zap.Error(err))
		return nil
	}
	logger.Log.Info("Question generator ready", zap.String("generator", gen.Name()))
	return service.Instrument(gen)
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	maxUpload := a.Config.Server.MaxUploadMB << 20
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		quiz:       controller.NewQuizController(s.quiz, maxUpload),
		assignment: controller.NewAssignmentController(s.assignment, maxUpload),
		document:   controller.NewDocumentController(s.quiz),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	}
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloadHooks keeps the generator and log level in step with the config file.
func (a *App) registerReloadHooks() {
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg)
	})
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		if newCfg.AI == a.Config.AI {
			return
		}
		old := a.services.quiz.SetGenerator(buildGenerator(newCfg.AI))
		// 已在进行中的生成调用结束后才真正关闭旧客户端
		if c, ok := old.(io.Closer); ok {
			c.Close()
		}
		a.Config.AI = newCfg.AI
	})
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	if err := ensureDirs(cfg); err != nil {
		return nil, err
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	if err := services.auth.SeedAdmin(cfg.Admin); err != nil {
		return nil, err
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("pdf-quiz", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracerProvider = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)
	app.registerReloadHooks()

	return app, nil
}

func (a *App) applyConfig(newCfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(newCfg)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.Server.WatchConfig && a.Config.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close releases connections held by the app.
func (a *App) Close(ctx context.Context) {
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Sync()
}

// ensureDirs creates the local directories uploads and quizzes are written to.
func ensureDirs(cfg *config.Config) error {
	dirs := []string{cfg.Storage.QuizPath}
	if cfg.Storage.Type == util.StorageLocal {
		dirs = append(dirs, cfg.Storage.LocalPath)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
