package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"projectk_backend/internal/config"
	"projectk_backend/internal/controller"
	"projectk_backend/internal/repository"
	"projectk_backend/internal/service"
	"projectk_backend/internal/util"
	"projectk_backend/pkg/configwatcher"
	"projectk_backend/pkg/database"
	"projectk_backend/pkg/logger"
	"projectk_backend/pkg/monitoring"
	"projectk_backend/pkg/security"
	"projectk_backend/pkg/tracing"
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
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	profile      *repository.ProfileRepository
	class        *repository.ClassRepository
	question     *repository.QuestionRepository
	attempt      *repository.AttemptRepository
	chat         *repository.ChatRepository
	chatCache    *repository.ChatCache
	notification *repository.NotificationRepository
	calendar     *repository.CalendarRepository
	mindfulness  *repository.MindfulnessRepository
	note         *repository.NoteRepository
}

type services struct {
	ai           *service.AIService
	xp           *service.XPService
	auth         *service.AuthService
	user         *service.UserService
	class        *service.ClassService
	practice     *service.PracticeService
	analytics    *service.AnalyticsService
	chat         *service.ChatService
	note         *service.NoteService
	assistant    *service.AssistantService
	mindfulness  *service.MindfulnessService
	calendar     *service.CalendarService
	notification *service.NotificationService
	dashboard    *service.DashboardService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	class        *controller.ClassController
	practice     *controller.PracticeController
	analytics    *controller.AnalyticsController
	chat         *controller.ChatController
	note         *controller.NoteController
	assistant    *controller.AssistantController
	wellbeing    *controller.WellbeingController
	notification *controller.NotificationController
	dashboard    *controller.DashboardController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		profile:      repository.NewProfileRepository(db),
		class:        repository.NewClassRepository(db),
		question:     repository.NewQuestionRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		chat:         repository.NewChatRepository(db),
		chatCache:    repository.NewChatCache(rdb, time.Duration(cfg.Chat.CacheTTLMinutes)*time.Minute),
		notification: repository.NewNotificationRepository(db),
		calendar:     repository.NewCalendarRepository(db),
		mindfulness:  repository.NewMindfulnessRepository(db),
		note:         repository.NewNoteRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.notification = service.NewNotificationService(repos.notification, repos.class)
	s.xp = service.NewXPService(repos.profile)
	s.xp.Sink = s.notification

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.profile)
	s.class = service.NewClassService(repos.class)
	s.practice = service.NewPracticeService(repos.question, repos.attempt, s.xp, s.ai)
	s.analytics = service.NewAnalyticsService(
		repos.attempt,
		repos.chat,
		repos.profile,
		repos.class,
		repos.question,
		repos.mindfulness,
		repos.calendar,
		service.PolicyFromConfig(cfg.Analytics),
	)
	s.chat = service.NewChatService(repos.chat, repos.chatCache, s.ai, s.xp, cfg.Chat.HistoryLimit)
	s.note = service.NewNoteService(repos.note, s.ai, service.NewStorageProvider(&cfg.Storage), s.xp)
	s.assistant = service.NewAssistantService(s.ai, s.xp)
	s.mindfulness = service.NewMindfulnessService(repos.mindfulness, s.xp)
	s.calendar = service.NewCalendarService(repos.calendar)
	s.dashboard = service.NewDashboardService(repos.profile, repos.chat, repos.class, repos.notification, repos.attempt, s.calendar)

	// 配置热更新时替换分析阈值
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.analytics.SetPolicy(service.PolicyFromConfig(newCfg.Analytics))
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		class:        controller.NewClassController(s.class),
		practice:     controller.NewPracticeController(s.practice),
		analytics:    controller.NewAnalyticsController(s.analytics),
		chat:         controller.NewChatController(s.chat),
		note:         controller.NewNoteController(s.note),
		assistant:    controller.NewAssistantController(s.assistant),
		wellbeing:    controller.NewWellbeingController(s.mindfulness, s.calendar),
		notification: controller.NewNotificationController(s.notification),
		dashboard:    controller.NewDashboardController(s.dashboard),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, security.KeyByIP))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// Migrate 只初始化数据库并执行迁移
func Migrate(cfg *config.Config) error {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Log.Info("Database migrated")
	return nil
}

func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.ForceMigrate || cfg.Server.Mode == gin.DebugMode {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时继续运行
		logger.Log.Warn("Redis unavailable, chat cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, db, rdb)

	router := gin.New()
	router.Use(gin.Recovery(), gin.Logger())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigDir == "" {
		return
	}
	file := filepath.Join(a.ConfigDir, "config.yaml")
	if err := configwatcher.WatchConfig(ctx, file, a.applyConfig); err != nil {
		logger.Log.Warn("Config watcher disabled", zap.Error(err))
	}
}

func (a *App) Run() error {
	defer logger.Log.Sync()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.watchConfig(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	return nil
}
