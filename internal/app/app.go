package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"study_aid_backend/internal/config"
	"study_aid_backend/internal/controller"
	"study_aid_backend/internal/repository"
	"study_aid_backend/internal/service"
	"study_aid_backend/pkg/database"
	"study_aid_backend/pkg/logger"
	"study_aid_backend/pkg/monitoring"
	"study_aid_backend/pkg/security"
	"study_aid_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user      *repository.UserRepository
	document  *repository.DocumentRepository
	quiz      *repository.QuizRepository
	flashcard *repository.FlashcardRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	ai        *service.AIService
	document  *service.DocumentService
	quiz      *service.QuizService
	flashcard *service.FlashcardService
	progress  *service.ProgressService
}

type controllers struct {
	auth      *controller.AuthController
	document  *controller.DocumentController
	quiz      *controller.QuizController
	flashcard *controller.FlashcardController
	ai        *controller.AIController
	progress  *controller.ProgressController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		document:  repository.NewDocumentRepository(db),
		quiz:      repository.NewQuizRepository(db),
		flashcard: repository.NewFlashcardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	provider, err := service.NewChatProvider(context.Background(), cfg.AI)
	if err != nil {
		return nil, err
	}

	s.storage = service.NewStorageService(cfg)
	s.ai = service.NewAIService(provider, rdb, cfg.AI)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, cfg)
	s.document = service.NewDocumentService(repos.document, s.storage, s.ai)
	s.quiz = service.NewQuizService(repos.quiz, s.document, s.ai)
	s.flashcard = service.NewFlashcardService(repos.flashcard, s.document, s.ai)
	s.progress = service.NewProgressService(repos.document, repos.quiz, repos.flashcard)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	isRelease := a.Config.Server.Mode == "release"
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user, a.Config.JWT.ExpireTime, isRelease),
		document:  controller.NewDocumentController(s.document),
		quiz:      controller.NewQuizController(s.quiz),
		flashcard: controller.NewFlashcardController(s.flashcard),
		ai:        controller.NewAIController(s.ai, s.document),
		progress:  controller.NewProgressController(s.progress),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, err
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Error("Failed to run migrations", zap.Error(err))
			return nil, err
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Error("Failed to initialize redis", zap.Error(err))
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Error("Failed to initialize services", zap.Error(err))
		return nil, err
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("study-aid-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
