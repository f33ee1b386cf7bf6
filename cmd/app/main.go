package main

import (
	"fmt"
	"log"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"missionforge-backend/internal/cache"
	"missionforge-backend/internal/config"
	"missionforge-backend/internal/controller"
	"missionforge-backend/internal/db"
	"missionforge-backend/internal/llm"
	"missionforge-backend/internal/model"
	"missionforge-backend/internal/repository"
	"missionforge-backend/internal/service"
	"missionforge-backend/pkg/middleware"
	"missionforge-backend/utilities"
)

func main() {
	printStartUpBanner()

	// Secrets come from the environment; .env is optional in development.
	_ = godotenv.Load()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	utilities.SetupLogging(cfg.Context.LogDir)

	// Initialize DB using the loaded config.
	if err := db.InitDBFromConfig(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	// Run migrations.
	if err := db.GetDB().AutoMigrate(
		&model.User{},
		&model.Mission{},
		&model.MissionProgress{},
		&model.UserStats{},
		&model.UserAchievement{},
		&model.MissionArtifact{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Optional leaderboard cache.
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			utilities.Warn("redis unavailable, leaderboard caching disabled: %v", err)
			redisClient = nil
		}
	}

	// Text-generation client.
	llmClient := llm.NewOllamaClient(
		cfg.LLM.OllamaURL,
		cfg.LLM.Model,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)
	generator := llm.NewGenerator(llmClient)

	// Create repositories.
	userRepo := repository.NewUserRepository()
	missionRepo := repository.NewMissionRepository()
	progressRepo := repository.NewProgressRepository()
	statsRepo := repository.NewStatsRepository()
	achievementRepo := repository.NewAchievementRepository()

	// Create services.
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	missionService := service.NewMissionService(missionRepo, progressRepo, generator, service.GenerationOptions{
		FlashcardCount:    cfg.Generation.FlashcardCount,
		QuizQuestionCount: cfg.Generation.QuizQuestionCount,
		TestQuestionCount: cfg.Generation.TestQuestionCount,
		TestTimeLimit:     cfg.Generation.TestTimeLimit,
	})
	progressService := service.NewProgressService(missionRepo, progressRepo, statsRepo, achievementRepo)
	statsService := service.NewStatsService(statsRepo, redisClient)
	reportService := service.NewReportService(userRepo, statsRepo, achievementRepo)

	service.InitNotificationListeners()

	// Initialize Gin router.
	r := gin.Default()

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	r.Use(utilities.AuthMiddleware())

	controller.RegisterRoutes(r, authService, userService, missionService, progressService, statsService, reportService)

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("MISSIONFORGE", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("MISSIONFORGE API (v%s)\n\n", "1.0.0")
}
