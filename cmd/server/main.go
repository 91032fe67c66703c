package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidyamithra/backend/adapters/ai"
	"github.com/vidyamithra/backend/adapters/event"
	httpAdapter "github.com/vidyamithra/backend/adapters/http"
	"github.com/vidyamithra/backend/adapters/persistence"
	adminUC "github.com/vidyamithra/backend/internal/application/usecase/admin"
	authUC "github.com/vidyamithra/backend/internal/application/usecase/auth"
	interviewUC "github.com/vidyamithra/backend/internal/application/usecase/interview"
	learningUC "github.com/vidyamithra/backend/internal/application/usecase/learning"
	opportunityUC "github.com/vidyamithra/backend/internal/application/usecase/opportunity"
	progressUC "github.com/vidyamithra/backend/internal/application/usecase/progress"
	quizUC "github.com/vidyamithra/backend/internal/application/usecase/quiz"
	resumeUC "github.com/vidyamithra/backend/internal/application/usecase/resume"
	roadmapUC "github.com/vidyamithra/backend/internal/application/usecase/roadmap"
	"github.com/vidyamithra/backend/internal/config"
	"github.com/vidyamithra/backend/pkg/auth"
	"github.com/vidyamithra/backend/pkg/logger"
	"github.com/vidyamithra/backend/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting VidyaMithra API server")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "vidyamithra-api")
	if err != nil {
		appLogger.Warn("Tracing disabled: " + err.Error())
	} else {
		defer tp.Shutdown(context.Background())
	}

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	roadmapRepo := persistence.NewPostgresRoadmapRepo(dbPool)
	quizRepo := persistence.NewPostgresQuizRepo(dbPool)
	interviewRepo := persistence.NewPostgresInterviewRepo(dbPool)
	learningRepo := persistence.NewPostgresLearningRepo(dbPool)
	opportunityRepo := persistence.NewPostgresOpportunityRepo(dbPool)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool)
	answerKeys := persistence.NewRedisAnswerKeyStore(redisClient)
	learningCache := persistence.NewRedisLearningCache(redisClient)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	aiGateway := ai.NewGateway(cfg, appLogger)

	// Use Cases
	authUseCase := authUC.NewAuthUseCase(userRepo, jwtSvc, appLogger)
	generateRoadmapUseCase := roadmapUC.NewGenerateRoadmapUseCase(aiGateway, roadmapRepo, kafkaClient, appLogger)
	getRoadmapUseCase := roadmapUC.NewGetRoadmapUseCase(roadmapRepo)
	skillStatusUseCase := roadmapUC.NewSkillStatusUseCase(roadmapRepo, quizRepo, appLogger)
	quizUseCase := quizUC.NewQuizUseCase(aiGateway, quizRepo, roadmapRepo, answerKeys, kafkaClient, appLogger)
	interviewUseCase := interviewUC.NewInterviewUseCase(aiGateway, interviewRepo, roadmapRepo, appLogger)
	learningUseCase := learningUC.NewLearningUseCase(aiGateway, learningRepo, learningCache, appLogger)
	opportunityUseCase := opportunityUC.NewOpportunityUseCase(aiGateway, opportunityRepo, appLogger)
	progressUseCase := progressUC.NewProgressUseCase(progressRepo, roadmapRepo, quizRepo, interviewRepo, appLogger)
	resumeUseCase := resumeUC.NewResumeUseCase(aiGateway, progressUseCase, appLogger)
	adminUseCase := adminUC.NewAdminUseCase(userRepo, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(authUseCase)
	roadmapHandler := httpAdapter.NewRoadmapHandler(generateRoadmapUseCase, getRoadmapUseCase, skillStatusUseCase)
	quizHandler := httpAdapter.NewQuizHandler(quizUseCase)
	interviewHandler := httpAdapter.NewInterviewHandler(interviewUseCase)
	learningHandler := httpAdapter.NewLearningHandler(learningUseCase)
	opportunityHandler := httpAdapter.NewOpportunityHandler(opportunityUseCase)
	progressHandler := httpAdapter.NewProgressHandler(progressUseCase)
	resumeHandler := httpAdapter.NewResumeHandler(resumeUseCase)
	adminHandler := httpAdapter.NewAdminHandler(adminUseCase)

	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", authMiddleware, authHandler.Me)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			roadmaps := private.Group("/roadmaps")
			{
				roadmaps.POST("", roadmapHandler.Generate)
				roadmaps.GET("/active", roadmapHandler.GetActive)
				roadmaps.PATCH("/:id/skills/:skillId/status", roadmapHandler.UpdateSkillStatus)
				roadmaps.POST("/:id/skills/:skillId/sync", roadmapHandler.SyncSkillStatus)
			}

			quizzes := private.Group("/quizzes")
			{
				quizzes.POST("/generate", quizHandler.Generate)
				quizzes.POST("/submit", quizHandler.Submit)
				quizzes.GET("/history", quizHandler.History)
			}

			interviews := private.Group("/interviews")
			{
				interviews.GET("/unlock", interviewHandler.CheckUnlock)
				interviews.POST("/question", interviewHandler.NextQuestion)
				interviews.POST("/analyze", interviewHandler.Analyze)
				interviews.GET("/history", interviewHandler.History)
			}

			learning := private.Group("/learning")
			{
				learning.GET("/resources", learningHandler.Resources)
				learning.POST("/resources/refresh", learningHandler.Refresh)
			}

			opportunities := private.Group("/opportunities")
			{
				opportunities.POST("/generate", opportunityHandler.Generate)
				opportunities.GET("", opportunityHandler.List)
			}

			progress := private.Group("/progress")
			{
				progress.POST("/snapshot", progressHandler.Snapshot)
				progress.GET("/history", progressHandler.History)
			}

			private.POST("/resume/analyze", resumeHandler.Analyze)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware, httpAdapter.AdminMiddleware())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/active", adminHandler.SetUserActive)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	appLogger.Info("Server listening on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("FATAL: cannot start server: %v", err)
	}
}
