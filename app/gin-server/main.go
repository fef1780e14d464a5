package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/careerforge/backend/config"
	"github.com/careerforge/backend/internal/api/handlers"
	"github.com/careerforge/backend/internal/api/middleware"
	"github.com/careerforge/backend/internal/api/routes"
	"github.com/careerforge/backend/internal/attempt"
	"github.com/careerforge/backend/internal/cache"
	"github.com/careerforge/backend/internal/logger"
	"github.com/careerforge/backend/internal/metrics"
	"github.com/careerforge/backend/internal/providers/llm"
	"github.com/careerforge/backend/internal/providers/stt"
	mongorepo "github.com/careerforge/backend/internal/repositories/mongo"
	pgrepo "github.com/careerforge/backend/internal/repositories/postgres"
	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/storage"
	"github.com/careerforge/backend/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("postgres init failed")
	}
	log.Info("postgres connected")

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("mongo init failed")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("mongo index setup failed")
	}
	log.Info("mongo connected")

	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("redis init failed")
	}
	log.Info("redis connected")

	// providers
	gemini, err := llm.NewVertexGemini(ctx,
		os.Getenv("VERTEX_PROJECT_ID"),
		os.Getenv("VERTEX_LOCATION"),
		os.Getenv("VERTEX_MODEL"),
		os.Getenv("VERTEX_EMBED_MODEL"),
	)
	if err != nil {
		log.WithError(err).Fatal("vertex init failed")
	}
	defer gemini.Close()
	provider := llm.NewBreakerProvider(gemini, log)

	speech, err := stt.NewGoogleSpeech(ctx)
	if err != nil {
		log.WithError(err).Fatal("speech init failed")
	}
	defer speech.Close()

	bucket := os.Getenv("GCS_BUCKET")
	uploader, err := storage.NewGCSUploader(ctx, bucket)
	if err != nil {
		log.WithError(err).Fatal("gcs init failed")
	}
	defer uploader.Close()

	// repositories
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	interviewRepo := pgrepo.NewInterviewRepo(config.PostgresDB)
	feedbackRepo := pgrepo.NewFeedbackRepo(config.PostgresDB)
	assessmentRepo := pgrepo.NewAssessmentRepo(config.PostgresDB)
	resumeRepo := pgrepo.NewResumeRepo(config.PostgresDB)
	coverLetterRepo := pgrepo.NewCoverLetterRepo(config.PostgresDB)
	industryRepo := pgrepo.NewIndustryInsightRepo(config.PostgresDB)
	userInsightRepo := pgrepo.NewUserInsightRepo(config.PostgresDB)
	transcriptRepo := mongorepo.NewTranscriptRepo(config.MongoDatabase())

	redisCache := cache.NewRedisCache(config.RedisClient)

	// services
	insightSvc := services.NewInsightService(userRepo, industryRepo, userInsightRepo,
		provider, redisCache, logger.Component(log, "insights"))
	userSvc := services.NewUserService(userRepo, industryRepo, insightSvc)
	interviewSvc := services.NewInterviewService(userRepo, interviewRepo, feedbackRepo, provider)
	assessmentSvc := services.NewAssessmentService(userRepo, assessmentRepo, provider)
	resumeSvc := services.NewResumeService(userRepo, resumeRepo, provider,
		uploader, uploader, logger.Component(log, "resume"))
	coverLetterSvc := services.NewCoverLetterService(userRepo, coverLetterRepo, resumeRepo,
		provider, logger.Component(log, "coverletter"))
	answerSvc := services.NewAnswerService(transcriptRepo, config.RedisClient, 2*time.Hour)

	// workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	pool := &workers.AnswerWorkerPool{
		Redis:   config.RedisClient,
		Answers: answerSvc,
		STT:     speech,
		Logger:  log,
	}
	if err := pool.Start(workerCtx); err != nil {
		log.WithError(err).Fatal("answer workers failed to start")
	}

	refresher := &workers.InsightRefreshWorker{
		Insights: insightSvc,
		Interval: time.Hour,
		Logger:   log,
	}
	refresher.Start(workerCtx)

	// http
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Middleware())

	routes.RegisterRoutes(r, routes.Deps{
		User:        handlers.NewUserHandler(userSvc),
		Interview:   handlers.NewInterviewHandler(interviewSvc),
		Assessment:  handlers.NewAssessmentHandler(assessmentSvc),
		Resume:      handlers.NewResumeHandler(resumeSvc),
		CoverLetter: handlers.NewCoverLetterHandler(coverLetterSvc),
		Insight:     handlers.NewInsightHandler(insightSvc),
		Webhook:     handlers.NewWebhookHandler(interviewSvc),
		WS:          handlers.NewWSHandler(interviewSvc, answerSvc, attempt.NewManager(), config.RedisClient),

		UserLimit:    middleware.RateLimit(rate.Limit(20), 40),
		WebhookLimit: middleware.RateLimit(rate.Limit(5), 10),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
