package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/careerai/backend/config"
	"github.com/careerai/backend/internal/api/handlers"
	"github.com/careerai/backend/internal/api/middleware"
	"github.com/careerai/backend/internal/api/routes"
	"github.com/careerai/backend/internal/cache"
	"github.com/careerai/backend/internal/logger"
	"github.com/careerai/backend/internal/providers/captcha"
	"github.com/careerai/backend/internal/providers/llm"
	"github.com/careerai/backend/internal/providers/stt"
	mongorepo "github.com/careerai/backend/internal/repositories/mongo"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/services"
	"github.com/careerai/backend/internal/storage"
	"github.com/careerai/backend/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	ctx := context.Background()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	// Providers
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		log.Fatal("GCS_BUCKET environment variable is not set")
	}
	uploader, err := storage.NewGCSUploader(ctx, bucket)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer uploader.Close()

	gemini, err := llm.NewVertexGemini(ctx,
		os.Getenv("GOOGLE_PROJECT_ID"),
		os.Getenv("GOOGLE_LOCATION"),
		os.Getenv("GEMINI_MODEL"),
	)
	if err != nil {
		log.Fatalf("Vertex init error: %v", err)
	}
	defer gemini.Close()

	speech, err := stt.NewGoogleSpeech(ctx)
	if err != nil {
		log.Fatalf("Speech init error: %v", err)
	}
	defer speech.Close()

	verifier := captcha.NewRecaptcha(os.Getenv("RECAPTCHA_SECRET_KEY"), l)

	// Repositories
	db := config.PostgresDB
	mdb := config.MongoClient.Database(config.MongoDBName())

	userRepo := pgrepo.NewUserRepo(db)
	cvRepo := pgrepo.NewCVRepo(db)
	analysisRepo := pgrepo.NewAnalysisRepo(db)
	interviewRepo := pgrepo.NewInterviewRepo(db)
	messageRepo := mongorepo.NewMessageRepo(mdb)

	c := cache.NewRedisCache(config.RedisClient)

	// Services
	profileSvc := services.NewProfileService(userRepo, c, l)
	historySvc := services.NewHistoryService(userRepo, cvRepo, analysisRepo, interviewRepo, messageRepo, c, l)
	approvalSvc := services.NewApprovalService(userRepo, l)
	cvSvc := services.NewCVService(cvRepo, uploader, uploader, c)
	analysisSvc := services.NewAnalysisService(cvRepo, analysisRepo, gemini, c, l)
	interviewSvc := services.NewInterviewService(interviewRepo, messageRepo, c)

	// Worker pool for live interview answers
	pool := &workers.AnswerWorkerPool{
		Redis:      config.RedisClient,
		Interviews: interviewSvc,
		STT:        speech,
		LLM:        gemini,
		Logger:     l,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool start error: %v", err)
	}

	adminEmails := strings.Split(os.Getenv("ADMIN_EMAILS"), ",")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		History:     handlers.NewHistoryHandler(historySvc),
		Profile:     handlers.NewProfileHandler(profileSvc),
		Admin:       handlers.NewAdminHandler(approvalSvc),
		Captcha:     handlers.NewCaptchaHandler(verifier),
		CV:          handlers.NewCVHandler(cvSvc, analysisSvc),
		Interview:   handlers.NewInterviewHandler(interviewSvc),
		WS:          handlers.NewWSHandler(interviewSvc, config.RedisClient),
		AdminEmails: adminEmails,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
