package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ptdat/skillgate/config"
	"github.com/ptdat/skillgate/database"
	"github.com/ptdat/skillgate/internal/controller/assessment"
	"github.com/ptdat/skillgate/internal/controller/candidate"
	"github.com/ptdat/skillgate/internal/logger"
	"github.com/ptdat/skillgate/internal/model"
	"github.com/ptdat/skillgate/internal/monitoring"
	"github.com/ptdat/skillgate/internal/repository"
	"github.com/ptdat/skillgate/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Skillgate Assessment API
// @version 1.0
// @description Server side of the skills-assessment platform: LLM-generated question sets, candidate test sessions, proctoring capture and answer scoring.
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	logger.Init("") // console only until config is loaded

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewQuestionSetRepository,
			repository.NewQuestionRepository,
			repository.NewTestAttemptRepository,
		),

		fx.Provide(
			service.NewGeminiLLMService,
			service.NewGenerationService,
			service.NewAssessmentService,
			service.NewSessionService,
			service.NewStorageService,
		),

		fx.Provide(
			assessment.NewAssessmentController,
			candidate.NewCandidateController,
		),

		fx.Invoke(InitLogger),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func InitLogger(cfg *config.Config) {
	logger.Init(cfg.Log.File)
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	monitoring.Init()
	r.Use(monitoring.MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle. Route paths match the contract the front-end client consumes.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	assessmentCtrl *assessment.AssessmentController,
	candidateCtrl *candidate.CandidateController,
) {
	router.POST("/generate-test", assessmentCtrl.GenerateTest)
	router.POST("/finalize-test", assessmentCtrl.FinalizeTest)
	router.GET("/question-set/:question_set_id/questions", assessmentCtrl.GetQuestionSetQuestions)

	router.GET("/test/start/:question_set_id", candidateCtrl.StartTest)
	router.POST("/test/save_violations", candidateCtrl.SaveViolations)
	router.POST("/test/submit_section", candidateCtrl.SubmitSection)
	router.POST("/upload_audio", candidateCtrl.UploadAudio)
	router.POST("/upload_video", candidateCtrl.UploadVideo)

	// Uploaded media is served back under the upload directory's path.
	if cfg.Storage.Type != "minio" {
		router.Static("/"+cfg.Storage.UploadDir, cfg.Storage.UploadDir)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Skillgate assessment API starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.QuestionSet{},
		&model.Question{},
		&model.TestAttempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
