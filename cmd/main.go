package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quantacore/skilluplift/config"
	"github.com/quantacore/skilluplift/database"
	_ "github.com/quantacore/skilluplift/docs" // Swagger docs - auto-generated
	"github.com/quantacore/skilluplift/internal/controller"
	"github.com/quantacore/skilluplift/internal/jobs"
	"github.com/quantacore/skilluplift/internal/logger"
	"github.com/quantacore/skilluplift/internal/model"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/quantacore/skilluplift/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Skill Uplift Assessment API
// @version 1.0
// @description Proctored skills-test backend: timed sessions, MCQ and coding scoring, per-user history with analytics.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuestionRepository,
			repository.NewSessionRepository,
			repository.NewResultRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewQuestionBankService,
			service.NewQuestionGenService,
			service.NewHeuristicCodeEvaluator,
			service.NewSessionService,
			func(
				sessionRepo repository.SessionRepository,
				questionRepo repository.QuestionRepository,
				resultRepo repository.ResultRepository,
				evaluator service.CodeEvaluator,
				db *gorm.DB,
				cfg *config.Config,
			) service.ScoringService {
				return service.NewScoringService(sessionRepo, questionRepo, resultRepo, evaluator, db, cfg.Assessment.GraceSeconds)
			},
			service.NewHistoryService,
			service.NewUserService,
		),

		// Jobs and API Controllers
		fx.Provide(
			jobs.NewSessionSweeper,
			controller.NewAssessmentController,
			controller.NewUserController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedQuestionBank),
		fx.Invoke(jobs.StartSessionSweeper),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
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
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	assessmentCtrl *controller.AssessmentController,
	userCtrl *controller.UserController,
) {
	api := router.Group("/api/v1")
	{
		tests := api.Group("/tests")
		tests.POST("/start", assessmentCtrl.StartTest)
		tests.POST("/submit", assessmentCtrl.SubmitTest)

		users := api.Group("/users")
		users.POST("", userCtrl.RegisterUser)
		users.GET("/:user_id/test-history", assessmentCtrl.GetTestHistory)
		users.GET("/:user_id/overview", userCtrl.GetProfileOverview)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Skill Uplift API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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
		&model.User{},
		&model.MCQQuestion{},
		&model.CodingQuestion{},
		&model.TestSession{},
		&model.TestResult{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

func SeedQuestionBank(bank service.QuestionBankService) error {
	return bank.Seed()
}
