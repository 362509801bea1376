package app

import (
	"study_aid_backend/docs"
	"study_aid_backend/internal/config"
	"study_aid_backend/internal/middleware"
	"study_aid_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/logout", c.auth.Logout)
		}
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		me := authGroup.Group("/auth")
		{
			me.GET("/me", c.auth.GetProfile)
			me.PUT("/me", c.auth.UpdateProfile)
			me.PUT("/password", c.auth.ChangePassword)
		}

		documents := authGroup.Group("/documents")
		{
			documents.POST("", c.document.Upload)
			documents.GET("", c.document.List)
			documents.GET("/:id", c.document.Get)
			documents.DELETE("/:id", c.document.Delete)
		}

		quizzes := authGroup.Group("/quizzes")
		{
			quizzes.POST("", c.quiz.Generate)
			quizzes.GET("", c.quiz.List)
			quizzes.GET("/:id", c.quiz.Get)
			quizzes.POST("/:id/submit", c.quiz.Submit)
			quizzes.GET("/:id/results", c.quiz.Results)
			quizzes.DELETE("/:id", c.quiz.Delete)
		}

		flashcards := authGroup.Group("/flashcards")
		{
			flashcards.POST("", c.flashcard.Generate)
			flashcards.GET("", c.flashcard.List)
			flashcards.POST("/:id/cards/:index/review", c.flashcard.Review)
			flashcards.POST("/:id/cards/:index/star", c.flashcard.ToggleStar)
			flashcards.DELETE("/:id", c.flashcard.Delete)
		}

		ai := authGroup.Group("/ai")
		{
			ai.GET("/documents/:id/summary", c.ai.Summarize)
			ai.POST("/chat", c.ai.Chat)
			ai.POST("/explain", c.ai.Explain)
		}

		authGroup.GET("/progress", c.progress.Overview)
	}
}
