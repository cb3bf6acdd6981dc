// Package router registers the DocVault HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kart-io/docvault/api/swagger"
	"github.com/kart-io/docvault/internal/docvault/handler"
)

// Handlers groups the route handlers.
type Handlers struct {
	Health        *handler.HealthHandler
	Documents     *handler.DocumentHandler
	Conversations *handler.ConversationHandler
}

// Register mounts the public endpoints and the /api/v1 group. guards run
// before every /api/v1 handler, normally authentication then authorization.
func Register(engine *gin.Engine, h Handlers, guards ...gin.HandlerFunc) {
	logger.Info("Registering DocVault routes...")

	engine.GET("/", h.Health.Root)
	engine.GET("/healthz", h.Health.Healthz)

	v1 := engine.Group("/api/v1", guards...)
	{
		v1.GET("/me", handler.Me)

		docs := v1.Group("/documents")
		{
			docs.POST("", h.Documents.Upload)
			docs.GET("", h.Documents.List)
			docs.GET("/:id", h.Documents.Get)
			docs.DELETE("/:id", h.Documents.Delete)
		}

		convs := v1.Group("/conversations")
		{
			convs.POST("", h.Conversations.Create)
			convs.GET("", h.Conversations.List)
			convs.GET("/:id/messages", h.Conversations.Messages)
		}

		v1.POST("/chat", h.Conversations.Chat)
	}

	logger.Info("HTTP routes registered")
}

// RegisterSwagger serves the API document at /swagger/doc.json and the UI
// at /swagger/index.html. Both are public.
func RegisterSwagger(engine *gin.Engine) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(swagger.SwaggerInfo.InstanceName())))
	logger.Info("Swagger UI available at /swagger/index.html")
}
