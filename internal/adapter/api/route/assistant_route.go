package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/vex-core/internal/adapter/api/controller"
	"github.com/hugohenrick/vex-core/pkg/auth"
	"github.com/hugohenrick/vex-core/pkg/tenant"
)

// SetupAssistantRoutes configura as rotas do chat do assistente
func SetupAssistantRoutes(router *gin.RouterGroup, assistantController *controller.AssistantController, jwtService *auth.JWTService, limiter *auth.RateLimiter) {
	assistantRouter := router.Group("/assistant")
	{
		assistantRouter.Use(auth.JWTAuthMiddleware(jwtService))
		assistantRouter.Use(tenant.RequireTenant())
		assistantRouter.Use(limiter.Middleware())
		assistantRouter.POST("/chat", assistantController.Chat)
	}
}
