package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/vex-core/internal/adapter/api/controller"
)

// SetupHealthRoutes configura a rota pública de verificação de saúde
func SetupHealthRoutes(router *gin.RouterGroup, healthController *controller.HealthController) {
	router.GET("/health", healthController.Health)
}
