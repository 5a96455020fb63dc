package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/vex-core/internal/adapter/api/controller"
	"github.com/hugohenrick/vex-core/pkg/assistant/policy"
	"github.com/hugohenrick/vex-core/pkg/auth"
	"github.com/hugohenrick/vex-core/pkg/tenant"
)

// SetupModuleRoutes configura as rotas de habilitação de módulos
func SetupModuleRoutes(router *gin.RouterGroup, moduleController *controller.ModuleController, jwtService *auth.JWTService, gate *policy.Gate) {
	moduleRouter := router.Group("/modules")
	{
		moduleRouter.Use(auth.JWTAuthMiddleware(jwtService))
		moduleRouter.Use(tenant.RequireTenant())
		moduleRouter.GET("", moduleController.List)

		// Alteração restrita a superadmin
		moduleRouter.PUT("", auth.SuperadminMiddleware(gate), moduleController.Update)
	}
}
