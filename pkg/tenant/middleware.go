package tenant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/vex-core/internal/adapter/api/dto"
)

// RequireTenant exige que a autenticação tenha identificado a organização
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetTenantIDFromContext(c.Request.Context()) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				http.StatusBadRequest,
				"Organização não identificada",
				ErrTenantNotSpecified.Error(),
			))
			return
		}
		c.Next()
	}
}
