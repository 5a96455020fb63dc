package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger verifica a conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController responde às verificações de saúde
type HealthController struct {
	db Pinger
}

// NewHealthController cria o controller. db pode ser nil quando o estado fica em memória.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health verifica se o serviço está no ar
// @Summary Verificação de saúde
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
