package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/vex-core/internal/adapter/api/dto"
	"github.com/hugohenrick/vex-core/internal/domain/module"
	"github.com/hugohenrick/vex-core/pkg/auth"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// ModuleController gerencia a habilitação de módulos por organização
type ModuleController struct {
	repo   module.Repository
	logger logger.Logger
}

// NewModuleController cria uma nova instância de ModuleController
func NewModuleController(repo module.Repository, log logger.Logger) *ModuleController {
	return &ModuleController{repo: repo, logger: log}
}

// List lista os módulos da organização do token
// @Summary Lista os módulos
// @Description Lista os módulos gerenciados e se estão habilitados para a organização
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ModuleResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /modules [get]
func (c *ModuleController) List(ctx *gin.Context) {
	caller, ok := auth.CallerFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Autenticação requerida", ""))
		return
	}

	mods, err := c.repo.List(ctx.Request.Context(), caller.TenantID)
	if err != nil {
		c.logger.Error("Erro ao listar módulos", "tenant_id", caller.TenantID, "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar módulos", ""))
		return
	}
	ctx.JSON(http.StatusOK, dto.ToModuleResponses(mods))
}

// Update habilita ou desabilita um módulo
// @Summary Atualiza um módulo
// @Description Habilita ou desabilita um módulo gerenciado. Apenas superadmin.
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ModuleUpdateRequest true "Módulo"
// @Success 200 {object} dto.SuccessResponse{data=dto.ModuleResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /modules [put]
func (c *ModuleController) Update(ctx *gin.Context) {
	var request dto.ModuleUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}
	name := strings.ToLower(strings.TrimSpace(request.Name))
	if !module.IsManaged(name) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Módulo inválido",
			fmt.Sprintf("use um de: %s", strings.Join(module.Managed, ", "))))
		return
	}

	caller, _ := auth.CallerFrom(ctx)
	tenantID := strings.TrimSpace(request.TenantID)
	if tenantID == "" {
		tenantID = caller.TenantID
	}

	if err := c.repo.SetEnabled(ctx.Request.Context(), tenantID, name, *request.Enabled); err != nil {
		c.logger.Error("Erro ao atualizar módulo", "tenant_id", tenantID, "module", name, "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar módulo", ""))
		return
	}
	c.logger.Info("Módulo atualizado",
		"tenant_id", tenantID,
		"module", name,
		"enabled", *request.Enabled,
		"by", caller.Email)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Módulo atualizado", dto.ModuleResponse{Name: name, Enabled: *request.Enabled}))
}
