package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hugohenrick/vex-core/internal/adapter/api/dto"
	"github.com/hugohenrick/vex-core/pkg/assistant"
	"github.com/hugohenrick/vex-core/pkg/auth"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// MessageHandler processa uma mensagem do assistente
type MessageHandler interface {
	Handle(ctx context.Context, req assistant.Request) *assistant.Response
}

// AssistantController gerencia as requisições do chat do assistente
type AssistantController struct {
	handler MessageHandler
	logger  logger.Logger
}

// NewAssistantController cria uma nova instância de AssistantController
func NewAssistantController(handler MessageHandler, log logger.Logger) *AssistantController {
	return &AssistantController{handler: handler, logger: log}
}

// Chat processa uma mensagem ou confirmação
// @Summary Envia uma mensagem ao assistente
// @Description Interpreta a mensagem, pergunta o que faltar, devolve o preview da ação ou executa a ação de um confirm_token
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChatRequest true "Mensagem"
// @Success 200 {object} assistant.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} assistant.Response
// @Router /assistant/chat [post]
func (c *AssistantController) Chat(ctx *gin.Context) {
	var request dto.ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}
	request.Message = strings.TrimSpace(request.Message)
	request.ConfirmToken = strings.TrimSpace(request.ConfirmToken)

	caller, ok := auth.CallerFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Autenticação requerida", ""))
		return
	}
	caller = request.Apply(caller)
	caller.RequestID = ctx.GetHeader("X-Request-ID")
	if caller.RequestID == "" {
		caller.RequestID = uuid.New().String()
	}

	resp := c.handler.Handle(ctx.Request.Context(), assistant.Request{
		Message:      request.Message,
		ConfirmToken: request.ConfirmToken,
		Caller:       caller,
	})

	status := http.StatusOK
	if resp.IsInternal() {
		status = http.StatusInternalServerError
	}
	ctx.Header("X-Request-ID", caller.RequestID)
	ctx.JSON(status, resp)
}
