// Package assistant é o orquestrador do assistente conversacional: recebe a
// mensagem, retoma o estado pendente, extrai a intenção e conduz o fluxo
// plan -> confirmação -> execute sobre as ferramentas registradas.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hugohenrick/vex-core/pkg/assistant/audit"
	"github.com/hugohenrick/vex-core/pkg/assistant/dialogue"
	"github.com/hugohenrick/vex-core/pkg/assistant/intent"
	"github.com/hugohenrick/vex-core/pkg/assistant/policy"
	"github.com/hugohenrick/vex-core/pkg/assistant/summary"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

const tracerName = "github.com/hugohenrick/vex-core/pkg/assistant"

// Rotas usadas em logs e métricas
const (
	routeConfirm  = "confirm"
	routeQuestion = "question"
	routeSummary  = "summary"
	routeInfo     = "info"
	routeAction   = "action"
	routeHelp     = "help"
)

// ModuleChecker informa se o módulo está habilitado para a organização
type ModuleChecker interface {
	Enabled(ctx context.Context, tenantID, module string) (bool, error)
}

// Summarizer monta os resumos somente leitura
type Summarizer interface {
	Build(ctx context.Context, caller tool.Caller, kind string) (*summary.Digest, error)
}

// Recorder recebe as métricas do orquestrador
type Recorder interface {
	ObserveMessage(route string, response string, elapsed time.Duration)
	ObserveTool(name tool.Name, phase string, status tool.Status)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMessage(string, string, time.Duration) {}
func (nopRecorder) ObserveTool(tool.Name, string, tool.Status)   {}

// Request é uma mensagem recebida
type Request struct {
	Message      string
	ConfirmToken string
	Caller       tool.Caller
}

// Deps reúne as dependências do Manager
type Deps struct {
	Registry  *tool.Registry
	Gate      *policy.Gate
	Dialogue  *dialogue.Machine
	Audit     *audit.Writer
	Modules   ModuleChecker
	Summaries Summarizer
	Logger    logger.Logger
	Recorder  Recorder

	// Debug devolve o detalhe sanitizado de erros remotos
	Debug bool
}

// Manager orquestra as mensagens do assistente. Não guarda estado entre requisições.
type Manager struct {
	registry  *tool.Registry
	gate      *policy.Gate
	dialogue  *dialogue.Machine
	audit     *audit.Writer
	modules   ModuleChecker
	summaries Summarizer
	log       logger.Logger
	recorder  Recorder
	tracer    trace.Tracer
	debug     bool
}

// NewManager valida as dependências e cria o Manager
func NewManager(d Deps) (*Manager, error) {
	if d.Registry == nil || d.Gate == nil || d.Dialogue == nil || d.Audit == nil || d.Modules == nil || d.Summaries == nil {
		return nil, errors.New("assistente: registro, gate, diálogo, auditoria, módulos e resumos são obrigatórios")
	}
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	return &Manager{
		registry:  d.Registry,
		gate:      d.Gate,
		dialogue:  d.Dialogue,
		audit:     d.Audit,
		modules:   d.Modules,
		summaries: d.Summaries,
		log:       d.Logger,
		recorder:  d.Recorder,
		tracer:    otel.Tracer(tracerName),
		debug:     d.Debug,
	}, nil
}

// Handle processa uma mensagem e sempre devolve uma resposta. Erros internos e
// panics viram uma resposta opaca com o id de correlação.
func (m *Manager) Handle(ctx context.Context, req Request) (resp *Response) {
	start := time.Now()
	correlationID := uuid.New().String()
	route := routeHelp

	ctx, span := m.tracer.Start(ctx, "assistant.handle", trace.WithAttributes(
		attribute.String("tenant.id", req.Caller.TenantID),
		attribute.String("assistant.correlation_id", correlationID),
		attribute.Bool("assistant.confirm", req.ConfirmToken != ""),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Panic no assistente",
				"correlation_id", correlationID,
				"tenant_id", req.Caller.TenantID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			span.SetStatus(codes.Error, "panic")
			resp = internalError(correlationID)
		}
		span.SetAttributes(
			attribute.String("assistant.route", route),
			attribute.String("assistant.response", string(resp.Type)),
		)
		m.recorder.ObserveMessage(route, string(resp.Type), time.Since(start))
	}()

	out, err := m.handle(ctx, req, correlationID, &route)
	if err != nil {
		m.log.Error("Erro interno no assistente",
			"correlation_id", correlationID,
			"tenant_id", req.Caller.TenantID,
			"user_id", req.Caller.UserID,
			"route", route,
			"error", err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return internalError(correlationID)
	}
	return out
}

func (m *Manager) handle(ctx context.Context, req Request, correlationID string, route *string) (*Response, error) {
	caller := req.Caller

	if token := strings.TrimSpace(req.ConfirmToken); token != "" {
		*route = routeConfirm
		return m.confirm(ctx, caller, token, correlationID)
	}

	owner := dialogue.OwnerOf(caller)
	pending, err := m.dialogue.ActiveQuestion(ctx, owner)
	switch {
	case errors.Is(err, dialogue.ErrQuestionExpired):
		m.log.Info("Pergunta pendente expirada, mensagem tratada do zero",
			"tenant_id", caller.TenantID,
			"question_id", pending.ID,
			"tool", string(pending.Tool))
	case err != nil:
		return nil, err
	case pending != nil:
		*route = routeQuestion
		return m.resume(ctx, caller, pending, req.Message, correlationID)
	}

	it := intent.Extract(req.Message, caller.Entity)
	m.log.Info("Mensagem do assistente",
		"correlation_id", correlationID,
		"tenant_id", caller.TenantID,
		"user_id", caller.UserID,
		"intent", string(it.Kind),
		"rule", it.Rule,
		"tool", string(it.Tool))

	switch it.Kind {
	case intent.KindSummary:
		*route = routeSummary
		return m.summarize(ctx, caller, it.SummaryKind), nil
	case intent.KindInfo:
		*route = routeInfo
		return m.capabilities(ctx, caller, it.InfoKind), nil
	case intent.KindAction:
		*route = routeAction
		return m.dispatch(ctx, caller, it.Tool, it.Fields, correlationID)
	}
	return &Response{Type: TypeHelp, Text: msgHelp}, nil
}

func (m *Manager) summarize(ctx context.Context, caller tool.Caller, kind string) *Response {
	d, err := m.summaries.Build(ctx, caller, kind)
	if err != nil {
		m.log.Warn("Falha ao montar resumo", "tenant_id", caller.TenantID, "kind", kind, "error", err.Error())
		return failure(msgSummaryError)
	}
	return &Response{
		Type:        TypeSummary,
		Text:        d.Text,
		SummaryType: d.Kind,
		Items:       d.Items,
		DeepLink:    d.DeepLink,
	}
}

func identityOf(c tool.Caller) policy.Identity {
	return policy.Identity{Role: c.Role, Email: c.Email, Superadmin: c.Superadmin}
}

func toolAttrs(d tool.Descriptor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("assistant.tool", string(d.Name)),
		attribute.String("assistant.module", d.Module),
	}
}
