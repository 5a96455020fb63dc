package assistant

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/audit"
	"github.com/hugohenrick/vex-core/pkg/assistant/dialogue"
	"github.com/hugohenrick/vex-core/pkg/assistant/intent"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// resume tenta usar a mensagem como resposta da pergunta pendente
func (m *Manager) resume(ctx context.Context, caller tool.Caller, q *domain.PendingQuestion, msg, correlationID string) (*Response, error) {
	if cancelWords[intent.Normalize(msg)] {
		if err := m.dialogue.CancelQuestion(ctx, q); err != nil && !errors.Is(err, dialogue.ErrAlreadyProcessed) {
			return nil, err
		}
		return message(msgQuestionCancelled), nil
	}

	answer, ok := intent.ParseFieldAnswer(q.Field, msg)
	if !ok {
		return question(q.Question, q.Field), nil
	}
	if err := m.dialogue.ConsumeQuestion(ctx, q); err != nil {
		if errors.Is(err, dialogue.ErrAlreadyProcessed) {
			return failure(msgQuestionAnswered), nil
		}
		return nil, err
	}

	m.log.Info("Pergunta pendente respondida",
		"correlation_id", correlationID,
		"tenant_id", caller.TenantID,
		"question_id", q.ID,
		"tool", string(q.Tool),
		"field", q.Field)
	return m.dispatch(ctx, caller, q.Tool, q.Fields.Merge(answer), correlationID)
}

// dispatch leva a ação até o preview: campos obrigatórios, permissão, módulo e plan
func (m *Manager) dispatch(ctx context.Context, caller tool.Caller, name tool.Name, fields tool.Fields, correlationID string) (*Response, error) {
	d, ok := m.registry.Get(name)
	if !ok {
		return failure(msgToolUnavailable), nil
	}
	if fields == nil {
		fields = tool.Fields{}
	}

	if missing := fields.Missing(d.Required); len(missing) > 0 {
		return m.ask(ctx, caller, d.Name, missing[0], missingQuestion(d.Name, missing[0]), fields)
	}

	if resp, err := m.authorize(ctx, caller, d); resp != nil || err != nil {
		return resp, err
	}

	ctx, span := m.tracer.Start(ctx, "assistant.plan")
	span.SetAttributes(toolAttrs(d)...)
	planned, err := d.Plan(ctx, fields, caller)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("plan de %s: %w", d.Name, err)
	}
	m.recorder.ObserveTool(d.Name, string(domain.PhasePlan), planned.Status)

	switch planned.Status {
	case tool.StatusQuestion:
		text := planned.Question
		if text == "" {
			text = msgPlanQuestion
		}
		if planned.AskField == "" {
			return question(text, ""), nil
		}
		return m.ask(ctx, caller, d.Name, planned.AskField, text, fields)
	case tool.StatusError:
		text := planned.Message
		if text == "" {
			text = msgPlanError
		}
		return &Response{Type: TypeError, Text: text, Debug: m.debugDetail(planned.Debug)}, nil
	}

	confirmFields := fields
	if planned.Fields != nil {
		confirmFields = planned.Fields
	}
	preview := planned.Preview
	if preview == nil {
		preview = map[string]interface{}{}
	}

	owner := dialogue.OwnerOf(caller)
	c, err := m.dialogue.OpenConfirmation(ctx, owner, d.Module, d.Name, confirmFields, preview)
	if err != nil {
		return nil, err
	}
	m.audit.Write(ctx, audit.Entry{
		Owner:         owner,
		Module:        d.Module,
		Tool:          d.Name,
		Phase:         domain.PhasePlan,
		Inputs:        confirmFields,
		Result:        map[string]interface{}{"preview": preview},
		CorrelationID: correlationID,
	})

	text := planned.Message
	if text == "" {
		text = msgPreview
	}
	return &Response{
		Type:           TypeActionPreview,
		Text:           text,
		Action:         d.Name,
		PayloadPreview: preview,
		ConfirmToken:   c.Token,
		Steps:          planned.Steps,
		DeepLink:       planned.DeepLink,
	}, nil
}

// ask grava a pergunta pelo campo e devolve a resposta de pergunta. Sem
// identidade não há onde guardar o estado; a pergunta segue sem persistência.
func (m *Manager) ask(ctx context.Context, caller tool.Caller, name tool.Name, field, text string, fields tool.Fields) (*Response, error) {
	_, err := m.dialogue.OpenQuestion(ctx, dialogue.OwnerOf(caller), name, field, text, fields)
	if err != nil {
		if !errors.Is(err, dialogue.ErrMissingIdentity) {
			return nil, err
		}
		m.log.Warn("Pergunta sem identidade não foi persistida", "tool", string(name), "field", field)
	}
	return question(text, field), nil
}

// authorize aplica permissão e habilitação do módulo. Devolve nil quando liberado.
func (m *Manager) authorize(ctx context.Context, caller tool.Caller, d tool.Descriptor) (*Response, error) {
	if !m.gate.CanPerform(identityOf(caller), d.Action, d.Module) {
		m.log.Warn("Permissão negada no assistente",
			"tenant_id", caller.TenantID,
			"user_id", caller.UserID,
			"role", caller.Role,
			"tool", string(d.Name))
		return failure(msgForbidden), nil
	}
	enabled, err := m.modules.Enabled(ctx, caller.TenantID, d.Module)
	if err != nil {
		return nil, fmt.Errorf("falha ao verificar módulo %s: %w", d.Module, err)
	}
	if !enabled {
		return failure(fmt.Sprintf(msgModuleDisabled, d.Module)), nil
	}
	return nil, nil
}

func (m *Manager) debugDetail(detail map[string]interface{}) map[string]interface{} {
	if !m.debug || len(detail) == 0 {
		return nil
	}
	return audit.Sanitize(detail).(map[string]interface{})
}
