package assistant

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/audit"
	"github.com/hugohenrick/vex-core/pkg/assistant/dialogue"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

var confirmErrors = map[error]string{
	dialogue.ErrConfirmationNotFound: msgConfirmNotFound,
	dialogue.ErrAlreadyProcessed:     msgAlreadyProcessed,
	dialogue.ErrConfirmationExpired:  msgConfirmExpired,
	dialogue.ErrNotOwner:             msgNotOwner,
}

func confirmFailure(err error) (*Response, bool) {
	for target, text := range confirmErrors {
		if errors.Is(err, target) {
			return failure(text), true
		}
	}
	return nil, false
}

// confirm executa a ação de um token válido. A confirmação é marcada antes do
// execute: uma falha remota deixa o token consumido e a ação não é repetida.
func (m *Manager) confirm(ctx context.Context, caller tool.Caller, token, correlationID string) (*Response, error) {
	owner := dialogue.OwnerOf(caller)
	c, err := m.dialogue.LoadConfirmation(ctx, owner, token)
	if err != nil {
		if resp, ok := confirmFailure(err); ok {
			return resp, nil
		}
		return nil, err
	}

	d, ok := m.registry.Get(c.Tool)
	if !ok {
		return failure(msgToolGone), nil
	}
	if resp, err := m.authorize(ctx, caller, d); resp != nil || err != nil {
		return resp, err
	}

	if err := m.dialogue.Claim(ctx, c); err != nil {
		if resp, ok := confirmFailure(err); ok {
			return resp, nil
		}
		return nil, err
	}

	ctx, span := m.tracer.Start(ctx, "assistant.execute")
	span.SetAttributes(toolAttrs(d)...)
	res, err := d.Execute(ctx, c.Fields, caller)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("execute de %s: %w", d.Name, err)
	}
	m.recorder.ObserveTool(d.Name, string(domain.PhaseExecute), res.Status)

	if res.Status == tool.StatusError {
		m.log.Warn("Execução do assistente falhou",
			"correlation_id", correlationID,
			"tenant_id", caller.TenantID,
			"tool", string(d.Name),
			"message", res.Message)
		text := res.Message
		if text == "" {
			text = msgExecError
		}
		return &Response{Type: TypeError, Text: text, Debug: m.debugDetail(res.Debug)}, nil
	}

	result := res.Result
	if result == nil {
		result = map[string]interface{}{}
	}
	m.audit.Write(ctx, audit.Entry{
		Owner:         owner,
		Module:        d.Module,
		Tool:          d.Name,
		Phase:         domain.PhaseExecute,
		Inputs:        c.Fields,
		Result:        result,
		CorrelationID: correlationID,
	})

	text := res.Message
	if text == "" {
		text = msgDone
	}
	return &Response{
		Type:     TypeActionResult,
		Text:     text,
		Action:   d.Name,
		Result:   result,
		DeepLink: res.DeepLink,
	}, nil
}
