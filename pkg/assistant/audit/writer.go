// Package audit grava o log de auditoria das fases plan e execute.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// DefaultMaxLen é o tamanho máximo padrão de cada texto auditado
const DefaultMaxLen = 500

// Summarize serializa o valor sanitizado em JSON e corta em maxLen com "..."
func Summarize(v interface{}, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	var out string
	data, err := json.Marshal(Sanitize(v))
	if err != nil {
		out = fmt.Sprint(v)
	} else {
		out = string(data)
	}
	return truncate(out, maxLen)
}

// truncate corta sem quebrar runas UTF-8
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Entry é o que o orquestrador informa para cada fase
type Entry struct {
	Owner         assistant.Owner
	Module        string
	Tool          tool.Name
	Phase         assistant.AuditPhase
	Inputs        interface{}
	Result        interface{}
	CorrelationID string
}

// Writer grava os registros. Falhas são registradas no log e nunca devolvidas.
type Writer struct {
	repo   assistant.AuditRepository
	maxLen int
	log    logger.Logger
	now    func() time.Time
}

// NewWriter cria o writer
func NewWriter(repo assistant.AuditRepository, maxLen int, log logger.Logger) *Writer {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{repo: repo, maxLen: maxLen, log: log, now: time.Now}
}

// MaxLen devolve o limite configurado
func (w *Writer) MaxLen() int {
	return w.maxLen
}

// Write monta e grava o registro da fase
func (w *Writer) Write(ctx context.Context, e Entry) {
	rec := &assistant.AuditRecord{
		ID:            uuid.New().String(),
		Owner:         e.Owner,
		Module:        e.Module,
		Tool:          e.Tool,
		Phase:         e.Phase,
		Inputs:        Summarize(e.Inputs, w.maxLen),
		Result:        Summarize(e.Result, w.maxLen),
		CorrelationID: e.CorrelationID,
		CreatedAt:     w.now(),
	}
	if err := w.repo.Append(ctx, rec); err != nil {
		w.log.Error("Falha ao gravar auditoria do assistente",
			"tool", string(e.Tool),
			"phase", string(e.Phase),
			"tenant_id", e.Owner.TenantID,
			"correlation_id", e.CorrelationID,
			"error", err)
	}
}
