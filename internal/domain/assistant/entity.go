package assistant

import (
	"time"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// QuestionStatus representa o estado de uma pergunta pendente
type QuestionStatus string

// Constantes para QuestionStatus
const (
	QuestionPending  QuestionStatus = "pending"
	QuestionResolved QuestionStatus = "resolved"
	QuestionExpired  QuestionStatus = "expired"
)

// ConfirmationStatus representa o estado de uma confirmação pendente
type ConfirmationStatus string

// Constantes para ConfirmationStatus
const (
	ConfirmationPending  ConfirmationStatus = "pending"
	ConfirmationExecuted ConfirmationStatus = "executed"
)

// AuditPhase identifica a fase registrada no log de auditoria
type AuditPhase string

// Constantes para AuditPhase
const (
	PhasePlan    AuditPhase = "plan"
	PhaseExecute AuditPhase = "execute"
)

// Owner identifica a quem pertence um estado pendente dentro da organização
type Owner struct {
	TenantID  string `json:"tenant_id"`
	UserID    string `json:"user_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// PendingQuestion aguarda o valor de um único campo obrigatório
type PendingQuestion struct {
	ID         string         `json:"id"`
	Owner      Owner          `json:"owner"`
	Tool       tool.Name      `json:"tool"`
	Field      string         `json:"field"`
	Question   string         `json:"question"`
	Fields     tool.Fields    `json:"fields"`
	Status     QuestionStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// IsExpired verifica se a pergunta passou do prazo
func (q *PendingQuestion) IsExpired(now time.Time) bool {
	return !q.ExpiresAt.IsZero() && now.After(q.ExpiresAt)
}

// Confirmation aguarda a confirmação explícita de uma ação já planejada
type Confirmation struct {
	Token      string                 `json:"token"`
	Owner      Owner                  `json:"owner"`
	Module     string                 `json:"module"`
	Tool       tool.Name              `json:"tool"`
	Fields     tool.Fields            `json:"fields"`
	Preview    map[string]interface{} `json:"preview"`
	Status     ConfirmationStatus     `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
	ExpiresAt  time.Time              `json:"expires_at"`
	ExecutedAt *time.Time             `json:"executed_at,omitempty"`
}

// IsExpired verifica se a confirmação passou do prazo
func (c *Confirmation) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// AuditRecord é uma linha do log de auditoria. Nunca é alterada.
type AuditRecord struct {
	ID            string     `json:"id"`
	Owner         Owner      `json:"owner"`
	Module        string     `json:"module"`
	Tool          tool.Name  `json:"tool"`
	Phase         AuditPhase `json:"phase"`
	Inputs        string     `json:"inputs"`
	Result        string     `json:"result"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
