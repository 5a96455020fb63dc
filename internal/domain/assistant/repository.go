package assistant

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica que o registro pendente não existe
var ErrNotFound = errors.New("registro do assistente não encontrado")

// QuestionRepository persiste as perguntas pendentes
type QuestionRepository interface {
	// Create grava uma nova pergunta pendente
	Create(ctx context.Context, q *PendingQuestion) error

	// FindLatestPending busca a pergunta pendente mais recente do usuário na organização
	FindLatestPending(ctx context.Context, owner Owner) (*PendingQuestion, error)

	// Transition muda o status somente se o atual for from. Devolve false se outra requisição venceu.
	Transition(ctx context.Context, id string, from, to QuestionStatus, at time.Time) (bool, error)
}

// ConfirmationRepository persiste as confirmações pendentes
type ConfirmationRepository interface {
	// Create grava uma nova confirmação
	Create(ctx context.Context, c *Confirmation) error

	// FindByToken busca pelo token exato dentro da organização
	FindByToken(ctx context.Context, tenantID, token string) (*Confirmation, error)

	// MarkExecuted marca como executada somente se ainda estiver pendente e dentro do prazo
	MarkExecuted(ctx context.Context, tenantID, token string, at time.Time) (bool, error)
}

// AuditRepository é o log de auditoria, somente inserção
type AuditRepository interface {
	// Append insere um registro
	Append(ctx context.Context, rec *AuditRecord) error

	// ListByTenant lista os registros mais recentes da organização
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*AuditRecord, error)
}
