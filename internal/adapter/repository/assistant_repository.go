package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// QuestionRepository implementa assistant.QuestionRepository usando PostgreSQL
type QuestionRepository struct {
	db DB
}

// NewQuestionRepository cria uma nova instância de QuestionRepository
func NewQuestionRepository(db DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create implementa assistant.QuestionRepository.Create
func (r *QuestionRepository) Create(ctx context.Context, q *assistant.PendingQuestion) error {
	fields, err := json.Marshal(q.Fields)
	if err != nil {
		return fmt.Errorf("falha ao serializar campos: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO assistant_pending_questions (
			id, organizacion_id, usuario_id, usuario_email, tool, field, question, fields, status, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		q.ID, q.Owner.TenantID, nullable(q.Owner.UserID), nullable(q.Owner.UserEmail),
		string(q.Tool), q.Field, q.Question, fields, string(q.Status), q.CreatedAt, q.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir pergunta pendente: %w", err)
	}
	return nil
}

// FindLatestPending implementa assistant.QuestionRepository.FindLatestPending.
// Com id de usuário a busca é por id; sem ele, pelo email.
func (r *QuestionRepository) FindLatestPending(ctx context.Context, owner assistant.Owner) (*assistant.PendingQuestion, error) {
	column, value := "usuario_id", owner.UserID
	if value == "" {
		column, value = "usuario_email", owner.UserEmail
	}
	query := fmt.Sprintf(`
		SELECT id, organizacion_id, COALESCE(usuario_id, ''), COALESCE(usuario_email, ''),
		       tool, field, question, fields, status, created_at, expires_at
		FROM assistant_pending_questions
		WHERE organizacion_id = $1 AND %s = $2 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1`, column)

	var (
		q      assistant.PendingQuestion
		name   string
		status string
		raw    []byte
	)
	err := r.db.QueryRow(ctx, query, owner.TenantID, value).Scan(
		&q.ID, &q.Owner.TenantID, &q.Owner.UserID, &q.Owner.UserEmail,
		&name, &q.Field, &q.Question, &raw, &status, &q.CreatedAt, &q.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assistant.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar pergunta pendente: %w", err)
	}
	q.Tool = tool.Name(name)
	q.Status = assistant.QuestionStatus(status)
	if q.Fields, err = tool.DecodeFields(raw); err != nil {
		return nil, fmt.Errorf("campos da pergunta %s inválidos: %w", q.ID, err)
	}
	return &q, nil
}

// Transition implementa assistant.QuestionRepository.Transition com um UPDATE condicional
func (r *QuestionRepository) Transition(ctx context.Context, id string, from, to assistant.QuestionStatus, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE assistant_pending_questions
		SET status = $1, resolved_at = $2
		WHERE id = $3 AND status = $4`,
		string(to), at, id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("falha ao atualizar pergunta pendente: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ConfirmationRepository implementa assistant.ConfirmationRepository usando PostgreSQL
type ConfirmationRepository struct {
	db DB
}

// NewConfirmationRepository cria uma nova instância de ConfirmationRepository
func NewConfirmationRepository(db DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

// Create implementa assistant.ConfirmationRepository.Create
func (r *ConfirmationRepository) Create(ctx context.Context, c *assistant.Confirmation) error {
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return fmt.Errorf("falha ao serializar campos: %w", err)
	}
	preview, err := json.Marshal(c.Preview)
	if err != nil {
		return fmt.Errorf("falha ao serializar preview: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO assistant_action_confirmations (
			token, organizacion_id, usuario_id, usuario_email, module, tool, fields, preview, status, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.Token, c.Owner.TenantID, nullable(c.Owner.UserID), nullable(c.Owner.UserEmail),
		c.Module, string(c.Tool), fields, preview, string(c.Status), c.CreatedAt, c.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir confirmação: %w", err)
	}
	return nil
}

// FindByToken implementa assistant.ConfirmationRepository.FindByToken
func (r *ConfirmationRepository) FindByToken(ctx context.Context, tenantID, token string) (*assistant.Confirmation, error) {
	var (
		c          assistant.Confirmation
		name       string
		status     string
		rawFields  []byte
		rawPreview []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT token, organizacion_id, COALESCE(usuario_id, ''), COALESCE(usuario_email, ''),
		       module, tool, fields, preview, status, created_at, expires_at, executed_at
		FROM assistant_action_confirmations
		WHERE organizacion_id = $1 AND token = $2`,
		tenantID, token,
	).Scan(
		&c.Token, &c.Owner.TenantID, &c.Owner.UserID, &c.Owner.UserEmail,
		&c.Module, &name, &rawFields, &rawPreview, &status, &c.CreatedAt, &c.ExpiresAt, &c.ExecutedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assistant.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar confirmação: %w", err)
	}
	c.Tool = tool.Name(name)
	c.Status = assistant.ConfirmationStatus(status)
	if c.Fields, err = tool.DecodeFields(rawFields); err != nil {
		return nil, fmt.Errorf("campos da confirmação inválidos: %w", err)
	}
	if len(rawPreview) > 0 {
		if err := json.Unmarshal(rawPreview, &c.Preview); err != nil {
			return nil, fmt.Errorf("preview da confirmação inválido: %w", err)
		}
	}
	return &c, nil
}

// MarkExecuted implementa assistant.ConfirmationRepository.MarkExecuted.
// Só uma requisição concorrente consegue mudar a linha de pending para executed,
// e somente enquanto o prazo não venceu.
func (r *ConfirmationRepository) MarkExecuted(ctx context.Context, tenantID, token string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE assistant_action_confirmations
		SET status = 'executed', executed_at = $1
		WHERE organizacion_id = $2 AND token = $3 AND status = 'pending' AND expires_at >= $1`,
		at, tenantID, token,
	)
	if err != nil {
		return false, fmt.Errorf("falha ao marcar confirmação: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AuditRepository implementa assistant.AuditRepository usando PostgreSQL
type AuditRepository struct {
	db DB
}

// NewAuditRepository cria uma nova instância de AuditRepository
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append implementa assistant.AuditRepository.Append
func (r *AuditRepository) Append(ctx context.Context, rec *assistant.AuditRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ai_audit_log (
			id, organizacion_id, usuario_id, usuario_email, module, tool, phase, inputs, result, correlation_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Owner.TenantID, nullable(rec.Owner.UserID), nullable(rec.Owner.UserEmail),
		rec.Module, string(rec.Tool), string(rec.Phase), rec.Inputs, rec.Result, nullable(rec.CorrelationID), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir auditoria: %w", err)
	}
	return nil
}

// ListByTenant implementa assistant.AuditRepository.ListByTenant
func (r *AuditRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]*assistant.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, organizacion_id, COALESCE(usuario_id, ''), COALESCE(usuario_email, ''),
		       module, tool, phase, inputs, result, COALESCE(correlation_id, ''), created_at
		FROM ai_audit_log
		WHERE organizacion_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		tenantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar auditoria: %w", err)
	}
	defer rows.Close()

	var out []*assistant.AuditRecord
	for rows.Next() {
		var (
			rec         assistant.AuditRecord
			name, phase string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Owner.TenantID, &rec.Owner.UserID, &rec.Owner.UserEmail,
			&rec.Module, &name, &phase, &rec.Inputs, &rec.Result, &rec.CorrelationID, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("falha ao ler auditoria: %w", err)
		}
		rec.Tool = tool.Name(name)
		rec.Phase = assistant.AuditPhase(phase)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
