// Package memory implementa os repositórios do assistente em memória, para
// desenvolvimento local (ASSISTANT_STORE=memory) e testes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hugohenrick/vex-core/internal/domain/assistant"
)

// QuestionRepository guarda perguntas pendentes em memória
type QuestionRepository struct {
	mu    sync.Mutex
	items []*assistant.PendingQuestion
}

// NewQuestionRepository cria o repositório vazio
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// Create implementa assistant.QuestionRepository.Create
func (r *QuestionRepository) Create(_ context.Context, q *assistant.PendingQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	cp.Fields = q.Fields.Clone()
	r.items = append(r.items, &cp)
	return nil
}

// FindLatestPending implementa assistant.QuestionRepository.FindLatestPending
func (r *QuestionRepository) FindLatestPending(_ context.Context, owner assistant.Owner) (*assistant.PendingQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *assistant.PendingQuestion
	for _, q := range r.items {
		if q.Status != assistant.QuestionPending || !matches(q.Owner, owner) {
			continue
		}
		if latest == nil || !q.CreatedAt.Before(latest.CreatedAt) {
			latest = q
		}
	}
	if latest == nil {
		return nil, assistant.ErrNotFound
	}
	cp := *latest
	cp.Fields = latest.Fields.Clone()
	return &cp, nil
}

// Transition implementa assistant.QuestionRepository.Transition
func (r *QuestionRepository) Transition(_ context.Context, id string, from, to assistant.QuestionStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.items {
		if q.ID != id {
			continue
		}
		if q.Status != from {
			return false, nil
		}
		q.Status = to
		t := at
		q.ResolvedAt = &t
		return true, nil
	}
	return false, nil
}

// All devolve uma cópia de todas as perguntas, na ordem de criação
func (r *QuestionRepository) All() []assistant.PendingQuestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]assistant.PendingQuestion, 0, len(r.items))
	for _, q := range r.items {
		out = append(out, *q)
	}
	return out
}

// matches aplica o mesmo escopo da consulta SQL: organização e, quando informados, id e email
func matches(stored, owner assistant.Owner) bool {
	if stored.TenantID != owner.TenantID {
		return false
	}
	if owner.UserID != "" {
		return stored.UserID == owner.UserID
	}
	return stored.UserEmail == owner.UserEmail
}

// ConfirmationRepository guarda confirmações em memória
type ConfirmationRepository struct {
	mu    sync.Mutex
	items map[string]*assistant.Confirmation
}

// NewConfirmationRepository cria o repositório vazio
func NewConfirmationRepository() *ConfirmationRepository {
	return &ConfirmationRepository{items: make(map[string]*assistant.Confirmation)}
}

func confirmationKey(tenantID, token string) string {
	return tenantID + "\x00" + token
}

// Create implementa assistant.ConfirmationRepository.Create
func (r *ConfirmationRepository) Create(_ context.Context, c *assistant.Confirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Fields = c.Fields.Clone()
	r.items[confirmationKey(c.Owner.TenantID, c.Token)] = &cp
	return nil
}

// FindByToken implementa assistant.ConfirmationRepository.FindByToken
func (r *ConfirmationRepository) FindByToken(_ context.Context, tenantID, token string) (*assistant.Confirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[confirmationKey(tenantID, token)]
	if !ok {
		return nil, assistant.ErrNotFound
	}
	cp := *c
	cp.Fields = c.Fields.Clone()
	return &cp, nil
}

// MarkExecuted implementa assistant.ConfirmationRepository.MarkExecuted
func (r *ConfirmationRepository) MarkExecuted(_ context.Context, tenantID, token string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[confirmationKey(tenantID, token)]
	if !ok || c.Status != assistant.ConfirmationPending || c.IsExpired(at) {
		return false, nil
	}
	c.Status = assistant.ConfirmationExecuted
	t := at
	c.ExecutedAt = &t
	return true, nil
}

// AuditRepository guarda o log de auditoria em memória
type AuditRepository struct {
	mu      sync.Mutex
	records []*assistant.AuditRecord
}

// NewAuditRepository cria o repositório vazio
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Append implementa assistant.AuditRepository.Append
func (r *AuditRepository) Append(_ context.Context, rec *assistant.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

// ListByTenant implementa assistant.AuditRepository.ListByTenant
func (r *AuditRepository) ListByTenant(_ context.Context, tenantID string, limit int) ([]*assistant.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*assistant.AuditRecord
	for _, rec := range r.records {
		if rec.Owner.TenantID == tenantID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
