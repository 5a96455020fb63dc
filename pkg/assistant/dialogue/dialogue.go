// Package dialogue guarda e retoma o estado de espera de cada conversa:
// a pergunta por um campo faltante e a confirmação de uma ação planejada.
package dialogue

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// Prazos padrão
const (
	DefaultConfirmTTL  = 15 * time.Minute
	DefaultQuestionTTL = 30 * time.Minute
)

// tamanho do token em bytes antes da codificação hex
const tokenBytes = 24

// Erros da máquina de estados
var (
	ErrConfirmationNotFound = errors.New("confirmação não encontrada")
	ErrAlreadyProcessed     = errors.New("ação já processada")
	ErrConfirmationExpired  = errors.New("confirmação expirada")
	ErrNotOwner             = errors.New("confirmação pertence a outro usuário")
	ErrQuestionExpired      = errors.New("pergunta pendente expirada")
	ErrMissingIdentity      = errors.New("organização e usuário são obrigatórios")
)

// Config define os prazos de cada estado de espera
type Config struct {
	ConfirmTTL  time.Duration
	QuestionTTL time.Duration
}

// Machine aplica as transições sobre os repositórios. Não guarda estado próprio.
type Machine struct {
	questions     assistant.QuestionRepository
	confirmations assistant.ConfirmationRepository
	cfg           Config
	now           func() time.Time
}

// New cria a máquina de estados
func New(questions assistant.QuestionRepository, confirmations assistant.ConfirmationRepository, cfg Config) *Machine {
	if cfg.ConfirmTTL <= 0 {
		cfg.ConfirmTTL = DefaultConfirmTTL
	}
	if cfg.QuestionTTL <= 0 {
		cfg.QuestionTTL = DefaultQuestionTTL
	}
	return &Machine{
		questions:     questions,
		confirmations: confirmations,
		cfg:           cfg,
		now:           time.Now,
	}
}

// WithClock troca o relógio usado para prazos
func (m *Machine) WithClock(now func() time.Time) *Machine {
	cp := *m
	cp.now = now
	return &cp
}

// Now devolve o instante corrente segundo o relógio da máquina
func (m *Machine) Now() time.Time {
	return m.now()
}

// OwnerOf monta o dono do estado a partir do chamador
func OwnerOf(c tool.Caller) assistant.Owner {
	return assistant.Owner{
		TenantID:  c.TenantID,
		UserID:    c.UserID,
		UserEmail: strings.ToLower(strings.TrimSpace(c.Email)),
	}
}

func validOwner(o assistant.Owner) bool {
	return o.TenantID != "" && (o.UserID != "" || o.UserEmail != "")
}

// OpenQuestion grava a pergunta pelo campo faltante
func (m *Machine) OpenQuestion(ctx context.Context, owner assistant.Owner, name tool.Name, field, question string, fields tool.Fields) (*assistant.PendingQuestion, error) {
	if !validOwner(owner) {
		return nil, ErrMissingIdentity
	}
	now := m.now()
	q := &assistant.PendingQuestion{
		ID:        uuid.New().String(),
		Owner:     owner,
		Tool:      name,
		Field:     field,
		Question:  question,
		Fields:    fields.Clone(),
		Status:    assistant.QuestionPending,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.QuestionTTL),
	}
	if err := m.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("falha ao gravar pergunta pendente: %w", err)
	}
	return q, nil
}

// ActiveQuestion devolve a pergunta pendente mais recente, ou nil quando não há.
// Uma pergunta vencida é marcada como expirada e devolvida junto com ErrQuestionExpired.
func (m *Machine) ActiveQuestion(ctx context.Context, owner assistant.Owner) (*assistant.PendingQuestion, error) {
	if !validOwner(owner) {
		return nil, nil
	}
	q, err := m.questions.FindLatestPending(ctx, owner)
	if err != nil {
		if errors.Is(err, assistant.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("falha ao buscar pergunta pendente: %w", err)
	}
	now := m.now()
	if q.IsExpired(now) {
		if _, err := m.questions.Transition(ctx, q.ID, assistant.QuestionPending, assistant.QuestionExpired, now); err != nil {
			return nil, fmt.Errorf("falha ao expirar pergunta pendente: %w", err)
		}
		q.Status = assistant.QuestionExpired
		return q, ErrQuestionExpired
	}
	return q, nil
}

// ConsumeQuestion marca a pergunta como respondida. Só uma requisição vence.
func (m *Machine) ConsumeQuestion(ctx context.Context, q *assistant.PendingQuestion) error {
	return m.transitionQuestion(ctx, q, assistant.QuestionResolved)
}

// CancelQuestion encerra a pergunta sem resposta
func (m *Machine) CancelQuestion(ctx context.Context, q *assistant.PendingQuestion) error {
	return m.transitionQuestion(ctx, q, assistant.QuestionExpired)
}

func (m *Machine) transitionQuestion(ctx context.Context, q *assistant.PendingQuestion, to assistant.QuestionStatus) error {
	now := m.now()
	ok, err := m.questions.Transition(ctx, q.ID, assistant.QuestionPending, to, now)
	if err != nil {
		return fmt.Errorf("falha ao atualizar pergunta pendente: %w", err)
	}
	if !ok {
		return ErrAlreadyProcessed
	}
	q.Status = to
	q.ResolvedAt = &now
	return nil
}

// OpenConfirmation grava a ação planejada e devolve a confirmação com o token
func (m *Machine) OpenConfirmation(ctx context.Context, owner assistant.Owner, module string, name tool.Name, fields tool.Fields, preview map[string]interface{}) (*assistant.Confirmation, error) {
	if owner.TenantID == "" {
		return nil, ErrMissingIdentity
	}
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	if preview == nil {
		preview = map[string]interface{}{}
	}
	now := m.now()
	c := &assistant.Confirmation{
		Token:     token,
		Owner:     owner,
		Module:    module,
		Tool:      name,
		Fields:    fields.Clone(),
		Preview:   preview,
		Status:    assistant.ConfirmationPending,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.ConfirmTTL),
	}
	if err := m.confirmations.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("falha ao gravar confirmação: %w", err)
	}
	return c, nil
}

// LoadConfirmation busca o token na organização e valida status, prazo e dono
func (m *Machine) LoadConfirmation(ctx context.Context, owner assistant.Owner, token string) (*assistant.Confirmation, error) {
	token = strings.TrimSpace(token)
	if owner.TenantID == "" || token == "" {
		return nil, ErrConfirmationNotFound
	}
	c, err := m.confirmations.FindByToken(ctx, owner.TenantID, token)
	if err != nil {
		if errors.Is(err, assistant.ErrNotFound) {
			return nil, ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("falha ao buscar confirmação: %w", err)
	}
	if c.Status != assistant.ConfirmationPending {
		return nil, ErrAlreadyProcessed
	}
	if c.IsExpired(m.now()) {
		return nil, ErrConfirmationExpired
	}
	if !sameOwner(c.Owner, owner) {
		return nil, ErrNotOwner
	}
	return c, nil
}

// Claim marca a confirmação como executada. Só uma requisição vence;
// as demais recebem ErrAlreadyProcessed e não devem executar a ação.
// O prazo é verificado de novo na própria atualização.
func (m *Machine) Claim(ctx context.Context, c *assistant.Confirmation) error {
	now := m.now()
	ok, err := m.confirmations.MarkExecuted(ctx, c.Owner.TenantID, c.Token, now)
	if err != nil {
		return fmt.Errorf("falha ao marcar confirmação: %w", err)
	}
	if !ok {
		if c.IsExpired(now) {
			return ErrConfirmationExpired
		}
		return ErrAlreadyProcessed
	}
	c.Status = assistant.ConfirmationExecuted
	c.ExecutedAt = &now
	return nil
}

// sameOwner compara pelo email emitido; sem email, compara pelo id
func sameOwner(issued, presented assistant.Owner) bool {
	if issued.UserEmail != "" {
		return strings.EqualFold(issued.UserEmail, presented.UserEmail)
	}
	if issued.UserID != "" {
		return issued.UserID == presented.UserID
	}
	return true
}

// NewToken gera um token hex aleatório de 192 bits
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("falha ao gerar token de confirmação: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
