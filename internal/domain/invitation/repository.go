package invitation

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica que não há convite para o email
var ErrNotFound = errors.New("convite não encontrado")

// Repository define as operações sobre convites
type Repository interface {
	// FindLatest busca o convite mais recente do email na organização
	FindLatest(ctx context.Context, tenantID, email string) (*Invitation, error)

	// Upsert cria o convite ou renova o existente para (organização, email)
	Upsert(ctx context.Context, inv *Invitation) error

	// Refresh troca o token de um convite existente e o volta para pendente
	Refresh(ctx context.Context, tenantID, email, tokenHash string, at time.Time) error
}
