package user

import (
	"context"
	"errors"
)

// ErrNotFound indica que o usuário não existe
var ErrNotFound = errors.New("usuário não encontrado")

// Repository define as consultas de usuários usadas pelo assistente
type Repository interface {
	// FindByEmail busca um usuário pelo email dentro de uma organização
	FindByEmail(ctx context.Context, tenantID, email string) (*User, error)

	// ExistsByEmail verifica se o email já pertence a um usuário da organização
	ExistsByEmail(ctx context.Context, tenantID, email string) (bool, error)
}
