package module

import "context"

// Repository define as operações sobre a habilitação de módulos
type Repository interface {
	// List lista os módulos registrados para a organização
	List(ctx context.Context, tenantID string) ([]*Module, error)

	// IsEnabled devolve o flag gravado; false quando não há registro
	IsEnabled(ctx context.Context, tenantID, name string) (bool, error)

	// SetEnabled grava o flag, criando o registro quando necessário
	SetEnabled(ctx context.Context, tenantID, name string, enabled bool) error
}
