package setting

import "context"

// Repository lê configurações do sistema. O valor da organização tem precedência
// sobre o valor global (organizacion_id nulo).
type Repository interface {
	// ModuleSetting devolve o valor bruto da chave, ou "" quando não existe
	ModuleSetting(ctx context.Context, tenantID, key string) (string, error)
}
