package module

import "context"

// Checker decide se um módulo está habilitado para a organização
type Checker struct {
	repo Repository
}

// NewChecker cria o checker sobre o repositório
func NewChecker(repo Repository) *Checker {
	return &Checker{repo: repo}
}

// Enabled aplica a regra: sem organização nunca; módulo não gerenciado sempre;
// gerenciado somente com flag gravado.
func (c *Checker) Enabled(ctx context.Context, tenantID, name string) (bool, error) {
	if tenantID == "" {
		return false, nil
	}
	if !IsManaged(name) {
		return true, nil
	}
	return c.repo.IsEnabled(ctx, tenantID, name)
}
