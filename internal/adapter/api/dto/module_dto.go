package dto

import "github.com/hugohenrick/vex-core/internal/domain/module"

// ModuleResponse representa a habilitação de um módulo
type ModuleResponse struct {
	Name    string `json:"nombre" example:"crm"`
	Enabled bool   `json:"habilitado"`
}

// ModuleUpdateRequest habilita ou desabilita um módulo. Sem organização, vale a do token.
type ModuleUpdateRequest struct {
	TenantID string `json:"organizacion_id,omitempty"`
	Name     string `json:"nombre" binding:"required" example:"stock"`
	Enabled  *bool  `json:"habilitado" binding:"required"`
}

// ToModuleResponses converte as entidades de domínio
func ToModuleResponses(mods []*module.Module) []ModuleResponse {
	out := make([]ModuleResponse, 0, len(mods))
	for _, m := range mods {
		out = append(out, ModuleResponse{Name: m.Name, Enabled: m.Enabled})
	}
	return out
}
