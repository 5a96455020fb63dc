package module

// Módulos gerenciados pela plataforma. Os demais são sempre considerados habilitados.
const (
	CRM   = "crm"
	Stock = "stock"
	Flows = "flows"
)

// Managed lista os módulos que exigem habilitação explícita
var Managed = []string{CRM, Stock, Flows}

// IsManaged informa se o módulo exige habilitação explícita
func IsManaged(name string) bool {
	for _, m := range Managed {
		if m == name {
			return true
		}
	}
	return false
}

// Module é a habilitação de um módulo para uma organização
type Module struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"nombre"`
	Enabled  bool   `json:"habilitado"`
}
