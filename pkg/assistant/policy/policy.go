// Package policy decide se um usuário pode executar uma ação do assistente.
package policy

import "strings"

// Papéis conhecidos, do menor para o maior
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
	RoleSuperadmin = "superadmin"
)

var roleRank = map[string]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleOwner:      3,
	RoleSuperadmin: 4,
}

// Rank devolve a posição do papel; papéis desconhecidos valem 0
func Rank(role string) int {
	return roleRank[strings.ToLower(strings.TrimSpace(role))]
}

// Identity é o que o gate precisa saber sobre quem pede a ação
type Identity struct {
	Role       string
	Email      string
	Superadmin bool
}

// Gate aplica a tabela de papel mínimo por (módulo, ação). Não faz I/O.
type Gate struct {
	minimum     map[string]map[string]string
	superadmins map[string]struct{}
}

// DefaultMinimums é a tabela de papel mínimo usada pelo assistente
func DefaultMinimums() map[string]map[string]string {
	return map[string]map[string]string{
		"core": {
			"invite_user":    RoleAdmin,
			"resend_invite":  RoleAdmin,
			"reset_password": RoleAdmin,
		},
	}
}

// NewGate cria o gate com a tabela padrão e a lista de emails superadmin
func NewGate(superadminEmails []string) *Gate {
	return NewGateWithTable(DefaultMinimums(), superadminEmails)
}

// NewGateWithTable cria o gate com uma tabela própria
func NewGateWithTable(minimum map[string]map[string]string, superadminEmails []string) *Gate {
	g := &Gate{
		minimum:     minimum,
		superadmins: make(map[string]struct{}, len(superadminEmails)),
	}
	for _, e := range superadminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			g.superadmins[e] = struct{}{}
		}
	}
	return g
}

// IsSuperadmin informa se a identidade tem bypass por papel, flag ou email configurado
func (g *Gate) IsSuperadmin(id Identity) bool {
	if id.Superadmin || strings.EqualFold(strings.TrimSpace(id.Role), RoleSuperadmin) {
		return true
	}
	_, ok := g.superadmins[strings.ToLower(strings.TrimSpace(id.Email))]
	return ok
}

// CanPerform compara o papel do usuário com o mínimo exigido para a ação.
// Módulos ou ações sem entrada na tabela exigem apenas o papel user.
func (g *Gate) CanPerform(id Identity, action, module string) bool {
	if g.IsSuperadmin(id) {
		return true
	}
	need := RoleUser
	if actions, ok := g.minimum[module]; ok {
		if r, ok := actions[action]; ok {
			need = r
		}
	}
	return Rank(id.Role) >= Rank(need)
}
