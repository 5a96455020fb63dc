package user

import (
	"strings"
	"time"
)

// Status representa o status do usuário
type Status string

// Constantes para Status
const (
	StatusActive   Status = "active"   // Usuário ativo
	StatusInactive Status = "inactive" // Usuário inativo
)

// User representa um usuário de uma organização
type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActive verifica se o usuário está ativo
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasAccessToTenant verifica se o usuário pertence à organização
func (u *User) HasAccessToTenant(tenantID string) bool {
	return u.TenantID == tenantID
}

// NormalizeEmail apara e coloca o email em minúsculas
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
