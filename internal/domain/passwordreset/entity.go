package passwordreset

import "time"

// Reset é um pedido de redefinição de senha
type Reset struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Email     string     `json:"email"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
