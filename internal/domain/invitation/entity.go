package invitation

import "time"

// Status representa o estado de um convite
type Status string

// Constantes para Status
const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Invitation é um convite para entrar numa organização
type Invitation struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	InvitedBy string     `json:"invited_by,omitempty"`
	TokenHash string     `json:"-"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ResentAt  *time.Time `json:"resent_at,omitempty"`
}
