package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/vex-core/internal/domain/invitation"
	"github.com/hugohenrick/vex-core/internal/domain/module"
	"github.com/hugohenrick/vex-core/internal/domain/passwordreset"
	"github.com/hugohenrick/vex-core/internal/domain/user"
)

func key(tenantID, name string) string {
	return tenantID + "\x00" + name
}

// UserRepository guarda usuários em memória
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*user.User
}

// NewUserRepository cria o repositório com os usuários informados
func NewUserRepository(users ...*user.User) *UserRepository {
	r := &UserRepository{users: make(map[string]*user.User)}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

// Add inclui ou substitui um usuário
func (r *UserRepository) Add(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	cp.Email = user.NormalizeEmail(u.Email)
	r.users[key(u.TenantID, cp.Email)] = &cp
}

// FindByEmail implementa user.Repository.FindByEmail
func (r *UserRepository) FindByEmail(_ context.Context, tenantID, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[key(tenantID, user.NormalizeEmail(email))]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// ExistsByEmail implementa user.Repository.ExistsByEmail
func (r *UserRepository) ExistsByEmail(ctx context.Context, tenantID, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, tenantID, email)
	return err == nil, nil
}

// InvitationRepository guarda um convite por (organização, email)
type InvitationRepository struct {
	mu      sync.RWMutex
	invites map[string]*invitation.Invitation
}

// NewInvitationRepository cria o repositório vazio
func NewInvitationRepository() *InvitationRepository {
	return &InvitationRepository{invites: make(map[string]*invitation.Invitation)}
}

// FindLatest implementa invitation.Repository.FindLatest
func (r *InvitationRepository) FindLatest(_ context.Context, tenantID, email string) (*invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invites[key(tenantID, user.NormalizeEmail(email))]
	if !ok {
		return nil, invitation.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

// Upsert implementa invitation.Repository.Upsert
func (r *InvitationRepository) Upsert(_ context.Context, inv *invitation.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(inv.TenantID, user.NormalizeEmail(inv.Email))
	cp := *inv
	if existing, ok := r.invites[k]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	}
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.invites[k] = &cp
	return nil
}

// Refresh implementa invitation.Repository.Refresh
func (r *InvitationRepository) Refresh(_ context.Context, tenantID, email, tokenHash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[key(tenantID, user.NormalizeEmail(email))]
	if !ok {
		return invitation.ErrNotFound
	}
	inv.TokenHash = tokenHash
	inv.Status = invitation.StatusPending
	t := at
	inv.ResentAt = &t
	return nil
}

// PasswordResetRepository guarda pedidos de redefinição em memória
type PasswordResetRepository struct {
	mu     sync.Mutex
	resets []*passwordreset.Reset
}

// NewPasswordResetRepository cria o repositório vazio
func NewPasswordResetRepository() *PasswordResetRepository {
	return &PasswordResetRepository{}
}

// Issue implementa passwordreset.Repository.Issue
func (r *PasswordResetRepository) Issue(_ context.Context, reset *passwordreset.Reset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, old := range r.resets {
		if old.TenantID == reset.TenantID && old.Email == reset.Email && old.UsedAt == nil {
			t := reset.CreatedAt
			old.UsedAt = &t
		}
	}
	cp := *reset
	r.resets = append(r.resets, &cp)
	return nil
}

// Open devolve os pedidos ainda não usados do email
func (r *PasswordResetRepository) Open(tenantID, email string) []passwordreset.Reset {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []passwordreset.Reset
	for _, res := range r.resets {
		if res.TenantID == tenantID && res.Email == email && res.UsedAt == nil {
			out = append(out, *res)
		}
	}
	return out
}

// ModuleRepository guarda a habilitação de módulos em memória
type ModuleRepository struct {
	mu      sync.RWMutex
	enabled map[string]bool
}

// NewModuleRepository cria o repositório vazio
func NewModuleRepository() *ModuleRepository {
	return &ModuleRepository{enabled: make(map[string]bool)}
}

// List implementa module.Repository.List
func (r *ModuleRepository) List(_ context.Context, tenantID string) ([]*module.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*module.Module
	for _, name := range module.Managed {
		out = append(out, &module.Module{TenantID: tenantID, Name: name, Enabled: r.enabled[key(tenantID, name)]})
	}
	return out, nil
}

// IsEnabled implementa module.Repository.IsEnabled
func (r *ModuleRepository) IsEnabled(_ context.Context, tenantID, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[key(tenantID, name)], nil
}

// SetEnabled implementa module.Repository.SetEnabled
func (r *ModuleRepository) SetEnabled(_ context.Context, tenantID, name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[key(tenantID, name)] = enabled
	return nil
}

// SettingRepository guarda configurações; tenant "" é o valor global
type SettingRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSettingRepository cria o repositório vazio
func NewSettingRepository() *SettingRepository {
	return &SettingRepository{values: make(map[string]string)}
}

// Set grava o valor da chave para a organização, ou global com tenant ""
func (r *SettingRepository) Set(tenantID, k, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key(tenantID, k)] = value
}

// ModuleSetting implementa setting.Repository.ModuleSetting
func (r *SettingRepository) ModuleSetting(_ context.Context, tenantID, k string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.values[key(tenantID, k)]; ok {
		return v, nil
	}
	return r.values[key("", k)], nil
}
