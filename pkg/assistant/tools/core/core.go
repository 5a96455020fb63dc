// Package core implementa as ferramentas administrativas da organização:
// convites e redefinição de senha. Operam no banco local e avisam um webhook opcional.
package core

import (
	"strings"
	"time"

	"github.com/hugohenrick/vex-core/internal/domain/invitation"
	"github.com/hugohenrick/vex-core/internal/domain/passwordreset"
	"github.com/hugohenrick/vex-core/internal/domain/user"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// Module é o nome do módulo
const Module = "core"

// DefaultResetTTL é a validade padrão do link de redefinição
const DefaultResetTTL = 60 * time.Minute

const tokenBytes = 20

// Config reúne os destinos de notificação e o link de redefinição
type Config struct {
	InviteWebhookURL    string
	InviteWebhookSecret string
	ResetWebhookURL     string
	ResetWebhookSecret  string
	ResetURLBase        string
	ResetTTL            time.Duration
}

// Tools agrupa as ferramentas do core
type Tools struct {
	users    user.Repository
	invites  invitation.Repository
	resets   passwordreset.Repository
	notifier *Notifier
	cfg      Config
	log      logger.Logger
	now      func() time.Time
}

// New cria as ferramentas do core
func New(users user.Repository, invites invitation.Repository, resets passwordreset.Repository, notifier *Notifier, cfg Config, log logger.Logger) *Tools {
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = DefaultResetTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	if notifier == nil {
		notifier = NewNotifier(0)
	}
	return &Tools{
		users:    users,
		invites:  invites,
		resets:   resets,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// WithClock troca o relógio
func (t *Tools) WithClock(now func() time.Time) *Tools {
	cp := *t
	cp.now = now
	return &cp
}

// Descriptors devolve os descritores para o registro
func (t *Tools) Descriptors() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:     tool.InviteUser,
			Module:   Module,
			Action:   "invite_user",
			Required: []string{"email", "rol"},
			Plan:     t.planInvite,
			Execute:  t.executeInvite,
		},
		{
			Name:     tool.ResendInvite,
			Module:   Module,
			Action:   "resend_invite",
			Required: []string{"email"},
			Plan:     t.planResend,
			Execute:  t.executeResend,
		},
		{
			Name:     tool.ResetPassword,
			Module:   Module,
			Action:   "reset_password",
			Required: []string{"email"},
			Plan:     t.planReset,
			Execute:  t.executeReset,
		},
	}
}

// normRole aceita owner como admin; qualquer outro valor fica sem papel
func normRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "owner":
		return "admin"
	case "user", "usuario":
		return "user"
	}
	return ""
}
