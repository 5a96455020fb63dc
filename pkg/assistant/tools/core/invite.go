package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/vex-core/internal/domain/invitation"
	"github.com/hugohenrick/vex-core/internal/domain/user"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/auth"
)

type invitePayload struct {
	Email          string `json:"email"`
	Rol            string `json:"rol"`
	OrganizacionID string `json:"organizacion_id"`
	Token          string `json:"token"`
	Resend         bool   `json:"resend,omitempty"`
}

func (t *Tools) planInvite(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	email := user.NormalizeEmail(fields.String("email"))
	if email == "" {
		return tool.Ask("A que email le mando la invitacion?", "email"), nil
	}
	rol := normRole(fields.String("rol"))
	if rol == "" {
		return tool.Ask("Que rol queres darle? (admin o user)", "rol"), nil
	}

	exists, err := t.users.ExistsByEmail(ctx, caller.TenantID, email)
	if err != nil {
		return nil, fmt.Errorf("falha ao verificar usuário: %w", err)
	}
	if exists {
		return tool.Reject("Ese usuario ya existe en la organizacion."), nil
	}

	action := "crear invitacion"
	if _, err := t.invites.FindLatest(ctx, caller.TenantID, email); err == nil {
		action = "reenviar invitacion"
	} else if !errors.Is(err, invitation.ErrNotFound) {
		return nil, fmt.Errorf("falha ao buscar convite: %w", err)
	}

	return &tool.PlanResult{
		Status:  tool.StatusOK,
		Fields:  tool.Fields{"email": email, "rol": rol},
		Preview: map[string]interface{}{"email": email, "rol": rol, "accion": action},
		Message: fmt.Sprintf("Voy a %s para %s con rol %s.", action, email, rol),
		Steps:   []string{"Genero la invitacion", "Envio el link por email", "Queda pendiente de aceptar"},
	}, nil
}

func (t *Tools) executeInvite(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	email := user.NormalizeEmail(fields.String("email"))
	rol := normRole(fields.String("rol"))
	if email == "" || rol == "" {
		return tool.Failed("Faltan datos para invitar.", nil), nil
	}

	token, err := auth.NewOpaqueToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	inv := &invitation.Invitation{
		TenantID:  caller.TenantID,
		Email:     email,
		Role:      rol,
		InvitedBy: caller.UserID,
		TokenHash: auth.HashToken(token),
		Status:    invitation.StatusPending,
		CreatedAt: t.now(),
	}
	if err := t.invites.Upsert(ctx, inv); err != nil {
		return nil, fmt.Errorf("falha ao gravar convite: %w", err)
	}

	t.notify(ctx, t.cfg.InviteWebhookURL, t.cfg.InviteWebhookSecret, invitePayload{
		Email:          email,
		Rol:            rol,
		OrganizacionID: caller.TenantID,
		Token:          token,
	})

	return &tool.ExecResult{
		Status:  tool.StatusOK,
		Result:  map[string]interface{}{"email": email, "rol": rol, "status": string(invitation.StatusPending)},
		Message: fmt.Sprintf("Listo. Invitacion enviada a %s.", email),
	}, nil
}

// notify não falha a ação: o registro já foi gravado
func (t *Tools) notify(ctx context.Context, url, secret string, payload interface{}) {
	if err := t.notifier.Send(ctx, url, secret, payload); err != nil {
		t.log.Warn("Webhook do core falhou", "error", err.Error())
	}
}
