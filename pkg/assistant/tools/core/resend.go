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

const msgInviteNotFound = "No encontre una invitacion para ese email."

func (t *Tools) planResend(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	email := user.NormalizeEmail(fields.String("email"))
	if email == "" {
		return tool.Ask("A que email le reenvio la invitacion?", "email"), nil
	}
	inv, err := t.invites.FindLatest(ctx, caller.TenantID, email)
	if errors.Is(err, invitation.ErrNotFound) {
		return tool.Reject(msgInviteNotFound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar convite: %w", err)
	}

	return &tool.PlanResult{
		Status:  tool.StatusOK,
		Fields:  tool.Fields{"email": email},
		Preview: map[string]interface{}{"email": email, "rol": inv.Role, "accion": "reenviar invitacion"},
		Message: fmt.Sprintf("Voy a reenviar la invitacion a %s.", email),
		Steps:   []string{"Genero un nuevo link", "Reenvio el email", "Queda pendiente de aceptar"},
	}, nil
}

func (t *Tools) executeResend(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	email := user.NormalizeEmail(fields.String("email"))
	if email == "" {
		return tool.Failed("Falta el email.", nil), nil
	}
	inv, err := t.invites.FindLatest(ctx, caller.TenantID, email)
	if errors.Is(err, invitation.ErrNotFound) {
		return tool.Failed(msgInviteNotFound, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar convite: %w", err)
	}

	token, err := auth.NewOpaqueToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	if err := t.invites.Refresh(ctx, caller.TenantID, email, auth.HashToken(token), t.now()); err != nil {
		return nil, fmt.Errorf("falha ao renovar convite: %w", err)
	}

	t.notify(ctx, t.cfg.InviteWebhookURL, t.cfg.InviteWebhookSecret, invitePayload{
		Email:          email,
		Rol:            inv.Role,
		OrganizacionID: caller.TenantID,
		Token:          token,
		Resend:         true,
	})

	return &tool.ExecResult{
		Status:  tool.StatusOK,
		Result:  map[string]interface{}{"email": email, "rol": inv.Role, "status": string(invitation.StatusPending)},
		Message: fmt.Sprintf("Listo. Reenvie la invitacion a %s.", email),
	}, nil
}
