package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/vex-core/internal/domain/passwordreset"
	"github.com/hugohenrick/vex-core/internal/domain/user"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/auth"
)

const msgUserNotFound = "No encontre un usuario con ese email en esta organizacion."

type resetPayload struct {
	Email          string    `json:"email"`
	OrganizacionID string    `json:"organizacion_id"`
	ResetURL       string    `json:"reset_url,omitempty"`
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func (t *Tools) planReset(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	email := user.NormalizeEmail(fields.String("email"))
	if email == "" {
		return tool.Ask("A que email le mando el reset?", "email"), nil
	}
	if _, err := t.users.FindByEmail(ctx, caller.TenantID, email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return tool.Reject(msgUserNotFound), nil
		}
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}

	return &tool.PlanResult{
		Status:  tool.StatusOK,
		Fields:  tool.Fields{"email": email},
		Preview: map[string]interface{}{"email": email, "accion": "resetear password"},
		Message: fmt.Sprintf("Voy a enviar un reset de password a %s.", email),
		Steps:   []string{"Genero un link seguro", "Envio el email", "El usuario define nueva password"},
	}, nil
}

func (t *Tools) executeReset(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	email := user.NormalizeEmail(fields.String("email"))
	if email == "" {
		return tool.Failed("Falta el email.", nil), nil
	}
	if _, err := t.users.FindByEmail(ctx, caller.TenantID, email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return tool.Failed(msgUserNotFound, nil), nil
		}
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}

	token, err := auth.NewOpaqueToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	now := t.now()
	r := &passwordreset.Reset{
		ID:        uuid.New().String(),
		TenantID:  caller.TenantID,
		Email:     email,
		TokenHash: auth.HashToken(token),
		ExpiresAt: now.Add(t.cfg.ResetTTL),
		CreatedAt: now,
	}
	if err := t.resets.Issue(ctx, r); err != nil {
		return nil, fmt.Errorf("falha ao gravar redefinição: %w", err)
	}

	t.notify(ctx, t.cfg.ResetWebhookURL, t.cfg.ResetWebhookSecret, resetPayload{
		Email:          email,
		OrganizacionID: caller.TenantID,
		ResetURL:       resetURL(t.cfg.ResetURLBase, token, email, caller.TenantID),
		Token:          token,
		ExpiresAt:      r.ExpiresAt,
	})

	return &tool.ExecResult{
		Status:  tool.StatusOK,
		Result:  map[string]interface{}{"email": email, "expires_at": r.ExpiresAt.Format(time.RFC3339)},
		Message: fmt.Sprintf("Listo. Se envio el reset de password a %s.", email),
	}, nil
}

// resetURL monta base?token=&email=&org=; sem base não há link
func resetURL(base, token, email, tenantID string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("email", email)
	q.Set("org", tenantID)
	u.RawQuery = q.Encode()
	return u.String()
}
