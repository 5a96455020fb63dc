package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/vex-core/internal/domain/passwordreset"
)

// PasswordResetRepository implementa a interface passwordreset.Repository usando PostgreSQL
type PasswordResetRepository struct {
	db DB
}

// NewPasswordResetRepository cria uma nova instância de PasswordResetRepository
func NewPasswordResetRepository(db DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Issue implementa passwordreset.Repository.Issue
func (r *PasswordResetRepository) Issue(ctx context.Context, reset *passwordreset.Reset) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE password_resets SET used_at = $1
			WHERE organizacion_id = $2 AND lower(email) = lower($3) AND used_at IS NULL`,
			reset.CreatedAt, reset.TenantID, reset.Email,
		); err != nil {
			return fmt.Errorf("falha ao invalidar pedidos anteriores: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO password_resets (id, organizacion_id, email, token_hash, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			reset.ID, reset.TenantID, reset.Email, reset.TokenHash, reset.ExpiresAt, reset.CreatedAt,
		); err != nil {
			return fmt.Errorf("falha ao inserir pedido de redefinição: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("falha ao emitir redefinição de senha: %w", err)
	}
	return nil
}
