package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/vex-core/internal/domain/invitation"
)

// InvitationRepository implementa a interface invitation.Repository usando PostgreSQL.
// Bancos antigos não têm a coluna resent_at; o flag vem da verificação de schema no boot.
type InvitationRepository struct {
	db          DB
	hasResentAt bool
}

// NewInvitationRepository cria uma nova instância de InvitationRepository
func NewInvitationRepository(db DB, hasResentAt bool) *InvitationRepository {
	return &InvitationRepository{db: db, hasResentAt: hasResentAt}
}

// FindLatest implementa invitation.Repository.FindLatest
func (r *InvitationRepository) FindLatest(ctx context.Context, tenantID, email string) (*invitation.Invitation, error) {
	resent := "NULL::timestamptz"
	if r.hasResentAt {
		resent = "resent_at"
	}
	query := fmt.Sprintf(`
		SELECT id, organizacion_id, email, rol, COALESCE(invitado_por, ''), token_hash, estado, created_at, %s
		FROM core_invitaciones
		WHERE organizacion_id = $1 AND lower(email) = lower($2)
		ORDER BY created_at DESC
		LIMIT 1`, resent)

	var (
		inv    invitation.Invitation
		status string
	)
	err := r.db.QueryRow(ctx, query, tenantID, email).Scan(
		&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.TokenHash, &status, &inv.CreatedAt, &inv.ResentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invitation.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar convite: %w", err)
	}
	inv.Status = invitation.Status(status)
	return &inv, nil
}

// Upsert implementa invitation.Repository.Upsert. O id e a data de criação do
// convite existente são preservados e devolvidos em inv.
func (r *InvitationRepository) Upsert(ctx context.Context, inv *invitation.Invitation) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO core_invitaciones (id, organizacion_id, email, rol, invitado_por, token_hash, estado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organizacion_id, email) DO UPDATE
		SET rol = EXCLUDED.rol,
		    invitado_por = EXCLUDED.invitado_por,
		    token_hash = EXCLUDED.token_hash,
		    estado = EXCLUDED.estado
		RETURNING id, created_at`,
		inv.ID, inv.TenantID, inv.Email, inv.Role, nullable(inv.InvitedBy), inv.TokenHash, string(inv.Status), inv.CreatedAt,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar convite: %w", err)
	}
	return nil
}

// Refresh implementa invitation.Repository.Refresh
func (r *InvitationRepository) Refresh(ctx context.Context, tenantID, email, tokenHash string, at time.Time) error {
	var (
		query string
		args  []interface{}
	)
	if r.hasResentAt {
		query = `UPDATE core_invitaciones SET token_hash = $1, estado = 'pending', resent_at = $2
			WHERE organizacion_id = $3 AND lower(email) = lower($4)`
		args = []interface{}{tokenHash, at, tenantID, email}
	} else {
		query = `UPDATE core_invitaciones SET token_hash = $1, estado = 'pending'
			WHERE organizacion_id = $2 AND lower(email) = lower($3)`
		args = []interface{}{tokenHash, tenantID, email}
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao renovar convite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrNotFound
	}
	return nil
}
