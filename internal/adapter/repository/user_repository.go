package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/vex-core/internal/domain/user"
)

// UserRepository implementa a interface user.Repository usando PostgreSQL
type UserRepository struct {
	db DB
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail implementa user.Repository.FindByEmail
func (r *UserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*user.User, error) {
	var (
		u      user.User
		status string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, organizacion_id, nombre, email, rol, estado, created_at
		FROM usuarios
		WHERE organizacion_id = $1 AND lower(email) = $2
		LIMIT 1`,
		tenantID, user.NormalizeEmail(email),
	).Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Role, &status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	u.Status = user.Status(status)
	return &u, nil
}

// ExistsByEmail implementa user.Repository.ExistsByEmail
func (r *UserRepository) ExistsByEmail(ctx context.Context, tenantID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM usuarios WHERE organizacion_id = $1 AND lower(email) = $2)",
		tenantID, user.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("falha ao verificar existência do usuário: %w", err)
	}
	return exists, nil
}
