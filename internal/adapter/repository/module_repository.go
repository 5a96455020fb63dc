package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/vex-core/internal/domain/module"
)

// ModuleRepository implementa a interface module.Repository usando PostgreSQL
type ModuleRepository struct {
	db DB
}

// NewModuleRepository cria uma nova instância de ModuleRepository
func NewModuleRepository(db DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// List implementa module.Repository.List. Módulos gerenciados sem registro aparecem desabilitados.
func (r *ModuleRepository) List(ctx context.Context, tenantID string) ([]*module.Module, error) {
	rows, err := r.db.Query(ctx,
		"SELECT nombre, habilitado FROM modulos WHERE organizacion_id = $1 ORDER BY nombre",
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar módulos: %w", err)
	}
	defer rows.Close()

	seen := map[string]*module.Module{}
	var out []*module.Module
	for rows.Next() {
		m := &module.Module{TenantID: tenantID}
		if err := rows.Scan(&m.Name, &m.Enabled); err != nil {
			return nil, fmt.Errorf("falha ao ler módulo: %w", err)
		}
		seen[m.Name] = m
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, name := range module.Managed {
		if _, ok := seen[name]; !ok {
			out = append(out, &module.Module{TenantID: tenantID, Name: name})
		}
	}
	return out, nil
}

// IsEnabled implementa module.Repository.IsEnabled
func (r *ModuleRepository) IsEnabled(ctx context.Context, tenantID, name string) (bool, error) {
	var enabled bool
	err := r.db.QueryRow(ctx,
		"SELECT habilitado FROM modulos WHERE organizacion_id = $1 AND nombre = $2",
		tenantID, name,
	).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("falha ao consultar módulo: %w", err)
	}
	return enabled, nil
}

// SetEnabled implementa module.Repository.SetEnabled
func (r *ModuleRepository) SetEnabled(ctx context.Context, tenantID, name string, enabled bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO modulos (organizacion_id, nombre, habilitado, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (organizacion_id, nombre) DO UPDATE
		SET habilitado = EXCLUDED.habilitado, updated_at = now()`,
		tenantID, name, enabled,
	)
	if err != nil {
		return fmt.Errorf("falha ao gravar módulo: %w", err)
	}
	return nil
}
