package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SettingRepository implementa a interface setting.Repository usando PostgreSQL
type SettingRepository struct {
	db DB
}

// NewSettingRepository cria uma nova instância de SettingRepository
func NewSettingRepository(db DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// ModuleSetting implementa setting.Repository.ModuleSetting. A linha da
// organização vem antes da global (organizacion_id nulo).
func (r *SettingRepository) ModuleSetting(ctx context.Context, tenantID, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `
		SELECT valor
		FROM system_settings
		WHERE clave = $1 AND (organizacion_id = $2 OR organizacion_id IS NULL)
		ORDER BY organizacion_id NULLS LAST
		LIMIT 1`,
		"modules."+key, nullable(tenantID),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("falha ao ler configuração %s: %w", key, err)
	}
	return value, nil
}
