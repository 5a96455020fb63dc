package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/hugohenrick/vex-core/pkg/logger"
)

// DefaultMigrationsDir é o diretório das migrações relativo à raiz do projeto
const DefaultMigrationsDir = "migrations"

// RunMigrations aplica as migrações pendentes. Sem mudanças não é erro.
func RunMigrations(dbURL, dir string, log logger.Logger) error {
	m, err := newMigrate(dbURL, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("erro ao ler versão das migrações: %w", err)
	}
	log.Info("Migrações aplicadas", "version", version, "dirty", dirty)
	return nil
}

// RollbackMigrations desfaz as últimas n migrações
func RollbackMigrations(dbURL, dir string, steps int, log logger.Logger) error {
	m, err := newMigrate(dbURL, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao desfazer migrações: %w", err)
	}
	log.Info("Migrações desfeitas", "steps", steps)
	return nil
}

func newMigrate(dbURL, dir string) (*migrate.Migrate, error) {
	if dir == "" {
		dir = DefaultMigrationsDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("caminho de migrações inválido: %w", err)
	}
	m, err := migrate.New("file://"+filepath.ToSlash(abs), dbURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}
	return m, nil
}
