package database

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCapabilities(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("information_schema.columns").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("information_schema.columns").
		WillReturnError(errors.New("sem conexão"))

	caps, err := ProbeCapabilities(context.Background(), mock)
	require.NoError(t, err)
	assert.True(t, caps.InvitationResentAt)

	_, err = ProbeCapabilities(context.Background(), mock)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresConfig_URLs(t *testing.T) {
	cfg := &PostgresConfig{Host: "db", Port: 5433, User: "vex", Password: "p@ss", Database: "core", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=vex password=p@ss dbname=core sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, "postgres://vex:p%40ss@db:5433/core?sslmode=disable", cfg.MigrationURL())

	cfg.URL = "postgres://x@y/z"
	assert.Equal(t, cfg.URL, cfg.ConnectionString())
	assert.Equal(t, cfg.URL, cfg.MigrationURL())
}

func TestNewPostgresConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_PORT", "6543")
	cfg := NewPostgresConfigFromEnv()
	assert.Equal(t, "pg", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "vex_core", cfg.Database)
}
