package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SUPERADMINS", "root@vex.io, ops@vex.io")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.ConfirmTTL())
	assert.Equal(t, 30*time.Minute, cfg.QuestionTTL())
	assert.Equal(t, time.Hour, cfg.ResetTTL())
	assert.Equal(t, 500, cfg.AuditMaxLen)
	assert.Equal(t, 8*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, []string{"root@vex.io", " ops@vex.io"}, cfg.Superadmins)
	assert.False(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ASSISTANT_CONFIRM_TTL_MIN", "5")
	t.Setenv("ASSISTANT_DEBUG", "true")
	t.Setenv("ASSISTANT_STORE", "memory")
	t.Setenv("ASSISTANT_REMOTE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.ConfirmTTL())
	assert.True(t, cfg.Debug)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 2*time.Second, cfg.RemoteTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ASSISTANT_STORE", "redis")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ASSISTANT_STORE", "memory")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}
