// Package config carrega a configuração do serviço a partir do ambiente.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Drivers de armazenamento do estado do assistente
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config reúne as variáveis de ambiente do serviço. As variáveis DB_* e
// DATABASE_URL continuam sendo lidas por database.NewPostgresConfigFromEnv.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"vex-core"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`
	BasePath    string `env:"API_BASE_PATH" envDefault:"/api/v1"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	JWTSecret   string   `env:"JWT_SECRET"`
	Superadmins []string `env:"SUPERADMINS" envSeparator:","`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	ConfirmTTLMinutes  int           `env:"ASSISTANT_CONFIRM_TTL_MIN" envDefault:"15"`
	QuestionTTLMinutes int           `env:"ASSISTANT_QUESTION_TTL_MIN" envDefault:"30"`
	AuditMaxLen        int           `env:"ASSISTANT_AUDIT_MAX_LEN" envDefault:"500"`
	RemoteTimeout      time.Duration `env:"ASSISTANT_REMOTE_TIMEOUT" envDefault:"8s"`
	Debug              bool          `env:"ASSISTANT_DEBUG" envDefault:"false"`
	Store              string        `env:"ASSISTANT_STORE" envDefault:"postgres"`

	RateLimitPerMinute int `env:"ASSISTANT_RATE_LIMIT_PER_MIN" envDefault:"30"`
	RateLimitBurst     int `env:"ASSISTANT_RATE_LIMIT_BURST" envDefault:"10"`

	InviteWebhookURL    string `env:"INVITE_WEBHOOK_URL"`
	InviteWebhookSecret string `env:"INVITE_WEBHOOK_SECRET"`
	ResetWebhookURL     string `env:"PASSWORD_RESET_WEBHOOK_URL"`
	ResetWebhookSecret  string `env:"PASSWORD_RESET_WEBHOOK_SECRET"`
	ResetURLBase        string `env:"PASSWORD_RESET_URL_BASE"`
	ResetTTLMinutes     int    `env:"PASSWORD_RESET_TTL_MIN" envDefault:"60"`

	EnableTracing bool   `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	MigrationsDir   string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load lê o ambiente e valida a configuração
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler configuração: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica combinações inválidas
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("ASSISTANT_STORE inválido: %q (use postgres ou memory)", c.Store)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET é obrigatório")
	}
	if c.ConfirmTTLMinutes <= 0 || c.QuestionTTLMinutes <= 0 {
		return fmt.Errorf("TTLs do assistente devem ser positivos")
	}
	return nil
}

// Addr retorna o endereço de escuta HTTP
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ConfirmTTL é o prazo de uma confirmação pendente
func (c *Config) ConfirmTTL() time.Duration {
	return time.Duration(c.ConfirmTTLMinutes) * time.Minute
}

// QuestionTTL é o prazo de uma pergunta pendente
func (c *Config) QuestionTTL() time.Duration {
	return time.Duration(c.QuestionTTLMinutes) * time.Minute
}

// ResetTTL é a validade de um link de redefinição de senha
func (c *Config) ResetTTL() time.Duration {
	return time.Duration(c.ResetTTLMinutes) * time.Minute
}
