// Package remote resolve e chama as APIs dos módulos remotos (CRM, Stock, Flows).
package remote

import (
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/hugohenrick/vex-core/pkg/logger"
)

// Aliases de variáveis de ambiente aceitos por módulo, em ordem de preferência
var moduleEnvKeys = map[string][]string{
	"crm":   {"VEX_CRM_API_URL", "CRM_API_URL", "VEX_CRM_URL", "CRM_URL"},
	"stock": {"VEX_STOCK_API_URL", "STOCK_API_URL", "VEX_STOCK_URL", "STOCK_URL"},
	"flows": {"VEX_FLOWS_API_URL", "FLOWS_API_URL", "VEX_FLOWS_URL", "FLOWS_URL"},
}

var httpURLRe = regexp.MustCompile(`(?i)^https?://`)

// EnvKeys devolve os aliases de ambiente do módulo
func EnvKeys(module string) []string {
	return append([]string(nil), moduleEnvKeys[module]...)
}

// SettingsSource lê a configuração persistida de um módulo.
// Devolve "" quando não há registro; o registro da organização tem precedência sobre o global.
type SettingsSource interface {
	ModuleSetting(ctx context.Context, tenantID, key string) (string, error)
}

// ModuleConfig são as bases resolvidas de um módulo. Strings vazias indicam ausência.
type ModuleConfig struct {
	APIBase string `json:"api_base,omitempty"`
	FEBase  string `json:"fe_base,omitempty"`
}

// Locator resolve as URLs de cada módulo para uma organização
type Locator struct {
	settings  SettingsSource
	lookupEnv func(string) (string, bool)
	log       logger.Logger
}

// NewLocator cria o locator lendo o ambiente do processo
func NewLocator(settings SettingsSource, log logger.Logger) *Locator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Locator{settings: settings, lookupEnv: os.LookupEnv, log: log}
}

// WithEnv troca a função de leitura do ambiente
func (l *Locator) WithEnv(lookup func(string) (string, bool)) *Locator {
	cp := *l
	cp.lookupEnv = lookup
	return &cp
}

// Resolve aplica a ordem: variável de ambiente, depois configuração persistida.
// Falhas ao ler a configuração são registradas e tratadas como ausência.
func (l *Locator) Resolve(ctx context.Context, tenantID, module string) ModuleConfig {
	envBase := l.pickEnv(moduleEnvKeys[module])

	var cfg settingValue
	if l.settings != nil {
		raw, err := l.settings.ModuleSetting(ctx, tenantID, module)
		if err != nil {
			l.log.Warn("Falha ao ler configuração do módulo", "module", module, "tenant_id", tenantID, "error", err)
		} else {
			cfg = parseSetting(raw)
		}
	}

	apiBase := envBase
	if apiBase == "" {
		apiBase = cleanBaseURL(cfg.apiBase())
	}
	return ModuleConfig{APIBase: apiBase, FEBase: cleanBaseURL(cfg.feBase())}
}

func (l *Locator) pickEnv(keys []string) string {
	for _, k := range keys {
		if v, ok := l.lookupEnv(k); ok {
			if c := cleanBaseURL(v); c != "" {
				return c
			}
		}
	}
	return ""
}

// settingValue é o registro já interpretado: um objeto JSON ou uma URL simples
type settingValue map[string]interface{}

func parseSetting(raw string) settingValue {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		switch v := parsed.(type) {
		case map[string]interface{}:
			return v
		case string:
			if httpURLRe.MatchString(strings.TrimSpace(v)) {
				return settingValue{"api_base": v}
			}
		}
		return nil
	}
	if httpURLRe.MatchString(raw) {
		return settingValue{"api_base": raw}
	}
	return nil
}

func (s settingValue) first(keys ...string) string {
	for _, k := range keys {
		if v, ok := s[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (s settingValue) apiBase() string {
	return s.first("api_base", "api_url", "base_url", "url")
}

func (s settingValue) feBase() string {
	return s.first("fe_url", "fe_base", "frontend_url")
}

func cleanBaseURL(v string) string {
	return strings.TrimRight(strings.TrimSpace(v), "/")
}

// JoinURL junta base e caminho com exatamente uma barra
func JoinURL(base, path string) string {
	b := cleanBaseURL(base)
	if b == "" {
		return ""
	}
	if path == "" {
		return b
	}
	if strings.HasPrefix(path, "/") {
		return b + path
	}
	return b + "/" + path
}
